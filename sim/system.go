// Package sim is an in-process emulation of a VmbC system: one transport
// layer, one interface and a set of cameras built from registered models.
//
// A System implements vmb.API, so everything written against the SDK surface
// can run against emulated hardware:
//
//	sys, _ := sim.New(sim.Config{Cameras: []string{"mono:DEV_1"}}, slog.Default())
//	lib, _ := vmb.Load(vmb.ResolverFunc(func(name string) any { return vmb.Exports(sys)[name] }))
package sim

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vmbx/vmbx/vmb"
)

// Version is reported by VersionQuery.
var Version = vmb.VersionInfo{Major: 1, Minor: 1, Patch: 0}

const (
	transportLayerHandle vmb.Handle = 0x1000
	interfaceHandle      vmb.Handle = 0x2000
	cameraHandleBase     vmb.Handle = 0x10000
	streamHandleFlag     vmb.Handle = 0x8000
	chunkHandleBase      vmb.Handle = 0x100000
)

// Config lists the emulated cameras.
type Config struct {
	Cameras []string `help:"Emulated cameras as model[:id]. Models: mono, color." default:"color" env:"VMBX_SIM_CAMERAS"`
}

// System is an emulated VmbC instance.
type System struct {
	logger *slog.Logger

	mu           sync.Mutex
	startups     int
	cameras      []*camera
	open         map[vmb.Handle]*camera
	allocatedIDs map[uint32]bool
	chunks       map[vmb.Handle]*featureTree
	nextChunk    vmb.Handle
	tlTree       *featureTree
	ifTree       *featureTree
}

var _ vmb.API = (*System)(nil)

// New builds a System. Each Config.Cameras entry names a registered model,
// optionally followed by ":" and the camera id. Cameras without an id get a
// random serial number.
func New(cfg Config, logger *slog.Logger) (*System, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &System{
		logger:       logger,
		open:         make(map[vmb.Handle]*camera),
		allocatedIDs: make(map[uint32]bool),
		chunks:       make(map[vmb.Handle]*featureTree),
		nextChunk:    chunkHandleBase,
		tlTree:       moduleTree("TL", "VmbxSimTL"),
		ifTree:       moduleTree("Interface", "VmbxSimIF"),
	}
	seen := make(map[string]bool)
	for _, entry := range cfg.Cameras {
		modelName, id, _ := strings.Cut(entry, ":")
		m, ok := GetModel(modelName)
		if !ok {
			return nil, fmt.Errorf("unknown camera model %q (known: %s)", modelName, strings.Join(ListModels(), ", "))
		}
		serial := strings.TrimPrefix(id, "DEV_")
		if id == "" {
			u := uuid.New()
			serial = fmt.Sprintf("%X", u[:6])
			id = "DEV_" + serial
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate camera id %q", id)
		}
		seen[id] = true
		s.cameras = append(s.cameras, newCamera(id, serial, m))
	}
	return s, nil
}

func moduleTree(prefix, id string) *featureTree {
	t := &featureTree{}
	cat := "/" + prefix + "Information"
	t.add(&feature{info: info(prefix+"ID", cat, vmb.FeatureDataString, ro), strVal: id})
	t.add(&feature{info: info(prefix+"VendorName", cat, vmb.FeatureDataString, ro), strVal: "vmbx"})
	return t
}

func (s *System) started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startups > 0
}

// resolve maps a handle to its feature tree. cam is nil for the read-only
// transport layer, interface and chunk containers.
func (s *System) resolve(h vmb.Handle) (cam *camera, tree *featureTree, err vmb.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startups == 0 {
		return nil, nil, vmb.ErrorApiNotStarted
	}
	switch {
	case h == transportLayerHandle:
		return nil, s.tlTree, vmb.ErrorSuccess
	case h == interfaceHandle:
		return nil, s.ifTree, vmb.ErrorSuccess
	}
	if t, ok := s.chunks[h]; ok {
		return nil, t, vmb.ErrorSuccess
	}
	if c, ok := s.open[h&^streamHandleFlag]; ok {
		return c, c.tree, vmb.ErrorSuccess
	}
	return nil, nil, vmb.ErrorBadHandle
}

// device resolves a handle that must belong to an open camera.
func (s *System) device(h vmb.Handle) (*camera, vmb.Error) {
	c, _, err := s.resolve(h)
	if err != vmb.ErrorSuccess {
		return nil, err
	}
	if c == nil {
		return nil, vmb.ErrorBadHandle
	}
	return c, vmb.ErrorSuccess
}

func (s *System) findCamera(id string) *camera {
	for _, c := range s.cameras {
		if c.id == id || c.serial == id || extendedID(c.id) == id {
			return c
		}
	}
	return nil
}

// DroppedFrames reports how many images the camera with the given id lost
// because no frame was queued.
func (s *System) DroppedFrames(id string) uint64 {
	s.mu.Lock()
	c := s.findCamera(id)
	s.mu.Unlock()
	if c == nil {
		return 0
	}
	return c.droppedFrames()
}

func (s *System) VersionQuery(versionInfo *vmb.VersionInfo) vmb.Error {
	if versionInfo == nil {
		return vmb.ErrorBadParameter
	}
	*versionInfo = Version
	return vmb.ErrorSuccess
}

func (s *System) Startup(pathConfiguration string) vmb.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startups++
	s.logger.Debug("sim startup", "cameras", len(s.cameras), "path", pathConfiguration)
	return vmb.ErrorSuccess
}

// Shutdown closes all open cameras once every Startup has been matched.
func (s *System) Shutdown() {
	s.mu.Lock()
	if s.startups == 0 {
		s.mu.Unlock()
		return
	}
	s.startups--
	if s.startups > 0 {
		s.mu.Unlock()
		return
	}
	var toClose []*camera
	for h, c := range s.open {
		toClose = append(toClose, c)
		delete(s.open, h)
	}
	s.allocatedIDs = make(map[uint32]bool)
	s.mu.Unlock()

	for _, c := range toClose {
		c.close()
	}
	s.logger.Debug("sim shutdown", "closed", len(toClose))
}

func (s *System) CamerasList(cameraInfo []vmb.CameraInfo, numFound *uint32) vmb.Error {
	if !s.started() {
		return vmb.ErrorApiNotStarted
	}
	s.mu.Lock()
	infos := make([]vmb.CameraInfo, len(s.cameras))
	for i, c := range s.cameras {
		c.mu.Lock()
		infos[i] = c.info()
		c.mu.Unlock()
	}
	s.mu.Unlock()
	return fillList(infos, cameraInfo, numFound)
}

func (s *System) CameraInfoQueryByHandle(cameraHandle vmb.Handle, info *vmb.CameraInfo) vmb.Error {
	if info == nil {
		return vmb.ErrorBadParameter
	}
	c, err := s.device(cameraHandle)
	if err != vmb.ErrorSuccess {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	*info = c.info()
	return vmb.ErrorSuccess
}

func (s *System) CameraInfoQuery(idString string, info *vmb.CameraInfo) vmb.Error {
	if info == nil {
		return vmb.ErrorBadParameter
	}
	if !s.started() {
		return vmb.ErrorApiNotStarted
	}
	s.mu.Lock()
	c := s.findCamera(idString)
	s.mu.Unlock()
	if c == nil {
		return vmb.ErrorNotFound
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	*info = c.info()
	return vmb.ErrorSuccess
}

func (s *System) CameraOpen(idString string, accessMode vmb.AccessMode, cameraHandle *vmb.Handle) vmb.Error {
	if cameraHandle == nil {
		return vmb.ErrorBadParameter
	}
	switch accessMode {
	case vmb.AccessModeFull, vmb.AccessModeRead, vmb.AccessModeExclusive:
	default:
		return vmb.ErrorBadParameter
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startups == 0 {
		return vmb.ErrorApiNotStarted
	}
	c := s.findCamera(idString)
	if c == nil {
		return vmb.ErrorNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != 0 {
		return vmb.ErrorInvalidAccess
	}
	var id uint32
	for i := uint32(1); ; i++ {
		if !s.allocatedIDs[i] {
			id = i
			s.allocatedIDs[i] = true
			break
		}
	}
	c.handle = cameraHandleBase + vmb.Handle(id)
	c.access = accessMode
	s.open[c.handle] = c
	*cameraHandle = c.handle
	s.logger.Debug("sim camera opened", "id", c.id, "handle", fmt.Sprintf("%#x", uintptr(c.handle)), "access", accessMode)
	return vmb.ErrorSuccess
}

func (s *System) CameraClose(cameraHandle vmb.Handle) vmb.Error {
	s.mu.Lock()
	if s.startups == 0 {
		s.mu.Unlock()
		return vmb.ErrorApiNotStarted
	}
	c, ok := s.open[cameraHandle]
	if !ok {
		s.mu.Unlock()
		return vmb.ErrorBadHandle
	}
	delete(s.open, cameraHandle)
	delete(s.allocatedIDs, uint32(cameraHandle-cameraHandleBase))
	s.mu.Unlock()

	c.close()
	s.logger.Debug("sim camera closed", "id", c.id)
	return vmb.ErrorSuccess
}

func (s *System) TransportLayersList(transportLayerInfo []vmb.TransportLayerInfo, numFound *uint32) vmb.Error {
	if !s.started() {
		return vmb.ErrorApiNotStarted
	}
	tls := []vmb.TransportLayerInfo{{
		IDString:  "VmbxSimTL",
		Name:      "vmbx simulated transport layer",
		ModelName: "sim",
		Vendor:    "vmbx",
		Version:   fmt.Sprintf("%d.%d.%d", Version.Major, Version.Minor, Version.Patch),
		Path:      "builtin",
		Handle:    transportLayerHandle,
		Type:      vmb.TransportLayerCustom,
	}}
	return fillList(tls, transportLayerInfo, numFound)
}

func (s *System) InterfacesList(interfaceInfo []vmb.InterfaceInfo, numFound *uint32) vmb.Error {
	if !s.started() {
		return vmb.ErrorApiNotStarted
	}
	ifs := []vmb.InterfaceInfo{{
		IDString:             "VmbxSimIF",
		Name:                 "vmbx simulated interface",
		Handle:               interfaceHandle,
		TransportLayerHandle: transportLayerHandle,
		Type:                 vmb.TransportLayerCustom,
	}}
	return fillList(ifs, interfaceInfo, numFound)
}

// fillList copies src into dst following the SDK list convention: numFound
// always receives the full count and a short dst yields ErrorMoreData.
func fillList[T any](src, dst []T, numFound *uint32) vmb.Error {
	if numFound == nil {
		return vmb.ErrorBadParameter
	}
	*numFound = uint32(len(src))
	if dst == nil {
		return vmb.ErrorSuccess
	}
	if copy(dst, src) < len(src) {
		return vmb.ErrorMoreData
	}
	return vmb.ErrorSuccess
}

// fillBytes is fillList for byte buffers; size receives the full length.
func fillBytes(src, dst []byte, size *uint32) vmb.Error {
	return fillList(src, dst, size)
}

package sim

import (
	"reflect"
	"sync"
	"time"

	"github.com/vmbx/vmbx/vmb"
)

const memorySize = 64 * 1024

// GigE Vision bootstrap register offsets seeded into device memory.
const (
	regManufacturerName = 0x0048
	regModelName        = 0x0068
	regSerialNumber     = 0x00D8
	regUserDefinedName  = 0x00E8
)

type invalidation struct {
	name     string
	callback vmb.InvalidationCallback
	context  any
}

type frameSlot struct {
	queued   bool
	callback vmb.FrameCallback
	done     chan struct{}
}

type chunkValues struct {
	frameID   uint64
	timestamp uint64
	exposure  float64
}

// camera is one emulated device. All fields below mu are guarded by it.
// Callbacks are always invoked with mu released.
type camera struct {
	id     string
	serial string
	model  Model
	epoch  time.Time

	mu            sync.Mutex
	tree          *featureTree
	handle        vmb.Handle
	access        vmb.AccessMode
	invalidations []invalidation
	memory        []byte

	announced  map[*vmb.Frame]*frameSlot
	queue      []*vmb.Frame
	capturing  bool
	acquiring  bool
	stop       chan struct{}
	engineDone chan struct{}
	inflight   sync.WaitGroup
	frameID    uint64
	dropped    uint64
	chunks     map[*vmb.Frame]chunkValues
}

func newCamera(id, serial string, m Model) *camera {
	c := &camera{
		id:        id,
		serial:    serial,
		model:     m,
		epoch:     time.Now(),
		tree:      newFeatureTree(m, serial),
		memory:    make([]byte, memorySize),
		announced: make(map[*vmb.Frame]*frameSlot),
		chunks:    make(map[*vmb.Frame]chunkValues),
	}
	copy(c.memory[regManufacturerName:regManufacturerName+32], m.Vendor)
	copy(c.memory[regModelName:regModelName+32], m.ModelName)
	copy(c.memory[regSerialNumber:regSerialNumber+16], serial)
	return c
}

func extendedID(id string) string { return "VmbxSimTL/VmbxSimIF/" + id }

func (c *camera) streamHandle() vmb.Handle { return c.handle | streamHandleFlag }

func (c *camera) info() vmb.CameraInfo {
	ci := vmb.CameraInfo{
		IDString:             c.id,
		IDExtended:           extendedID(c.id),
		Name:                 c.model.ModelName,
		ModelName:            c.model.ModelName,
		SerialString:         c.serial,
		TransportLayerHandle: transportLayerHandle,
		InterfaceHandle:      interfaceHandle,
		PermittedAccess:      vmb.AccessModeFull | vmb.AccessModeRead,
	}
	if c.handle != 0 {
		ci.LocalDeviceHandle = c.handle
		ci.StreamHandles = []vmb.Handle{c.streamHandle()}
		ci.PermittedAccess = vmb.AccessModeRead
	}
	return ci
}

// intVal reads an int feature of the device tree. Callers hold mu.
func (c *camera) intVal(name string) int64 {
	return c.tree.byName[name].intValue(c)
}

func (c *camera) pixelFormat() vmb.PixelFormat {
	f := c.tree.byName["PixelFormat"]
	e, _ := f.entry(f.enumVal)
	return vmb.PixelFormat(e.IntValue)
}

// clampGeometry keeps Width and OffsetX inside the sensor after a binning
// change.
func (c *camera) clampGeometry() {
	wmax := c.intVal("WidthMax")
	off := c.tree.byName["OffsetX"]
	if off.intVal > wmax-widthInc {
		off.intVal = (wmax - widthInc) / widthInc * widthInc
	}
	w := c.tree.byName["Width"]
	if w.intVal > wmax-off.intVal {
		w.intVal = (wmax - off.intVal) / widthInc * widthInc
	}
}

// syncUserID mirrors DeviceUserID into the bootstrap user-defined-name
// register.
func (c *camera) syncUserID() {
	reg := c.memory[regUserDefinedName : regUserDefinedName+16]
	clear(reg)
	copy(reg, c.tree.byName["DeviceUserID"].strVal)
}

// collectInvalidations returns the registrations matching f and its
// dependents. Callers hold mu.
func (c *camera) collectInvalidations(names ...string) []invalidation {
	var out []invalidation
	for _, name := range names {
		for _, inv := range c.invalidations {
			if inv.name == name {
				out = append(out, inv)
			}
		}
	}
	return out
}

func (c *camera) fire(handle vmb.Handle, invs []invalidation) {
	for _, inv := range invs {
		inv.callback(handle, inv.name, inv.context)
	}
}

func (c *camera) register(name string, cb vmb.InvalidationCallback, ctx any) {
	c.invalidations = append(c.invalidations, invalidation{name: name, callback: cb, context: ctx})
}

func (c *camera) unregister(name string, cb vmb.InvalidationCallback) bool {
	ptr := reflect.ValueOf(cb).Pointer()
	for i, inv := range c.invalidations {
		if inv.name == name && reflect.ValueOf(inv.callback).Pointer() == ptr {
			c.invalidations = append(c.invalidations[:i], c.invalidations[i+1:]...)
			return true
		}
	}
	return false
}

func (c *camera) lockedFeatureNames() []string {
	var names []string
	for _, f := range c.tree.order {
		if f.lockWhileAcq {
			names = append(names, f.info.Name)
		}
	}
	return names
}

func (c *camera) framePeriod() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	rate := c.tree.byName["AcquisitionFrameRate"].floatVal
	return time.Duration(float64(time.Second) / rate)
}

func (c *camera) acquisitionStart() vmb.Error {
	c.mu.Lock()
	if c.acquiring {
		c.mu.Unlock()
		return vmb.ErrorSuccess
	}
	c.acquiring = true
	c.stop = make(chan struct{})
	c.engineDone = make(chan struct{})
	go c.runEngine(c.stop, c.engineDone)
	invs := c.collectInvalidations(c.lockedFeatureNames()...)
	handle := c.handle
	c.mu.Unlock()

	c.fire(handle, invs)
	return vmb.ErrorSuccess
}

func (c *camera) acquisitionStop() vmb.Error {
	c.mu.Lock()
	if !c.acquiring {
		c.mu.Unlock()
		return vmb.ErrorSuccess
	}
	c.acquiring = false
	close(c.stop)
	invs := c.collectInvalidations(c.lockedFeatureNames()...)
	handle := c.handle
	c.mu.Unlock()

	c.fire(handle, invs)
	return vmb.ErrorSuccess
}

func (c *camera) triggerSoftware() vmb.Error {
	c.deliver()
	return vmb.ErrorSuccess
}

func (c *camera) runEngine(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	timer := time.NewTimer(c.framePeriod())
	defer timer.Stop()
	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			c.deliver()
			timer.Reset(c.framePeriod())
		}
	}
}

// deliver completes the oldest queued frame. Without a free frame the
// image is counted as dropped.
func (c *camera) deliver() {
	c.mu.Lock()
	if !c.capturing {
		c.mu.Unlock()
		return
	}
	if len(c.queue) == 0 {
		c.dropped++
		c.mu.Unlock()
		return
	}
	frame := c.queue[0]
	c.queue = c.queue[1:]
	slot := c.announced[frame]
	slot.queued = false
	c.fill(frame)
	cb, done := slot.callback, slot.done
	handle, stream := c.handle, c.streamHandle()
	c.inflight.Add(1)
	c.mu.Unlock()

	if cb != nil {
		cb(handle, stream, frame)
	}
	close(done)
	c.inflight.Done()
}

// fill writes the next image into frame. Callers hold mu.
func (c *camera) fill(frame *vmb.Frame) {
	c.frameID++
	pf := c.pixelFormat()
	w, h := uint32(c.intVal("Width")), uint32(c.intVal("Height"))
	size := pf.ImageSize(w, h)

	frame.FrameID = c.frameID
	frame.Timestamp = uint64(time.Since(c.epoch).Nanoseconds())
	frame.PixelFormat = pf
	frame.Width, frame.Height = w, h
	frame.OffsetX = uint32(c.intVal("OffsetX"))
	frame.OffsetY = uint32(c.intVal("OffsetY"))
	frame.PayloadType = vmb.PayloadTypeImage
	frame.ReceiveFlags = vmb.FrameFlagsDimension | vmb.FrameFlagsOffset | vmb.FrameFlagsFrameID |
		vmb.FrameFlagsTimestamp | vmb.FrameFlagsPayloadType
	frame.ChunkDataPresent = false
	delete(c.chunks, frame)

	if uint32(len(frame.Buffer)) < size {
		frame.ReceiveStatus = vmb.FrameStatusTooSmall
		frame.ImageData = nil
		return
	}
	frame.ImageData = frame.Buffer[:size]
	fillPattern(frame.ImageData, pf, w, h, c.frameID, c.tree.byName["ReverseX"].boolVal)
	frame.ReceiveFlags |= vmb.FrameFlagsImageData
	frame.ReceiveStatus = vmb.FrameStatusComplete

	if c.tree.byName["ChunkModeActive"].boolVal {
		frame.ChunkDataPresent = true
		frame.ReceiveFlags |= vmb.FrameFlagsChunkDataPresent
		c.chunks[frame] = chunkValues{
			frameID:   frame.FrameID,
			timestamp: frame.Timestamp,
			exposure:  c.tree.byName["ExposureTime"].floatVal,
		}
	}
}

// flush drops every queued frame. Callers hold mu.
func (c *camera) flush() {
	for _, frame := range c.queue {
		slot := c.announced[frame]
		slot.queued = false
		frame.ReceiveStatus = vmb.FrameStatusInvalid
		close(slot.done)
	}
	c.queue = nil
}

// close stops acquisition and capture and forgets all session state. It
// must not be called from a frame callback.
func (c *camera) close() {
	c.acquisitionStop()

	c.mu.Lock()
	c.capturing = false
	done := c.engineDone
	c.flush()
	c.announced = make(map[*vmb.Frame]*frameSlot)
	c.chunks = make(map[*vmb.Frame]chunkValues)
	c.invalidations = nil
	c.handle = 0
	c.access = vmb.AccessModeNone
	c.mu.Unlock()

	c.inflight.Wait()
	if done != nil {
		<-done
	}
}

// droppedFrames returns the number of images lost for lack of a queued frame.
func (c *camera) droppedFrames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

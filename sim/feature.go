package sim

import (
	"math"

	"github.com/vmbx/vmbx/vmb"
)

const (
	widthInc  = 8
	heightInc = 2
	lutSize   = 256
)

// feature is one node of an emulated feature tree. Only the fields matching
// info.DataType are used.
type feature struct {
	info vmb.FeatureInfo

	dependents     []string
	selected       []string
	lockWhileAcq   bool
	intValidValues []int64

	intVal   int64
	intInc   int64
	intRange func(c *camera) (int64, int64)
	intGet   func(c *camera) int64

	floatVal    float64
	floatMin    float64
	floatMax    float64
	floatInc    float64
	hasFloatInc bool

	enumVal     string
	entries     []vmb.FeatureEnumEntry
	unavailable map[string]bool

	strVal string
	strMax uint32

	boolVal bool

	rawVal []byte

	run    func(c *camera) vmb.Error
	onSet  func(c *camera)
	isDone bool
}

func (f *feature) readable() bool { return f.info.Flags.Has(vmb.FeatureFlagsRead) }
func (f *feature) writable() bool { return f.info.Flags.Has(vmb.FeatureFlagsWrite) }

func (f *feature) intValue(c *camera) int64 {
	if f.intGet != nil {
		return f.intGet(c)
	}
	return f.intVal
}

func (f *feature) intBounds(c *camera) (int64, int64) {
	if f.intRange != nil {
		return f.intRange(c)
	}
	if len(f.intValidValues) > 0 {
		lo, hi := f.intValidValues[0], f.intValidValues[0]
		for _, v := range f.intValidValues {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		return lo, hi
	}
	return math.MinInt64, math.MaxInt64
}

func (f *feature) checkInt(c *camera, v int64) vmb.Error {
	if len(f.intValidValues) > 0 {
		for _, valid := range f.intValidValues {
			if v == valid {
				return vmb.ErrorSuccess
			}
		}
		return vmb.ErrorInvalidValue
	}
	lo, hi := f.intBounds(c)
	if v < lo || v > hi {
		return vmb.ErrorInvalidValue
	}
	if f.intInc > 1 && (v-lo)%f.intInc != 0 {
		return vmb.ErrorInvalidValue
	}
	return vmb.ErrorSuccess
}

func (f *feature) checkFloat(v float64) vmb.Error {
	if math.IsNaN(v) || v < f.floatMin || v > f.floatMax {
		return vmb.ErrorInvalidValue
	}
	if f.hasFloatInc {
		steps := (v - f.floatMin) / f.floatInc
		if math.Abs(steps-math.Round(steps)) > 1e-6 {
			return vmb.ErrorInvalidValue
		}
	}
	return vmb.ErrorSuccess
}

func (f *feature) entry(name string) (vmb.FeatureEnumEntry, bool) {
	for _, e := range f.entries {
		if e.Name == name {
			return e, true
		}
	}
	return vmb.FeatureEnumEntry{}, false
}

func (f *feature) entryByValue(v int64) (vmb.FeatureEnumEntry, bool) {
	for _, e := range f.entries {
		if e.IntValue == v {
			return e, true
		}
	}
	return vmb.FeatureEnumEntry{}, false
}

// featureTree is an ordered set of features addressable by name.
type featureTree struct {
	byName map[string]*feature
	order  []*feature
}

func (t *featureTree) add(f *feature) *feature {
	if t.byName == nil {
		t.byName = make(map[string]*feature)
	}
	t.byName[f.info.Name] = f
	t.order = append(t.order, f)
	return f
}

func (t *featureTree) get(name string) (*feature, vmb.Error) {
	f, ok := t.byName[name]
	if !ok {
		return nil, vmb.ErrorNotFound
	}
	return f, vmb.ErrorSuccess
}

func (t *featureTree) infos() []vmb.FeatureInfo {
	out := make([]vmb.FeatureInfo, len(t.order))
	for i, f := range t.order {
		out[i] = f.info
	}
	return out
}

func info(name, category string, dt vmb.FeatureDataType, flags vmb.FeatureFlags) vmb.FeatureInfo {
	return vmb.FeatureInfo{
		Name:          name,
		Category:      category,
		DisplayName:   name,
		SFNCNamespace: "SFNC",
		DataType:      dt,
		Flags:         flags,
		Visibility:    vmb.VisibilityBeginner,
		IsStreamable:  flags.Has(vmb.FeatureFlagsRead | vmb.FeatureFlagsWrite),
	}
}

const (
	ro = vmb.FeatureFlagsRead
	rw = vmb.FeatureFlagsRead | vmb.FeatureFlagsWrite
	wo = vmb.FeatureFlagsWrite
)

func enumEntries(names ...string) []vmb.FeatureEnumEntry {
	out := make([]vmb.FeatureEnumEntry, len(names))
	for i, n := range names {
		out[i] = vmb.FeatureEnumEntry{Name: n, DisplayName: n, IntValue: int64(i), SFNCNamespace: "SFNC", Visibility: vmb.VisibilityBeginner}
	}
	return out
}

func newFeatureTree(m Model, serial string) *featureTree {
	t := &featureTree{}
	cat := "/DeviceControl"
	t.add(&feature{info: info("DeviceVendorName", cat, vmb.FeatureDataString, ro), strVal: m.Vendor})
	t.add(&feature{info: info("DeviceModelName", cat, vmb.FeatureDataString, ro), strVal: m.ModelName})
	t.add(&feature{info: info("DeviceSerialNumber", cat, vmb.FeatureDataString, ro), strVal: serial})
	t.add(&feature{info: info("DeviceUserID", cat, vmb.FeatureDataString, rw), strMax: 16, onSet: (*camera).syncUserID})

	cat = "/ImageFormatControl"
	t.add(&feature{
		info:   info("WidthMax", cat, vmb.FeatureDataInt, ro),
		intGet: func(c *camera) int64 { return c.model.SensorWidth / c.intVal("BinningHorizontal") },
	})
	t.add(&feature{
		info:   info("HeightMax", cat, vmb.FeatureDataInt, ro),
		intGet: func(c *camera) int64 { return c.model.SensorHeight },
	})
	t.add(&feature{
		info:         info("Width", cat, vmb.FeatureDataInt, rw),
		dependents:   []string{"OffsetX", "PayloadSize"},
		lockWhileAcq: true,
		intVal:       m.SensorWidth,
		intInc:       widthInc,
		intRange: func(c *camera) (int64, int64) {
			return widthInc, c.intVal("WidthMax") - c.intVal("OffsetX")
		},
	})
	t.add(&feature{
		info:         info("Height", cat, vmb.FeatureDataInt, rw),
		dependents:   []string{"OffsetY", "PayloadSize"},
		lockWhileAcq: true,
		intVal:       m.SensorHeight,
		intInc:       heightInc,
		intRange: func(c *camera) (int64, int64) {
			return heightInc, c.intVal("HeightMax") - c.intVal("OffsetY")
		},
	})
	t.add(&feature{
		info:         info("OffsetX", cat, vmb.FeatureDataInt, rw),
		dependents:   []string{"Width"},
		lockWhileAcq: true,
		intInc:       widthInc,
		intRange: func(c *camera) (int64, int64) {
			return 0, c.intVal("WidthMax") - c.intVal("Width")
		},
	})
	t.add(&feature{
		info:         info("OffsetY", cat, vmb.FeatureDataInt, rw),
		dependents:   []string{"Height"},
		lockWhileAcq: true,
		intInc:       heightInc,
		intRange: func(c *camera) (int64, int64) {
			return 0, c.intVal("HeightMax") - c.intVal("Height")
		},
	})
	t.add(&feature{
		info:           info("BinningHorizontal", cat, vmb.FeatureDataInt, rw),
		dependents:     []string{"WidthMax", "Width", "OffsetX", "PayloadSize"},
		lockWhileAcq:   true,
		intVal:         1,
		intValidValues: []int64{1, 2, 4},
		onSet:          (*camera).clampGeometry,
	})

	formats := make([]vmb.FeatureEnumEntry, len(m.PixelFormats))
	for i, pf := range m.PixelFormats {
		formats[i] = vmb.FeatureEnumEntry{
			Name:          pf.String(),
			DisplayName:   pf.String(),
			IntValue:      int64(pf),
			SFNCNamespace: "PFNC",
			Visibility:    vmb.VisibilityBeginner,
		}
	}
	t.add(&feature{
		info:         info("PixelFormat", cat, vmb.FeatureDataEnum, rw),
		dependents:   []string{"PayloadSize"},
		lockWhileAcq: true,
		entries:      formats,
		enumVal:      m.PixelFormats[0].String(),
	})
	t.add(&feature{
		info: info("PayloadSize", cat, vmb.FeatureDataInt, ro),
		intGet: func(c *camera) int64 {
			return int64(c.pixelFormat().ImageSize(uint32(c.intVal("Width")), uint32(c.intVal("Height"))))
		},
	})
	t.add(&feature{info: info("ReverseX", cat, vmb.FeatureDataBool, rw)})

	cat = "/AcquisitionControl"
	t.add(&feature{
		info:     info("ExposureTime", cat, vmb.FeatureDataFloat, rw),
		floatVal: 5000,
		floatMin: 10,
		floatMax: 1e7,
	})
	t.byName["ExposureTime"].info.Unit = "us"
	t.add(&feature{
		info:        info("Gain", "/AnalogControl", vmb.FeatureDataFloat, rw),
		floatMin:    0,
		floatMax:    24,
		floatInc:    0.1,
		hasFloatInc: true,
	})
	t.byName["Gain"].info.Unit = "dB"
	t.add(&feature{
		info:     info("AcquisitionFrameRate", cat, vmb.FeatureDataFloat, rw),
		floatVal: 30,
		floatMin: 1,
		floatMax: 500,
	})
	t.byName["AcquisitionFrameRate"].info.Unit = "Hz"
	t.add(&feature{
		info:        info("ExposureAuto", cat, vmb.FeatureDataEnum, rw),
		entries:     enumEntries("Off", "Once", "Continuous"),
		enumVal:     "Off",
		unavailable: map[string]bool{"Once": true},
	})
	t.add(&feature{info: info("AcquisitionStart", cat, vmb.FeatureDataCommand, wo), run: (*camera).acquisitionStart, isDone: true})
	t.add(&feature{info: info("AcquisitionStop", cat, vmb.FeatureDataCommand, wo), run: (*camera).acquisitionStop, isDone: true})
	t.add(&feature{info: info("TriggerSoftware", "/TriggerControl", vmb.FeatureDataCommand, wo), run: (*camera).triggerSoftware, isDone: true})

	cat = "/ChunkDataControl"
	t.add(&feature{info: info("ChunkModeActive", cat, vmb.FeatureDataBool, rw), lockWhileAcq: true})

	cat = "/LUTControl"
	selector := t.add(&feature{
		info:     info("LUTSelector", cat, vmb.FeatureDataEnum, rw),
		entries:  enumEntries("Luminance"),
		enumVal:  "Luminance",
		selected: []string{"LUTEnable", "LUTValueAll"},
	})
	selector.info.HasSelectedFeatures = true
	t.add(&feature{info: info("LUTEnable", cat, vmb.FeatureDataBool, rw)})
	identity := make([]byte, lutSize)
	for i := range identity {
		identity[i] = byte(i)
	}
	t.add(&feature{info: info("LUTValueAll", cat, vmb.FeatureDataRaw, rw), rawVal: identity})
	return t
}

// chunkTree builds the read-only container ChunkDataAccess hands out.
func chunkTree(v chunkValues) *featureTree {
	t := &featureTree{}
	cat := "/ChunkData"
	t.add(&feature{info: info("ChunkFrameID", cat, vmb.FeatureDataInt, ro), intVal: int64(v.frameID)})
	t.add(&feature{info: info("ChunkTimestamp", cat, vmb.FeatureDataInt, ro), intVal: int64(v.timestamp)})
	t.add(&feature{info: info("ChunkExposureTime", cat, vmb.FeatureDataFloat, ro), floatVal: v.exposure, floatMax: math.MaxFloat64})
	return t
}

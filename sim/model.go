package sim

import (
	"sort"
	"strings"
	"sync"

	"github.com/vmbx/vmbx/vmb"
)

// Model describes an emulated camera type.
type Model struct {
	ModelName    string
	Vendor       string
	SensorWidth  int64
	SensorHeight int64
	PixelFormats []vmb.PixelFormat
}

var (
	modelRegistry   = make(map[string]Model)
	modelRegistryMu sync.RWMutex
)

func init() {
	RegisterModel("mono", Model{
		ModelName:    "1800 U-240m",
		Vendor:       "Allied Vision",
		SensorWidth:  1936,
		SensorHeight: 1216,
		PixelFormats: []vmb.PixelFormat{
			vmb.PixelFormatMono8,
			vmb.PixelFormatMono10,
			vmb.PixelFormatMono12,
			vmb.PixelFormatMono16,
		},
	})
	RegisterModel("color", Model{
		ModelName:    "1800 U-240c",
		Vendor:       "Allied Vision",
		SensorWidth:  1936,
		SensorHeight: 1216,
		PixelFormats: []vmb.PixelFormat{
			vmb.PixelFormatMono8,
			vmb.PixelFormatMono12,
			vmb.PixelFormatMono16,
			vmb.PixelFormatRGB8,
			vmb.PixelFormatBGR8,
			vmb.PixelFormatBayerRG8,
			vmb.PixelFormatBayerRG10,
			vmb.PixelFormatBayerRG12,
			vmb.PixelFormatBayerRG16,
			vmb.PixelFormatBayerBG8,
			vmb.PixelFormatBayerBG10,
			vmb.PixelFormatBayerBG12,
			vmb.PixelFormatBayerBG16,
			vmb.PixelFormatBayerGB8,
			vmb.PixelFormatBayerGB10,
			vmb.PixelFormatBayerGB12,
			vmb.PixelFormatBayerGB16,
			vmb.PixelFormatBayerGR8,
			vmb.PixelFormatBayerGR10,
			vmb.PixelFormatBayerGR12,
			vmb.PixelFormatBayerGR16,
			vmb.PixelFormatYCbCr422_8,
		},
	})
}

// RegisterModel makes a camera model available to Config.Cameras.
// The name is case-insensitive.
func RegisterModel(name string, m Model) {
	modelRegistryMu.Lock()
	defer modelRegistryMu.Unlock()
	modelRegistry[strings.ToLower(name)] = m
}

// GetModel looks up a registered model by name.
func GetModel(name string) (Model, bool) {
	modelRegistryMu.RLock()
	defer modelRegistryMu.RUnlock()
	m, ok := modelRegistry[strings.ToLower(name)]
	return m, ok
}

// ListModels returns the registered model names in sorted order.
func ListModels() []string {
	modelRegistryMu.RLock()
	defer modelRegistryMu.RUnlock()
	names := make([]string, 0, len(modelRegistry))
	for name := range modelRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

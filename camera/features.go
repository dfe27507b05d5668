package camera

import (
	"context"
	"time"

	"github.com/vmbx/vmbx/vmb"
)

// IntInfo describes the range of an integer feature.
type IntInfo struct {
	Min       int64 `json:"min"`
	Max       int64 `json:"max"`
	Increment int64 `json:"inc"`
}

// FloatInfo describes the range of a float feature.
type FloatInfo struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Increment    float64 `json:"inc"`
	HasIncrement bool    `json:"inc_available"`
}

// EnumInfo lists the entries of an enum feature and which of them can be
// set right now.
type EnumInfo struct {
	Options   []string `json:"possible_values"`
	Available []string `json:"available_values"`
}

const commandPollInterval = 10 * time.Millisecond

// Features lists every feature of the camera.
func (c *Camera) Features() ([]vmb.FeatureInfo, error) {
	var n uint32
	if err := check("FeaturesList", "", c.api.FeaturesList(c.handle, nil, &n)); err != nil {
		return nil, err
	}
	infos := make([]vmb.FeatureInfo, n)
	if err := check("FeaturesList", "", c.api.FeaturesList(c.handle, infos, &n)); err != nil {
		return nil, err
	}
	return infos[:min(int(n), len(infos))], nil
}

// FeatureInfo returns the description of one feature.
func (c *Camera) FeatureInfo(name string) (vmb.FeatureInfo, error) {
	var fi vmb.FeatureInfo
	err := check("FeatureInfoQuery", name, c.api.FeatureInfoQuery(c.handle, name, &fi))
	return fi, err
}

// SelectedFeatures lists the features a selector feature switches.
func (c *Camera) SelectedFeatures(name string) ([]vmb.FeatureInfo, error) {
	var n uint32
	if err := check("FeatureListSelected", name, c.api.FeatureListSelected(c.handle, name, nil, &n)); err != nil {
		return nil, err
	}
	infos := make([]vmb.FeatureInfo, n)
	if n == 0 {
		return infos, nil
	}
	if err := check("FeatureListSelected", name, c.api.FeatureListSelected(c.handle, name, infos, &n)); err != nil {
		return nil, err
	}
	return infos, nil
}

// FeatureAccess reports whether name can currently be read and written.
func (c *Camera) FeatureAccess(name string) (readable, writable bool, err error) {
	err = check("FeatureAccessQuery", name, c.api.FeatureAccessQuery(c.handle, name, &readable, &writable))
	return readable, writable, err
}

func (c *Camera) IntGet(name string) (int64, error) {
	var v int64
	err := check("FeatureIntGet", name, c.api.FeatureIntGet(c.handle, name, &v))
	return v, err
}

func (c *Camera) IntSet(name string, v int64) error {
	return check("FeatureIntSet", name, c.api.FeatureIntSet(c.handle, name, v))
}

func (c *Camera) IntInfo(name string) (IntInfo, error) {
	var info IntInfo
	if err := check("FeatureIntRangeQuery", name, c.api.FeatureIntRangeQuery(c.handle, name, &info.Min, &info.Max)); err != nil {
		return info, err
	}
	err := check("FeatureIntIncrementQuery", name, c.api.FeatureIntIncrementQuery(c.handle, name, &info.Increment))
	return info, err
}

// IntValidValues returns the explicit value set of an integer feature.
// Features without one fail with vmb.ErrorValidValueSetNotPresent.
func (c *Camera) IntValidValues(name string) ([]int64, error) {
	var n uint32
	if err := check("FeatureIntValidValueSetQuery", name, c.api.FeatureIntValidValueSetQuery(c.handle, name, nil, &n)); err != nil {
		return nil, err
	}
	values := make([]int64, n)
	if err := check("FeatureIntValidValueSetQuery", name, c.api.FeatureIntValidValueSetQuery(c.handle, name, values, &n)); err != nil {
		return nil, err
	}
	return values, nil
}

func (c *Camera) FloatGet(name string) (float64, error) {
	var v float64
	err := check("FeatureFloatGet", name, c.api.FeatureFloatGet(c.handle, name, &v))
	return v, err
}

func (c *Camera) FloatSet(name string, v float64) error {
	return check("FeatureFloatSet", name, c.api.FeatureFloatSet(c.handle, name, v))
}

func (c *Camera) FloatInfo(name string) (FloatInfo, error) {
	var info FloatInfo
	if err := check("FeatureFloatRangeQuery", name, c.api.FeatureFloatRangeQuery(c.handle, name, &info.Min, &info.Max)); err != nil {
		return info, err
	}
	err := check("FeatureFloatIncrementQuery", name,
		c.api.FeatureFloatIncrementQuery(c.handle, name, &info.HasIncrement, &info.Increment))
	return info, err
}

func (c *Camera) EnumGet(name string) (string, error) {
	var v string
	err := check("FeatureEnumGet", name, c.api.FeatureEnumGet(c.handle, name, &v))
	return v, err
}

func (c *Camera) EnumSet(name, v string) error {
	return check("FeatureEnumSet", name, c.api.FeatureEnumSet(c.handle, name, v))
}

func (c *Camera) EnumInfo(name string) (EnumInfo, error) {
	var info EnumInfo
	var n uint32
	if err := check("FeatureEnumRangeQuery", name, c.api.FeatureEnumRangeQuery(c.handle, name, nil, &n)); err != nil {
		return info, err
	}
	info.Options = make([]string, n)
	if err := check("FeatureEnumRangeQuery", name, c.api.FeatureEnumRangeQuery(c.handle, name, info.Options, &n)); err != nil {
		return info, err
	}
	info.Available = make([]string, 0, n)
	for _, opt := range info.Options {
		var ok bool
		if err := check("FeatureEnumIsAvailable", name, c.api.FeatureEnumIsAvailable(c.handle, name, opt, &ok)); err != nil {
			return info, err
		}
		if ok {
			info.Available = append(info.Available, opt)
		}
	}
	return info, nil
}

func (c *Camera) EnumAsInt(name, option string) (int64, error) {
	var v int64
	err := check("FeatureEnumAsInt", name, c.api.FeatureEnumAsInt(c.handle, name, option, &v))
	return v, err
}

func (c *Camera) EnumAsString(name string, v int64) (string, error) {
	var s string
	err := check("FeatureEnumAsString", name, c.api.FeatureEnumAsString(c.handle, name, v, &s))
	return s, err
}

func (c *Camera) StringGet(name string) (string, error) {
	var n uint32
	if err := check("FeatureStringGet", name, c.api.FeatureStringGet(c.handle, name, nil, &n)); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := check("FeatureStringGet", name, c.api.FeatureStringGet(c.handle, name, buf, &n)); err != nil {
		return "", err
	}
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

func (c *Camera) StringSet(name, v string) error {
	return check("FeatureStringSet", name, c.api.FeatureStringSet(c.handle, name, v))
}

func (c *Camera) StringMaxLength(name string) (uint32, error) {
	var n uint32
	err := check("FeatureStringMaxlengthQuery", name, c.api.FeatureStringMaxlengthQuery(c.handle, name, &n))
	return n, err
}

func (c *Camera) BoolGet(name string) (bool, error) {
	var v bool
	err := check("FeatureBoolGet", name, c.api.FeatureBoolGet(c.handle, name, &v))
	return v, err
}

func (c *Camera) BoolSet(name string, v bool) error {
	return check("FeatureBoolSet", name, c.api.FeatureBoolSet(c.handle, name, v))
}

// CommandRun executes a command feature and waits until the device reports
// it done or ctx ends.
func (c *Camera) CommandRun(ctx context.Context, name string) error {
	if err := check("FeatureCommandRun", name, c.api.FeatureCommandRun(c.handle, name)); err != nil {
		return err
	}
	ticker := time.NewTicker(commandPollInterval)
	defer ticker.Stop()
	for {
		done, err := c.CommandIsDone(name)
		if err != nil || done {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Camera) CommandIsDone(name string) (bool, error) {
	var done bool
	err := check("FeatureCommandIsDone", name, c.api.FeatureCommandIsDone(c.handle, name, &done))
	return done, err
}

func (c *Camera) RawGet(name string) ([]byte, error) {
	n, err := c.RawLength(name)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	var filled uint32
	if err := check("FeatureRawGet", name, c.api.FeatureRawGet(c.handle, name, buf, &filled)); err != nil {
		return nil, err
	}
	return buf[:filled], nil
}

func (c *Camera) RawSet(name string, data []byte) error {
	return check("FeatureRawSet", name, c.api.FeatureRawSet(c.handle, name, data))
}

func (c *Camera) RawLength(name string) (uint32, error) {
	var n uint32
	err := check("FeatureRawLengthQuery", name, c.api.FeatureRawLengthQuery(c.handle, name, &n))
	return n, err
}

// PixelFormat returns the current PFNC format.
func (c *Camera) PixelFormat() (vmb.PixelFormat, error) {
	name, err := c.EnumGet("PixelFormat")
	if err != nil {
		return 0, err
	}
	var code int64
	if err := check("FeatureEnumAsInt", "PixelFormat", c.api.FeatureEnumAsInt(c.handle, "PixelFormat", name, &code)); err != nil {
		return 0, err
	}
	return vmb.PixelFormat(code), nil
}

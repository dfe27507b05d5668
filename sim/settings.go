package sim

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/vmbx/vmbx/vmb"
)

const defaultMaxIterations = 5

// settingsFile is the persisted form of a camera's feature values.
type settingsFile struct {
	Camera   string         `json:"camera" yaml:"camera" toml:"camera"`
	Model    string         `json:"model" yaml:"model" toml:"model"`
	Features []settingEntry `json:"features" yaml:"features" toml:"features"`
}

type settingEntry struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Type  string `json:"type" yaml:"type" toml:"type"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

func marshalSettings(path string, f settingsFile) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(f)
	case ".toml":
		return toml.Marshal(f)
	default:
		return json.MarshalIndent(f, "", "  ")
	}
}

func unmarshalSettings(path string, data []byte) (settingsFile, error) {
	var f settingsFile
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		err = json.Unmarshal(data, &f)
	}
	return f, err
}

func persisted(f *feature, settings vmb.FeaturePersistSettings) bool {
	if !f.readable() || !f.writable() {
		return false
	}
	switch f.info.DataType {
	case vmb.FeatureDataCommand, vmb.FeatureDataUnknown, vmb.FeatureDataNone:
		return false
	case vmb.FeatureDataRaw:
		return settings.PersistType == vmb.PersistAll
	}
	if settings.PersistType == vmb.PersistStreamable && !f.info.IsStreamable {
		return false
	}
	return true
}

func encodeValue(c *camera, f *feature) string {
	switch f.info.DataType {
	case vmb.FeatureDataInt:
		return strconv.FormatInt(f.intValue(c), 10)
	case vmb.FeatureDataFloat:
		return strconv.FormatFloat(f.floatVal, 'g', -1, 64)
	case vmb.FeatureDataEnum:
		return f.enumVal
	case vmb.FeatureDataBool:
		return strconv.FormatBool(f.boolVal)
	case vmb.FeatureDataRaw:
		return hex.EncodeToString(f.rawVal)
	default:
		return f.strVal
	}
}

func settingsOrDefault(settings *vmb.FeaturePersistSettings) vmb.FeaturePersistSettings {
	if settings == nil {
		return vmb.FeaturePersistSettings{
			PersistType:        vmb.PersistStreamable,
			ModulePersistFlags: vmb.ModulePersistRemoteDevice,
			MaxIterations:      defaultMaxIterations,
		}
	}
	out := *settings
	if out.MaxIterations == 0 {
		out.MaxIterations = defaultMaxIterations
	}
	return out
}

// SettingsSave writes the persistable feature values of an open camera. The
// format follows the file extension: .yaml/.yml, .toml or JSON otherwise.
func (s *System) SettingsSave(handle vmb.Handle, filePath string, settings *vmb.FeaturePersistSettings) vmb.Error {
	if filePath == "" {
		return vmb.ErrorBadParameter
	}
	ps := settingsOrDefault(settings)
	c, err := s.device(handle)
	if err != vmb.ErrorSuccess {
		return err
	}

	c.mu.Lock()
	out := settingsFile{Camera: c.id, Model: c.model.ModelName}
	for _, f := range c.tree.order {
		if !persisted(f, ps) {
			continue
		}
		out.Features = append(out.Features, settingEntry{
			Name:  f.info.Name,
			Type:  strings.ToLower(f.info.DataType.String()),
			Value: encodeValue(c, f),
		})
	}
	c.mu.Unlock()

	data, merr := marshalSettings(filePath, out)
	if merr != nil {
		s.logger.Error("encode settings", "path", filePath, "error", merr)
		return vmb.ErrorInternalFault
	}
	if werr := os.WriteFile(filePath, data, 0o644); werr != nil {
		s.logger.Error("write settings", "path", filePath, "error", werr)
		return vmb.ErrorIO
	}
	return vmb.ErrorSuccess
}

// SettingsLoad applies a settings file. Entries that fail are retried in
// further passes, up to MaxIterations, so dependent features such as OffsetX
// after Width settle regardless of file order.
func (s *System) SettingsLoad(handle vmb.Handle, filePath string, settings *vmb.FeaturePersistSettings) vmb.Error {
	if filePath == "" {
		return vmb.ErrorBadParameter
	}
	ps := settingsOrDefault(settings)
	if _, err := s.device(handle); err != vmb.ErrorSuccess {
		return err
	}
	data, rerr := os.ReadFile(filePath)
	if rerr != nil {
		if os.IsNotExist(rerr) {
			return vmb.ErrorNotFound
		}
		return vmb.ErrorIO
	}
	file, perr := unmarshalSettings(filePath, data)
	if perr != nil {
		s.logger.Error("decode settings", "path", filePath, "error", perr)
		return vmb.ErrorInvalidValue
	}

	pending := file.Features
	lastErr := vmb.ErrorSuccess
	for iter := uint32(0); iter < ps.MaxIterations && len(pending) > 0; iter++ {
		var failed []settingEntry
		for _, e := range pending {
			if err := s.applySetting(handle, e); err != vmb.ErrorSuccess {
				lastErr = err
				failed = append(failed, e)
			}
		}
		if len(failed) == len(pending) {
			break
		}
		pending = failed
	}
	if len(pending) > 0 {
		for _, e := range pending {
			s.logger.Warn("setting not applied", "feature", e.Name, "value", e.Value)
		}
		return lastErr
	}
	return vmb.ErrorSuccess
}

func (s *System) applySetting(handle vmb.Handle, e settingEntry) vmb.Error {
	var info vmb.FeatureInfo
	if err := s.FeatureInfoQuery(handle, e.Name, &info); err != vmb.ErrorSuccess {
		return err
	}
	switch info.DataType {
	case vmb.FeatureDataInt:
		v, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			return vmb.ErrorInvalidValue
		}
		var cur int64
		if s.FeatureIntGet(handle, e.Name, &cur) == vmb.ErrorSuccess && cur == v {
			return vmb.ErrorSuccess
		}
		return s.FeatureIntSet(handle, e.Name, v)
	case vmb.FeatureDataFloat:
		v, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return vmb.ErrorInvalidValue
		}
		return s.FeatureFloatSet(handle, e.Name, v)
	case vmb.FeatureDataEnum:
		return s.FeatureEnumSet(handle, e.Name, e.Value)
	case vmb.FeatureDataBool:
		v, err := strconv.ParseBool(e.Value)
		if err != nil {
			return vmb.ErrorInvalidValue
		}
		return s.FeatureBoolSet(handle, e.Name, v)
	case vmb.FeatureDataRaw:
		v, err := hex.DecodeString(e.Value)
		if err != nil {
			return vmb.ErrorInvalidValue
		}
		return s.FeatureRawSet(handle, e.Name, v)
	case vmb.FeatureDataString:
		return s.FeatureStringSet(handle, e.Name, e.Value)
	default:
		return vmb.ErrorWrongType
	}
}

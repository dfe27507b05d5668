package apitypes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
	// Code is the VmbC error code behind the failure, if any
	Code int32 `json:"code,omitempty"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
	SDK     string `json:"sdk"`
}

type StatusResponse struct {
	Streaming   bool   `json:"streaming"`
	CameraID    string `json:"cameraId"`
	Subscribers int    `json:"subscribers"`
}

type StreamResponse struct {
	Streaming bool `json:"streaming"`
}

type CameraInfoResponse struct {
	ID          string `json:"id"`
	ExtendedID  string `json:"extendedId"`
	Name        string `json:"name"`
	Model       string `json:"model"`
	Serial      string `json:"serial"`
	AccessModes string `json:"accessModes"`
}

// FeatureRequest names the feature an operation applies to.
type FeatureRequest struct {
	Name string `json:"name"`
}

type FeatureInfo struct {
	Name                string `json:"name"`
	Category            string `json:"category"`
	DisplayName         string `json:"displayName"`
	Description         string `json:"description,omitempty"`
	SFNCNamespace       string `json:"sfncNamespace,omitempty"`
	Unit                string `json:"unit,omitempty"`
	Representation      string `json:"representation,omitempty"`
	Type                string `json:"type"`
	Readable            bool   `json:"readable"`
	Writable            bool   `json:"writable"`
	Volatile            bool   `json:"volatile"`
	Streamable          bool   `json:"streamable"`
	HasSelectedFeatures bool   `json:"hasSelectedFeatures"`
}

type FeaturesListResponse struct {
	Features []FeatureInfo `json:"features"`
}

type FeatureAccessResponse struct {
	Name     string `json:"name"`
	Readable bool   `json:"readable"`
	Writable bool   `json:"writable"`
}

type IntValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type IntInfoResponse struct {
	Name string `json:"name"`
	Min  int64  `json:"min"`
	Max  int64  `json:"max"`
	Inc  int64  `json:"inc"`
}

type IntValidValuesResponse struct {
	Name   string  `json:"name"`
	Values []int64 `json:"values"`
}

type FloatValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type FloatInfoResponse struct {
	Name         string  `json:"name"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Inc          float64 `json:"inc"`
	IncAvailable bool    `json:"incAvailable"`
}

type EnumValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type EnumInfoResponse struct {
	Name            string   `json:"name"`
	PossibleValues  []string `json:"possibleValues"`
	AvailableValues []string `json:"availableValues"`
}

// EnumConvertRequest carries either Option (as_int) or Value (as_string).
type EnumConvertRequest struct {
	Name   string `json:"name"`
	Option string `json:"option,omitempty"`
	Value  int64  `json:"value,omitempty"`
}

type EnumConvertResponse struct {
	Name   string `json:"name"`
	Option string `json:"option"`
	Value  int64  `json:"value"`
}

type StringValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type StringInfoResponse struct {
	Name      string `json:"name"`
	MaxLength uint32 `json:"maxLength"`
}

type BoolValue struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// CommandRequest runs a command feature. TimeoutMs bounds the wait for
// completion; zero uses the server default.
type CommandRequest struct {
	Name      string `json:"name"`
	TimeoutMs int64  `json:"timeoutMs,omitempty"`
}

type CommandResponse struct {
	Name string `json:"name"`
	Done bool   `json:"done"`
}

// RawValue carries raw feature bytes, base64 encoded on the wire.
type RawValue struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

type RawInfoResponse struct {
	Name   string `json:"name"`
	Length uint32 `json:"length"`
}

type SettingsRequest struct {
	FileName string `json:"fileName"`
}

type SettingsResponse struct {
	FileName string `json:"fileName"`
}

// MemoryRequest reads NBytes at Address or writes Data there. Address is
// accepted as a JSON number or a hex string like "0x48".
type MemoryRequest struct {
	Address uint64 `json:"address"`
	NBytes  uint32 `json:"nBytes,omitempty"`
	Data    []byte `json:"data,omitempty"`
}

// UnmarshalJSON implements custom unmarshaling to accept both numeric and hex
// string addresses.
func (m *MemoryRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Address any    `json:"address"`
		NBytes  uint32 `json:"nBytes"`
		Data    []byte `json:"data"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw.Address == nil {
		return fmt.Errorf("address: missing")
	}
	addr, err := parseUint64OrHex(raw.Address)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	m.Address = addr
	m.NBytes = raw.NBytes
	m.Data = raw.Data
	return nil
}

type MemoryResponse struct {
	Address uint64 `json:"address"`
	Data    []byte `json:"data,omitempty"`
	Written int    `json:"written,omitempty"`
}

// parseUint64OrHex accepts either a JSON number or a hex string like "0x48"
func parseUint64OrHex(v any) (uint64, error) {
	switch val := v.(type) {
	case json.Number:
		parsed, err := strconv.ParseUint(val.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value %v is not an unsigned integer", val)
		}
		return parsed, nil
	case string:
		s := strings.TrimSpace(val)
		base := 10
		if strings.HasPrefix(strings.ToLower(s), "0x") {
			s = s[2:]
			base = 16
		} else if strings.ContainsAny(s, "abcdefABCDEF") {
			base = 16
		}
		parsed, err := strconv.ParseUint(s, base, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hex/numeric string %q: %w", val, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("expected number or hex string, got %T", v)
	}
}

// SubscribeResponse is the first line written on the image_raw stream. Binary
// images follow it.
type SubscribeResponse struct {
	SubscriberID string `json:"subscriberId"`
}

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apitypes "github.com/vmbx/vmbx/apitypes"
)

// Client provides a high-level interface to the vmbx API, handling request
// formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the vmbx API server.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing or when advanced transport configuration is needed.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

func call[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	raw, err := c.transport.DoCtx(ctx, path, payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[T](raw)
}

// Ping returns the version and identity of the vmbx server.
func (c *Client) Ping() (*apitypes.PingResponse, error) {
	return c.PingCtx(context.Background())
}

// PingCtx is the context-aware version of Ping.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	return call[apitypes.PingResponse](ctx, c, "ping", nil)
}

// Status reports whether the camera streams and how many image subscribers
// are connected.
func (c *Client) Status() (*apitypes.StatusResponse, error) {
	return c.StatusCtx(context.Background())
}

func (c *Client) StatusCtx(ctx context.Context) (*apitypes.StatusResponse, error) {
	return call[apitypes.StatusResponse](ctx, c, "status", nil)
}

// StreamStart starts streaming regardless of subscribers.
func (c *Client) StreamStart() (*apitypes.StreamResponse, error) {
	return c.StreamStartCtx(context.Background())
}

func (c *Client) StreamStartCtx(ctx context.Context) (*apitypes.StreamResponse, error) {
	return call[apitypes.StreamResponse](ctx, c, "stream/start", nil)
}

// StreamStop stops streaming regardless of subscribers.
func (c *Client) StreamStop() (*apitypes.StreamResponse, error) {
	return c.StreamStopCtx(context.Background())
}

func (c *Client) StreamStopCtx(ctx context.Context) (*apitypes.StreamResponse, error) {
	return call[apitypes.StreamResponse](ctx, c, "stream/stop", nil)
}

// CameraInfo describes the camera behind the node.
func (c *Client) CameraInfo() (*apitypes.CameraInfoResponse, error) {
	return c.CameraInfoCtx(context.Background())
}

func (c *Client) CameraInfoCtx(ctx context.Context) (*apitypes.CameraInfoResponse, error) {
	return call[apitypes.CameraInfoResponse](ctx, c, "camera/info", nil)
}

// FeaturesList lists every camera feature.
func (c *Client) FeaturesList() (*apitypes.FeaturesListResponse, error) {
	return c.FeaturesListCtx(context.Background())
}

func (c *Client) FeaturesListCtx(ctx context.Context) (*apitypes.FeaturesListResponse, error) {
	return call[apitypes.FeaturesListResponse](ctx, c, "features/list", nil)
}

func (c *Client) FeatureInfo(name string) (*apitypes.FeatureInfo, error) {
	return c.FeatureInfoCtx(context.Background(), name)
}

func (c *Client) FeatureInfoCtx(ctx context.Context, name string) (*apitypes.FeatureInfo, error) {
	return call[apitypes.FeatureInfo](ctx, c, "features/info", apitypes.FeatureRequest{Name: name})
}

func (c *Client) FeatureAccess(name string) (*apitypes.FeatureAccessResponse, error) {
	return c.FeatureAccessCtx(context.Background(), name)
}

func (c *Client) FeatureAccessCtx(ctx context.Context, name string) (*apitypes.FeatureAccessResponse, error) {
	return call[apitypes.FeatureAccessResponse](ctx, c, "features/access", apitypes.FeatureRequest{Name: name})
}

// FeaturesSelected lists the features switched by a selector.
func (c *Client) FeaturesSelected(name string) (*apitypes.FeaturesListResponse, error) {
	return c.FeaturesSelectedCtx(context.Background(), name)
}

func (c *Client) FeaturesSelectedCtx(ctx context.Context, name string) (*apitypes.FeaturesListResponse, error) {
	return call[apitypes.FeaturesListResponse](ctx, c, "features/selected", apitypes.FeatureRequest{Name: name})
}

func (c *Client) IntGet(name string) (*apitypes.IntValue, error) {
	return c.IntGetCtx(context.Background(), name)
}

func (c *Client) IntGetCtx(ctx context.Context, name string) (*apitypes.IntValue, error) {
	return call[apitypes.IntValue](ctx, c, "features/int/get", apitypes.FeatureRequest{Name: name})
}

func (c *Client) IntSet(name string, v int64) (*apitypes.IntValue, error) {
	return c.IntSetCtx(context.Background(), name, v)
}

func (c *Client) IntSetCtx(ctx context.Context, name string, v int64) (*apitypes.IntValue, error) {
	return call[apitypes.IntValue](ctx, c, "features/int/set", apitypes.IntValue{Name: name, Value: v})
}

func (c *Client) IntInfo(name string) (*apitypes.IntInfoResponse, error) {
	return c.IntInfoCtx(context.Background(), name)
}

func (c *Client) IntInfoCtx(ctx context.Context, name string) (*apitypes.IntInfoResponse, error) {
	return call[apitypes.IntInfoResponse](ctx, c, "features/int/info", apitypes.FeatureRequest{Name: name})
}

func (c *Client) IntValidValues(name string) (*apitypes.IntValidValuesResponse, error) {
	return c.IntValidValuesCtx(context.Background(), name)
}

func (c *Client) IntValidValuesCtx(ctx context.Context, name string) (*apitypes.IntValidValuesResponse, error) {
	return call[apitypes.IntValidValuesResponse](ctx, c, "features/int/valid_values", apitypes.FeatureRequest{Name: name})
}

func (c *Client) FloatGet(name string) (*apitypes.FloatValue, error) {
	return c.FloatGetCtx(context.Background(), name)
}

func (c *Client) FloatGetCtx(ctx context.Context, name string) (*apitypes.FloatValue, error) {
	return call[apitypes.FloatValue](ctx, c, "features/float/get", apitypes.FeatureRequest{Name: name})
}

func (c *Client) FloatSet(name string, v float64) (*apitypes.FloatValue, error) {
	return c.FloatSetCtx(context.Background(), name, v)
}

func (c *Client) FloatSetCtx(ctx context.Context, name string, v float64) (*apitypes.FloatValue, error) {
	return call[apitypes.FloatValue](ctx, c, "features/float/set", apitypes.FloatValue{Name: name, Value: v})
}

func (c *Client) FloatInfo(name string) (*apitypes.FloatInfoResponse, error) {
	return c.FloatInfoCtx(context.Background(), name)
}

func (c *Client) FloatInfoCtx(ctx context.Context, name string) (*apitypes.FloatInfoResponse, error) {
	return call[apitypes.FloatInfoResponse](ctx, c, "features/float/info", apitypes.FeatureRequest{Name: name})
}

func (c *Client) EnumGet(name string) (*apitypes.EnumValue, error) {
	return c.EnumGetCtx(context.Background(), name)
}

func (c *Client) EnumGetCtx(ctx context.Context, name string) (*apitypes.EnumValue, error) {
	return call[apitypes.EnumValue](ctx, c, "features/enum/get", apitypes.FeatureRequest{Name: name})
}

func (c *Client) EnumSet(name, v string) (*apitypes.EnumValue, error) {
	return c.EnumSetCtx(context.Background(), name, v)
}

func (c *Client) EnumSetCtx(ctx context.Context, name, v string) (*apitypes.EnumValue, error) {
	return call[apitypes.EnumValue](ctx, c, "features/enum/set", apitypes.EnumValue{Name: name, Value: v})
}

// EnumInfo returns all entries of an enum and those currently available.
func (c *Client) EnumInfo(name string) (*apitypes.EnumInfoResponse, error) {
	return c.EnumInfoCtx(context.Background(), name)
}

func (c *Client) EnumInfoCtx(ctx context.Context, name string) (*apitypes.EnumInfoResponse, error) {
	return call[apitypes.EnumInfoResponse](ctx, c, "features/enum/info", apitypes.FeatureRequest{Name: name})
}

// EnumAsInt converts an entry name to its integer value.
func (c *Client) EnumAsInt(name, option string) (*apitypes.EnumConvertResponse, error) {
	return c.EnumAsIntCtx(context.Background(), name, option)
}

func (c *Client) EnumAsIntCtx(ctx context.Context, name, option string) (*apitypes.EnumConvertResponse, error) {
	return call[apitypes.EnumConvertResponse](ctx, c, "features/enum/as_int", apitypes.EnumConvertRequest{Name: name, Option: option})
}

// EnumAsString converts an integer value to its entry name.
func (c *Client) EnumAsString(name string, v int64) (*apitypes.EnumConvertResponse, error) {
	return c.EnumAsStringCtx(context.Background(), name, v)
}

func (c *Client) EnumAsStringCtx(ctx context.Context, name string, v int64) (*apitypes.EnumConvertResponse, error) {
	return call[apitypes.EnumConvertResponse](ctx, c, "features/enum/as_string", apitypes.EnumConvertRequest{Name: name, Value: v})
}

func (c *Client) StringGet(name string) (*apitypes.StringValue, error) {
	return c.StringGetCtx(context.Background(), name)
}

func (c *Client) StringGetCtx(ctx context.Context, name string) (*apitypes.StringValue, error) {
	return call[apitypes.StringValue](ctx, c, "features/string/get", apitypes.FeatureRequest{Name: name})
}

func (c *Client) StringSet(name, v string) (*apitypes.StringValue, error) {
	return c.StringSetCtx(context.Background(), name, v)
}

func (c *Client) StringSetCtx(ctx context.Context, name, v string) (*apitypes.StringValue, error) {
	return call[apitypes.StringValue](ctx, c, "features/string/set", apitypes.StringValue{Name: name, Value: v})
}

func (c *Client) StringInfo(name string) (*apitypes.StringInfoResponse, error) {
	return c.StringInfoCtx(context.Background(), name)
}

func (c *Client) StringInfoCtx(ctx context.Context, name string) (*apitypes.StringInfoResponse, error) {
	return call[apitypes.StringInfoResponse](ctx, c, "features/string/info", apitypes.FeatureRequest{Name: name})
}

func (c *Client) BoolGet(name string) (*apitypes.BoolValue, error) {
	return c.BoolGetCtx(context.Background(), name)
}

func (c *Client) BoolGetCtx(ctx context.Context, name string) (*apitypes.BoolValue, error) {
	return call[apitypes.BoolValue](ctx, c, "features/bool/get", apitypes.FeatureRequest{Name: name})
}

func (c *Client) BoolSet(name string, v bool) (*apitypes.BoolValue, error) {
	return c.BoolSetCtx(context.Background(), name, v)
}

func (c *Client) BoolSetCtx(ctx context.Context, name string, v bool) (*apitypes.BoolValue, error) {
	return call[apitypes.BoolValue](ctx, c, "features/bool/set", apitypes.BoolValue{Name: name, Value: v})
}

// CommandRun executes a command feature and waits until it is done. A zero
// timeout uses the server default.
func (c *Client) CommandRun(name string, timeout time.Duration) (*apitypes.CommandResponse, error) {
	return c.CommandRunCtx(context.Background(), name, timeout)
}

func (c *Client) CommandRunCtx(ctx context.Context, name string, timeout time.Duration) (*apitypes.CommandResponse, error) {
	req := apitypes.CommandRequest{Name: name, TimeoutMs: timeout.Milliseconds()}
	return call[apitypes.CommandResponse](ctx, c, "features/command/run", req)
}

func (c *Client) CommandIsDone(name string) (*apitypes.CommandResponse, error) {
	return c.CommandIsDoneCtx(context.Background(), name)
}

func (c *Client) CommandIsDoneCtx(ctx context.Context, name string) (*apitypes.CommandResponse, error) {
	return call[apitypes.CommandResponse](ctx, c, "features/command/is_done", apitypes.FeatureRequest{Name: name})
}

func (c *Client) RawGet(name string) (*apitypes.RawValue, error) {
	return c.RawGetCtx(context.Background(), name)
}

func (c *Client) RawGetCtx(ctx context.Context, name string) (*apitypes.RawValue, error) {
	return call[apitypes.RawValue](ctx, c, "features/raw/get", apitypes.FeatureRequest{Name: name})
}

func (c *Client) RawSet(name string, data []byte) (*apitypes.RawInfoResponse, error) {
	return c.RawSetCtx(context.Background(), name, data)
}

func (c *Client) RawSetCtx(ctx context.Context, name string, data []byte) (*apitypes.RawInfoResponse, error) {
	return call[apitypes.RawInfoResponse](ctx, c, "features/raw/set", apitypes.RawValue{Name: name, Data: data})
}

func (c *Client) RawInfo(name string) (*apitypes.RawInfoResponse, error) {
	return c.RawInfoCtx(context.Background(), name)
}

func (c *Client) RawInfoCtx(ctx context.Context, name string) (*apitypes.RawInfoResponse, error) {
	return call[apitypes.RawInfoResponse](ctx, c, "features/raw/info", apitypes.FeatureRequest{Name: name})
}

// SettingsSave stores the camera settings in a file on the server host.
func (c *Client) SettingsSave(fileName string) (*apitypes.SettingsResponse, error) {
	return c.SettingsSaveCtx(context.Background(), fileName)
}

func (c *Client) SettingsSaveCtx(ctx context.Context, fileName string) (*apitypes.SettingsResponse, error) {
	return call[apitypes.SettingsResponse](ctx, c, "settings/save", apitypes.SettingsRequest{FileName: fileName})
}

// SettingsLoad applies a settings file from the server host.
func (c *Client) SettingsLoad(fileName string) (*apitypes.SettingsResponse, error) {
	return c.SettingsLoadCtx(context.Background(), fileName)
}

func (c *Client) SettingsLoadCtx(ctx context.Context, fileName string) (*apitypes.SettingsResponse, error) {
	return call[apitypes.SettingsResponse](ctx, c, "settings/load", apitypes.SettingsRequest{FileName: fileName})
}

// MemoryRead reads n bytes of device memory at address.
func (c *Client) MemoryRead(address uint64, n uint32) (*apitypes.MemoryResponse, error) {
	return c.MemoryReadCtx(context.Background(), address, n)
}

func (c *Client) MemoryReadCtx(ctx context.Context, address uint64, n uint32) (*apitypes.MemoryResponse, error) {
	return call[apitypes.MemoryResponse](ctx, c, "memory/read", apitypes.MemoryRequest{Address: address, NBytes: n})
}

// MemoryWrite writes data to device memory at address.
func (c *Client) MemoryWrite(address uint64, data []byte) (*apitypes.MemoryResponse, error) {
	return c.MemoryWriteCtx(context.Background(), address, data)
}

func (c *Client) MemoryWriteCtx(ctx context.Context, address uint64, data []byte) (*apitypes.MemoryResponse, error) {
	return call[apitypes.MemoryResponse](ctx, c, "memory/write", apitypes.MemoryRequest{Address: address, Data: data})
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	if problem, ok := parseProblem([]byte(data)); ok {
		return nil, problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}

// parseProblem reports whether data is a problem+json error. Success bodies
// never carry both status and title.
func parseProblem(data []byte) (*apitypes.ApiError, bool) {
	var problem apitypes.ApiError
	if err := json.Unmarshal(data, &problem); err != nil || problem.Status == 0 || problem.Title == "" {
		return nil, false
	}
	return &problem, true
}

package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/apiclient"
	"github.com/vmbx/vmbx/internal/node"
	th "github.com/vmbx/vmbx/internal/testing"
)

type routeCase struct {
	name             string
	setup            func(t *testing.T, c *apiclient.Transport)
	path             string
	payload          any
	expectedResponse string
}

func runRouteCases(t *testing.T, tests []routeCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			env := th.StartAPIServer(t, node.Config{BufferCount: 2, QueueDepth: 2})
			c := apiclient.NewTransport(env.Addr)
			if tt.setup != nil {
				tt.setup(t, c)
			}
			line, err := c.Do(tt.path, tt.payload, nil)
			require.NoError(t, err)
			if tt.expectedResponse != "" && tt.expectedResponse[0] == '{' {
				assert.JSONEq(t, tt.expectedResponse, line)
			} else {
				assert.Equal(t, tt.expectedResponse, line)
			}
		})
	}
}

func do(t *testing.T, c *apiclient.Transport, path string, payload any) {
	t.Helper()
	_, err := c.Do(path, payload, nil)
	require.NoError(t, err)
}

func TestIntFeatures(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name:             "get by bare name",
			path:             "features/int/get",
			payload:          "Width",
			expectedResponse: `{"name":"Width","value":32}`,
		},
		{
			name:             "get by json",
			path:             "features/int/get",
			payload:          `{"name":"Height"}`,
			expectedResponse: `{"name":"Height","value":16}`,
		},
		{
			name:             "unknown feature",
			path:             "features/int/get",
			payload:          "Nope",
			expectedResponse: `{"status":404,"title":"Not Found","detail":"FeatureIntGet Nope: VmbErrorNotFound (-3)","code":-3}`,
		},
		{
			name:             "wrong type",
			path:             "features/int/get",
			payload:          "Gain",
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"FeatureIntGet Gain: VmbErrorWrongType (-10)","code":-10}`,
		},
		{
			name:             "missing payload",
			path:             "features/int/get",
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"missing payload"}`,
		},
		{
			name:             "missing name",
			path:             "features/int/set",
			payload:          `{"value":3}`,
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"missing feature name"}`,
		},
		{
			name:             "set",
			path:             "features/int/set",
			payload:          `{"name":"Width","value":64}`,
			expectedResponse: `{"name":"Width","value":64}`,
		},
		{
			name:             "set off increment",
			path:             "features/int/set",
			payload:          `{"name":"Width","value":33}`,
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"FeatureIntSet Width: VmbErrorInvalidValue (-11)","code":-11}`,
		},
		{
			name:             "set read-only",
			path:             "features/int/set",
			payload:          `{"name":"PayloadSize","value":1}`,
			expectedResponse: `{"status":409,"title":"Conflict","detail":"FeatureIntSet PayloadSize: VmbErrorInvalidAccess (-6)","code":-6}`,
		},
		{
			name:             "info",
			path:             "features/int/info",
			payload:          "Width",
			expectedResponse: `{"name":"Width","min":8,"max":1936,"inc":8}`,
		},
		{
			name:             "valid values",
			path:             "features/int/valid_values",
			payload:          "BinningHorizontal",
			expectedResponse: `{"name":"BinningHorizontal","values":[1,2,4]}`,
		},
		{
			name:             "no valid value set",
			path:             "features/int/valid_values",
			payload:          "Width",
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"FeatureIntValidValueSetQuery Width: VmbErrorValidValueSetNotPresent (-21)","code":-21}`,
		},
		{
			name: "geometry locked while streaming",
			setup: func(t *testing.T, c *apiclient.Transport) {
				do(t, c, "stream/start", nil)
			},
			path:             "features/int/set",
			payload:          `{"name":"Width","value":64}`,
			expectedResponse: `{"status":409,"title":"Conflict","detail":"FeatureIntSet Width: VmbErrorInvalidAccess (-6)","code":-6}`,
		},
	})
}

func TestFloatFeatures(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name:             "get",
			path:             "features/float/get",
			payload:          "ExposureTime",
			expectedResponse: `{"name":"ExposureTime","value":5000}`,
		},
		{
			name:             "set then get",
			setup:            func(t *testing.T, c *apiclient.Transport) { do(t, c, "features/float/set", `{"name":"Gain","value":2.5}`) },
			path:             "features/float/get",
			payload:          "Gain",
			expectedResponse: `{"name":"Gain","value":2.5}`,
		},
		{
			name:             "out of range",
			path:             "features/float/set",
			payload:          `{"name":"Gain","value":99}`,
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"FeatureFloatSet Gain: VmbErrorInvalidValue (-11)","code":-11}`,
		},
		{
			name:             "info",
			path:             "features/float/info",
			payload:          "Gain",
			expectedResponse: `{"name":"Gain","min":0,"max":24,"inc":0.1,"incAvailable":true}`,
		},
	})
}

func TestEnumFeatures(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name:             "get",
			path:             "features/enum/get",
			payload:          "PixelFormat",
			expectedResponse: `{"name":"PixelFormat","value":"Mono8"}`,
		},
		{
			name:             "set",
			path:             "features/enum/set",
			payload:          `{"name":"PixelFormat","value":"Mono12"}`,
			expectedResponse: `{"name":"PixelFormat","value":"Mono12"}`,
		},
		{
			name:             "set unknown entry",
			path:             "features/enum/set",
			payload:          `{"name":"PixelFormat","value":"RGB8"}`,
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"FeatureEnumSet PixelFormat: VmbErrorInvalidValue (-11)","code":-11}`,
		},
		{
			name:             "info hides unavailable entries",
			path:             "features/enum/info",
			payload:          "ExposureAuto",
			expectedResponse: `{"name":"ExposureAuto","possibleValues":["Off","Continuous"],"availableValues":["Off","Continuous"]}`,
		},
		{
			name:             "as int",
			path:             "features/enum/as_int",
			payload:          `{"name":"PixelFormat","option":"Mono8"}`,
			expectedResponse: `{"name":"PixelFormat","option":"Mono8","value":17301505}`,
		},
		{
			name:             "as string",
			path:             "features/enum/as_string",
			payload:          `{"name":"PixelFormat","value":17825797}`,
			expectedResponse: `{"name":"PixelFormat","option":"Mono12","value":17825797}`,
		},
	})
}

func TestStringBoolRawFeatures(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name:             "string get",
			path:             "features/string/get",
			payload:          "DeviceSerialNumber",
			expectedResponse: `{"name":"DeviceSerialNumber","value":"API"}`,
		},
		{
			name:             "string set then get",
			setup:            func(t *testing.T, c *apiclient.Transport) { do(t, c, "features/string/set", `{"name":"DeviceUserID","value":"left"}`) },
			path:             "features/string/get",
			payload:          "DeviceUserID",
			expectedResponse: `{"name":"DeviceUserID","value":"left"}`,
		},
		{
			name:             "string info",
			path:             "features/string/info",
			payload:          "DeviceUserID",
			expectedResponse: `{"name":"DeviceUserID","maxLength":16}`,
		},
		{
			name:             "bool set then get",
			setup:            func(t *testing.T, c *apiclient.Transport) { do(t, c, "features/bool/set", `{"name":"LUTEnable","value":true}`) },
			path:             "features/bool/get",
			payload:          "LUTEnable",
			expectedResponse: `{"name":"LUTEnable","value":true}`,
		},
		{
			name:             "raw info",
			path:             "features/raw/info",
			payload:          "LUTValueAll",
			expectedResponse: `{"name":"LUTValueAll","length":256}`,
		},
		{
			name:             "raw set wrong length",
			path:             "features/raw/set",
			payload:          `{"name":"LUTValueAll","data":"AAEC"}`,
			expectedResponse: `{"status":400,"title":"Bad Request","detail":"FeatureRawSet LUTValueAll: VmbErrorInvalidValue (-11)","code":-11}`,
		},
		{
			name:             "command run",
			path:             "features/command/run",
			payload:          "TriggerSoftware",
			expectedResponse: `{"name":"TriggerSoftware","done":true}`,
		},
		{
			name:             "command run with timeout",
			path:             "features/command/run",
			payload:          `{"name":"TriggerSoftware","timeoutMs":50}`,
			expectedResponse: `{"name":"TriggerSoftware","done":true}`,
		},
		{
			name:             "command is done",
			path:             "features/command/is_done",
			payload:          "TriggerSoftware",
			expectedResponse: `{"name":"TriggerSoftware","done":true}`,
		},
	})
}

func TestFeatureDiscovery(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name:             "info",
			path:             "features/info",
			payload:          "Gain",
			expectedResponse: `{"name":"Gain","category":"/AnalogControl","displayName":"Gain","sfncNamespace":"SFNC","unit":"dB","type":"Float","readable":true,"writable":true,"volatile":false,"streamable":true,"hasSelectedFeatures":false}`,
		},
		{
			name:             "access",
			path:             "features/access",
			payload:          "PayloadSize",
			expectedResponse: `{"name":"PayloadSize","readable":true,"writable":false}`,
		},
		{
			name:             "unknown path",
			path:             "features/nope",
			expectedResponse: `{"status":404,"title":"Not Found","detail":"unknown path: features/nope"}`,
		},
	})

	env := th.StartAPIServer(t, node.Config{})
	c := apiclient.New(env.Addr)
	list, err := c.FeaturesList()
	require.NoError(t, err)
	names := make([]string, 0, len(list.Features))
	for _, f := range list.Features {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "Width")
	assert.Contains(t, names, "LUTSelector")

	sel, err := c.FeaturesSelected("LUTSelector")
	require.NoError(t, err)
	require.Len(t, sel.Features, 2)
	assert.Equal(t, "LUTEnable", sel.Features[0].Name)
}

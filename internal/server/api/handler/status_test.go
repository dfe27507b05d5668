package handler_test

import (
	"testing"

	"github.com/vmbx/vmbx/apiclient"
)

func TestStatusAndStreamControl(t *testing.T) {
	runRouteCases(t, []routeCase{
		{
			name:             "ping",
			path:             "ping",
			expectedResponse: `{"server":"vmbx","version":"test","sdk":"1.1.0"}`,
		},
		{
			name:             "idle status",
			path:             "status",
			expectedResponse: `{"streaming":false,"cameraId":"DEV_API","subscribers":0}`,
		},
		{
			name:             "stream start",
			path:             "stream/start",
			expectedResponse: `{"streaming":true}`,
		},
		{
			name:             "status after start",
			setup:            func(t *testing.T, c *apiclient.Transport) { do(t, c, "stream/start", nil) },
			path:             "status",
			expectedResponse: `{"streaming":true,"cameraId":"DEV_API","subscribers":0}`,
		},
		{
			name:             "start twice",
			setup:            func(t *testing.T, c *apiclient.Transport) { do(t, c, "stream/start", nil) },
			path:             "stream/start",
			expectedResponse: `{"status":409,"title":"Conflict","detail":"camera is already streaming"}`,
		},
		{
			name:             "stop after start",
			setup:            func(t *testing.T, c *apiclient.Transport) { do(t, c, "stream/start", nil) },
			path:             "stream/stop",
			expectedResponse: `{"streaming":false}`,
		},
		{
			name:             "stop while idle",
			path:             "stream/stop",
			expectedResponse: `{"status":409,"title":"Conflict","detail":"camera is not streaming"}`,
		},
		{
			name:             "camera info",
			path:             "camera/info",
			expectedResponse: `{"id":"DEV_API","extendedId":"VmbxSimTL/VmbxSimIF/DEV_API","name":"1800 U-240m","model":"1800 U-240m","serial":"API","accessModes":"Read"}`,
		},
	})
}

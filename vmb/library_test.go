package vmb_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmbx/vmbx/vmb"
)

// stubAPI implements vmb.API by embedding a nil interface; only the methods
// a test overrides may be called.
type stubAPI struct {
	vmb.API
	intGet func(h vmb.Handle, name string, v *int64) vmb.Error
}

func (s *stubAPI) FeatureIntGet(h vmb.Handle, name string, v *int64) vmb.Error {
	return s.intGet(h, name, v)
}

func TestSymbolsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range vmb.Symbols {
		assert.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true
	}
	assert.Equal(t, "VmbVersionQuery", vmb.Symbols[0])
	assert.Equal(t, "VmbChunkDataAccess", vmb.Symbols[len(vmb.Symbols)-1])
}

func TestExportsCoversSymbols(t *testing.T) {
	exports := vmb.Exports(&stubAPI{})
	assert.Len(t, exports, len(vmb.Symbols))
	for _, s := range vmb.Symbols {
		assert.Contains(t, exports, s)
	}
}

func TestLoadForwardsCalls(t *testing.T) {
	api := &stubAPI{intGet: func(h vmb.Handle, name string, v *int64) vmb.Error {
		if h != 42 || name != "Height" {
			return vmb.ErrorNotFound
		}
		*v = 1216
		return vmb.ErrorSuccess
	}}
	exports := vmb.Exports(api)

	lib, err := vmb.Load(vmb.ResolverFunc(func(name string) any { return exports[name] }))
	require.NoError(t, err)

	var v int64
	assert.Equal(t, vmb.ErrorSuccess, lib.FeatureIntGet(42, "Height", &v))
	assert.EqualValues(t, 1216, v)
	assert.Equal(t, vmb.ErrorNotFound, lib.FeatureIntGet(1, "Height", &v))
}

func TestLoadErrors(t *testing.T) {
	exports := vmb.Exports(&stubAPI{})

	tests := []struct {
		name    string
		resolve func(name string) any
		wantErr error
		wantMsg string
	}{
		{
			name: "missing symbol",
			resolve: func(name string) any {
				if name == "VmbCaptureFrameWait" {
					return nil
				}
				return exports[name]
			},
			wantErr: vmb.ErrSymbolNotFound,
			wantMsg: "VmbCaptureFrameWait: symbol not found",
		},
		{
			name: "typed nil function",
			resolve: func(name string) any {
				if name == "VmbShutdown" {
					return (func())(nil)
				}
				return exports[name]
			},
			wantErr: vmb.ErrSymbolNotFound,
		},
		{
			name: "wrong signature",
			resolve: func(name string) any {
				if name == "VmbFeatureIntSet" {
					return func(vmb.Handle, string, int32) vmb.Error { return vmb.ErrorSuccess }
				}
				return exports[name]
			},
			wantErr: vmb.ErrSymbolType,
		},
		{
			name:    "not a function",
			resolve: func(name string) any { return 1 },
			wantErr: vmb.ErrSymbolType,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			lib, err := vmb.Load(vmb.ResolverFunc(tt.resolve))
			assert.Nil(t, lib)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}
}

func TestLoadAcceptsNamedCallbackTypes(t *testing.T) {
	exports := vmb.Exports(&stubAPI{})
	type shutdownFunc func()
	called := false
	lib, err := vmb.Load(vmb.ResolverFunc(func(name string) any {
		if name == "VmbShutdown" {
			return shutdownFunc(func() { called = true })
		}
		return exports[name]
	}))
	require.NoError(t, err)
	lib.Shutdown()
	assert.True(t, called)
}

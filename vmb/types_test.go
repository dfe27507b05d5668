package vmb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmbx/vmbx/vmb"
)

func TestAccessModeString(t *testing.T) {
	tests := []struct {
		mode vmb.AccessMode
		want string
	}{
		{vmb.AccessModeNone, "None"},
		{vmb.AccessModeFull, "Full"},
		{vmb.AccessModeFull | vmb.AccessModeRead, "Full|Read"},
		{vmb.AccessModeExclusive | vmb.AccessModeRead, "Read|Exclusive"},
		{vmb.AccessModeRead | 0x40, "Read|0x40"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.mode.String())
	}
}

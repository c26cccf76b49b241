package xdg

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint32s(t *testing.T) {
	data := binary.NativeEndian.AppendUint32(nil, uint32(ToplevelStateActivated))
	data = binary.NativeEndian.AppendUint32(data, uint32(ToplevelStateMaximized))

	assert.Equal(t, []ToplevelState{ToplevelStateActivated, ToplevelStateMaximized}, uint32s[ToplevelState](data))
	assert.Empty(t, uint32s[ToplevelState](nil))
	assert.Equal(t, "activated", ToplevelStateActivated.String())
	assert.Equal(t, "server_side", DecorationModeServerSide.String())
}

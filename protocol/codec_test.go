package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRejectsWrongSizes(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "empty", buf: []byte{}},
		{name: "single byte", buf: []byte{byte(CCSync)}},
		{name: "eight bytes", buf: bytes.Repeat([]byte{0x01}, 8)},
		{name: "one short", buf: make([]byte, FrameSize-1)},
		{name: "one long", buf: make([]byte, FrameSize+1)},
		{name: "double", buf: make([]byte, FrameSize*2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Decode(tt.buf)
			require.ErrorIs(t, err, ErrMalformedFrame)
			assert.Nil(t, cmd)
		})
	}
}

func TestDecodeRejectsUnknownControlCode(t *testing.T) {
	buf := make([]byte, FrameSize)
	buf[0] = 0x7f

	cmd, err := Decode(buf)
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Nil(t, cmd)
}

func TestStatusRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		status Status
	}{
		{name: "success", status: StatusSuccess},
		{name: "generic error", status: StatusErrGeneric},
		{name: "not found", status: StatusErrNotFound},
		{name: "busy", status: StatusErrBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := EncodeStatus(tt.status)
			require.Len(t, buf, FrameSize)

			cmd, err := Decode(buf)
			require.NoError(t, err)
			assert.Equal(t, CCStatus, cmd.Code)
			require.NotNil(t, cmd.Status)
			assert.Equal(t, tt.status, cmd.Status.Status)
		})
	}
}

func TestSyncRoundTrip(t *testing.T) {
	buf := EncodeSync(1234)
	require.Len(t, buf, FrameSize)

	cmd, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, CCSync, cmd.Code)
	require.NotNil(t, cmd.Sync)
	assert.Equal(t, uint16(1234), cmd.Sync.Code)
}

func TestConnectRoundTrip(t *testing.T) {
	bssid := []byte{0x00, 0x1f, 0x32, 0xab, 0xcd, 0xef}

	buf, err := EncodeConnect("WiiU1234567890abcdef", bssid, []byte("secretsecret"))
	require.NoError(t, err)
	require.Len(t, buf, FrameSize)

	cmd, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, CCConnect, cmd.Code)
	require.NotNil(t, cmd.Connect)
	assert.Equal(t, "WiiU1234567890abcdef", cmd.Connect.Ssid)
	assert.Equal(t, bssid, cmd.Connect.Bssid)
	assert.Equal(t, []byte("secretsecret"), cmd.Connect.Psk)
}

func TestConnectWithoutBssidOrPsk(t *testing.T) {
	buf, err := EncodeConnect("WiiU", nil, nil)
	require.NoError(t, err)

	cmd, err := Decode(buf)
	require.NoError(t, err)
	assert.Nil(t, cmd.Connect.Bssid)
	assert.Nil(t, cmd.Connect.Psk)
}

func TestEncodeConnectRejectsOversizedFields(t *testing.T) {
	_, err := EncodeConnect(string(bytes.Repeat([]byte("a"), SsidSize+1)), nil, nil)
	assert.Error(t, err)

	_, err = EncodeConnect("WiiU", []byte{0x00}, nil)
	assert.Error(t, err)

	_, err = EncodeConnect("WiiU", nil, bytes.Repeat([]byte("k"), PskSize+1))
	assert.Error(t, err)
}

func TestPayloadFreeFrames(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		code ControlCode
	}{
		{name: "unbind", buf: EncodeUnbind(), code: CCUnbind},
		{name: "quit", buf: EncodeQuit(), code: CCQuit},
		{name: "bind ack", buf: EncodeBindAck(), code: CCBindAck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.buf, FrameSize)

			cmd, err := Decode(tt.buf)
			require.NoError(t, err)
			assert.Equal(t, tt.code, cmd.Code)
			assert.Nil(t, cmd.Sync)
			assert.Nil(t, cmd.Connect)
			assert.Nil(t, cmd.Status)
		})
	}
}

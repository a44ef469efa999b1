package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"

	goerrors "github.com/go-errors/errors"
)

// ErrMalformedFrame is returned when a buffer does not have the fixed frame
// size. ErrUnknownCommand is returned when the size matches but the control
// code is not part of the vocabulary. The broker drops both silently.
var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrUnknownCommand = errors.New("unknown command")
)

// Decode parses a received buffer into a Command. The buffer must be exactly
// FrameSize bytes long.
func Decode(buf []byte) (*Command, error) {
	if len(buf) != FrameSize {
		return nil, ErrMalformedFrame
	}

	code := ControlCode(buf[0])
	payload := buf[1:]

	switch code {
	case CCSync:
		return &Command{
			Code: code,
			Sync: &SyncPayload{
				Code: binary.BigEndian.Uint16(payload[:SyncPayloadSize]),
			},
		}, nil
	case CCConnect:
		connect := &ConnectPayload{
			Ssid: trimField(payload[:SsidSize]),
		}

		bssid := payload[SsidSize : SsidSize+BssidSize]
		if !bytes.Equal(bssid, make([]byte, BssidSize)) {
			connect.Bssid = append([]byte(nil), bssid...)
		}

		psk := trimField(payload[SsidSize+BssidSize : ConnectPayloadSize])
		if psk != "" {
			connect.Psk = []byte(psk)
		}

		return &Command{Code: code, Connect: connect}, nil
	case CCStatus:
		return &Command{
			Code: code,
			Status: &StatusPayload{
				Status: Status(binary.BigEndian.Uint32(payload[:StatusPayloadSize])),
			},
		}, nil
	case CCUnbind, CCQuit, CCBindAck:
		return &Command{Code: code}, nil
	default:
		return nil, ErrUnknownCommand
	}
}

// EncodeStatus builds a STATUS frame carrying the given result.
func EncodeStatus(status Status) []byte {
	buf := make([]byte, FrameSize)
	buf[0] = byte(CCStatus)
	binary.BigEndian.PutUint32(buf[1:], uint32(status))
	return buf
}

// EncodeBindAck builds a BIND_ACK frame. It is a full-size frame like every
// other, with an all-zero payload area.
func EncodeBindAck() []byte {
	buf := make([]byte, FrameSize)
	buf[0] = byte(CCBindAck)
	return buf
}

// EncodeSync builds a SYNC frame carrying the pairing code.
func EncodeSync(code uint16) []byte {
	buf := make([]byte, FrameSize)
	buf[0] = byte(CCSync)
	binary.BigEndian.PutUint16(buf[1:], code)
	return buf
}

// EncodeConnect builds a CONNECT frame. Bssid may be nil; when given it must
// be exactly BssidSize bytes. Ssid and psk must fit their fixed fields.
func EncodeConnect(ssid string, bssid []byte, psk []byte) ([]byte, error) {
	if len(ssid) > SsidSize {
		return nil, goerrors.Errorf("ssid %q exceeds %d bytes", ssid, SsidSize)
	}

	if bssid != nil && len(bssid) != BssidSize {
		return nil, goerrors.Errorf("bssid must be %d bytes, got %d", BssidSize, len(bssid))
	}

	if len(psk) > PskSize {
		return nil, goerrors.Errorf("psk exceeds %d bytes", PskSize)
	}

	buf := make([]byte, FrameSize)
	buf[0] = byte(CCConnect)
	copy(buf[1:1+SsidSize], ssid)
	copy(buf[1+SsidSize:1+SsidSize+BssidSize], bssid)
	copy(buf[1+SsidSize+BssidSize:], psk)

	return buf, nil
}

// EncodeUnbind builds an UNBIND frame.
func EncodeUnbind() []byte {
	buf := make([]byte, FrameSize)
	buf[0] = byte(CCUnbind)
	return buf
}

// EncodeQuit builds a QUIT frame.
func EncodeQuit() []byte {
	buf := make([]byte, FrameSize)
	buf[0] = byte(CCQuit)
	return buf
}

// trimField interprets a fixed-size NUL-padded field as a string.
func trimField(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}

	return string(field)
}

package protocol

// ControlCode identifies the kind of frame travelling over the command
// socket. Sync, Connect, Unbind and Quit are sent by the frontend; Status
// and BindAck only travel from the broker back to the frontend.
type ControlCode uint8

const (
	CCSync    ControlCode = 0x01
	CCConnect ControlCode = 0x02
	CCUnbind  ControlCode = 0x03
	CCQuit    ControlCode = 0x04
	CCStatus  ControlCode = 0x05
	CCBindAck ControlCode = 0x06
)

func (c ControlCode) String() string {
	switch c {
	case CCSync:
		return "SYNC"
	case CCConnect:
		return "CONNECT"
	case CCUnbind:
		return "UNBIND"
	case CCQuit:
		return "QUIT"
	case CCStatus:
		return "STATUS"
	case CCBindAck:
		return "BIND_ACK"
	default:
		return "UNKNOWN"
	}
}

// Status is the closed result vocabulary carried by STATUS frames. It is
// transmitted as an unsigned 32-bit value in network byte order.
type Status uint32

const (
	StatusSuccess     Status = 0
	StatusErrGeneric  Status = 1
	StatusErrNotFound Status = 2
	StatusErrBusy     Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusErrGeneric:
		return "ERR_GENERIC"
	case StatusErrNotFound:
		return "ERR_NOT_FOUND"
	case StatusErrBusy:
		return "ERR_BUSY"
	default:
		return "INVALID STATUS"
	}
}

// Wire sizes. The payload area is a union sized to the largest variant,
// which is the connect payload.
const (
	SsidSize  = 32
	BssidSize = 6
	PskSize   = 64

	SyncPayloadSize    = 2
	StatusPayloadSize  = 4
	ConnectPayloadSize = SsidSize + BssidSize + PskSize

	// FrameSize is the fixed size of every frame on the wire: one control
	// byte followed by the payload union.
	FrameSize = 1 + ConnectPayloadSize
)

// SyncPayload carries the pairing code shown on the peer device. The broker
// forwards it opaquely and never derives key material from it.
type SyncPayload struct {
	Code uint16
}

// ConnectPayload carries the credentials of the target network. Bssid is nil
// when the frontend did not supply one. Psk is forwarded to the capability
// provider as received.
type ConnectPayload struct {
	Ssid  string
	Bssid []byte
	Psk   []byte
}

// StatusPayload carries the result of a previously issued command.
type StatusPayload struct {
	Status Status
}

// Command is a decoded frame. Exactly one payload field matching Code is
// set, or none for payload-free codes.
type Command struct {
	Code    ControlCode
	Sync    *SyncPayload
	Connect *ConnectPayload
	Status  *StatusPayload
}

package wifi

import "errors"

// ErrNotFound is returned by ScanForTarget when no network in range matches
// the target naming convention.
var ErrNotFound = errors.New("no target network found")

// Network describes a discovered target network.
type Network struct {
	// Ssid is the network name.
	Ssid string
	// Bssid is the access point hardware address in hex, or empty when the
	// platform did not report one.
	Bssid string
}

// Provider abstracts platform Wi-Fi management. Implementations own all
// OS-level Wi-Fi state and are not safe for concurrent use; the broker
// serializes every call.
type Provider interface {
	// Start initializes the wireless interface. It must be called before any
	// other method.
	Start() error

	// ScanForTarget scans for a network whose name starts with prefix and
	// returns the first match, or ErrNotFound.
	ScanForTarget(prefix string) (*Network, error)

	// Associate joins the named network. Bssid may be nil. Psk is passed
	// through opaquely; its interpretation belongs to the platform.
	Associate(ssid string, bssid []byte, psk []byte) error

	// Disassociate leaves the current network. It is idempotent and safe to
	// call when not associated.
	Disassociate() error

	// Connected reports whether a link is currently established.
	Connected() bool

	// IPAddress returns the address assigned to the wireless interface.
	IPAddress() (string, error)

	// Stop releases the interface. No other method may be called afterwards.
	Stop()
}

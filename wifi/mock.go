package wifi

import (
	"strings"

	"github.com/go-errors/errors"
)

// check MockProvider compliance to its interface during compile time
var _ Provider = (*MockProvider)(nil)

// MockProvider simulates a wireless interface. It backs the mock runtime
// mode and serves as the test double for the broker.
type MockProvider struct {
	// Networks are the networks currently in range.
	Networks []*Network
	// ScanErr, when set, fails every scan.
	ScanErr error
	// AssociateErr, when set, fails every association attempt.
	AssociateErr error
	// IP is the address reported while associated.
	IP string

	started           bool
	current           string
	scanCalls         int
	associateCalls    int
	disassociateCalls int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		IP: "192.168.1.11",
	}
}

func (m *MockProvider) Start() error {
	m.started = true
	return nil
}

func (m *MockProvider) ScanForTarget(prefix string) (*Network, error) {
	m.scanCalls++

	if m.ScanErr != nil {
		return nil, m.ScanErr
	}

	for _, network := range m.Networks {
		if strings.HasPrefix(network.Ssid, prefix) {
			return network, nil
		}
	}

	return nil, ErrNotFound
}

func (m *MockProvider) Associate(ssid string, bssid []byte, psk []byte) error {
	m.associateCalls++

	if m.AssociateErr != nil {
		return m.AssociateErr
	}

	m.current = ssid

	return nil
}

func (m *MockProvider) Disassociate() error {
	m.disassociateCalls++
	m.current = ""

	return nil
}

func (m *MockProvider) Connected() bool {
	return m.current != ""
}

func (m *MockProvider) IPAddress() (string, error) {
	if m.current == "" {
		return "", errors.New("not associated")
	}

	return m.IP, nil
}

func (m *MockProvider) Stop() {
	m.started = false
}

// Started reports whether Start has been called without a following Stop.
func (m *MockProvider) Started() bool {
	return m.started
}

// CurrentSsid returns the network the mock is associated with, or an empty
// string.
func (m *MockProvider) CurrentSsid() string {
	return m.current
}

// ScanCalls returns how often ScanForTarget has been invoked.
func (m *MockProvider) ScanCalls() int {
	return m.scanCalls
}

// AssociateCalls returns how often Associate has been invoked.
func (m *MockProvider) AssociateCalls() int {
	return m.associateCalls
}

// DisassociateCalls returns how often Disassociate has been invoked.
func (m *MockProvider) DisassociateCalls() int {
	return m.disassociateCalls
}

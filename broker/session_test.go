package broker

import (
	"testing"

	"github.com/nyathea/vanilla-OSX/protocol"
	"github.com/stretchr/testify/assert"
)

func TestSessionStartsIdle(t *testing.T) {
	session := NewSession()

	assert.Equal(t, Idle, session.State())
	assert.Empty(t, session.CurrentSsid())
}

func TestSessionAllows(t *testing.T) {
	tests := []struct {
		name  string
		state State
		code  protocol.ControlCode
		want  bool
	}{
		{name: "sync from idle", state: Idle, code: protocol.CCSync, want: true},
		{name: "sync from associated", state: Associated, code: protocol.CCSync, want: true},
		{name: "connect from idle", state: Idle, code: protocol.CCConnect, want: true},
		{name: "connect from associated", state: Associated, code: protocol.CCConnect, want: false},
		{name: "unbind from idle", state: Idle, code: protocol.CCUnbind, want: true},
		{name: "unbind from associated", state: Associated, code: protocol.CCUnbind, want: true},
		{name: "quit from idle", state: Idle, code: protocol.CCQuit, want: true},
		{name: "quit from associated", state: Associated, code: protocol.CCQuit, want: true},
		{name: "sync while shutting down", state: ShuttingDown, code: protocol.CCSync, want: false},
		{name: "connect while shutting down", state: ShuttingDown, code: protocol.CCConnect, want: false},
		{name: "unbind while shutting down", state: ShuttingDown, code: protocol.CCUnbind, want: false},
		{name: "quit while shutting down", state: ShuttingDown, code: protocol.CCQuit, want: false},
		{name: "status is not a command", state: Idle, code: protocol.CCStatus, want: false},
		{name: "bind ack is not a command", state: Idle, code: protocol.CCBindAck, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewSession()
			session.state = tt.state

			assert.Equal(t, tt.want, session.allows(tt.code))
		})
	}
}

func TestSessionAssociateAndReset(t *testing.T) {
	session := NewSession()

	session.associate("WiiU518cab1fe0a1")
	assert.Equal(t, Associated, session.State())
	assert.Equal(t, "WiiU518cab1fe0a1", session.CurrentSsid())

	session.reset()
	assert.Equal(t, Idle, session.State())
	assert.Empty(t, session.CurrentSsid())

	// Resetting an idle session changes nothing.
	session.reset()
	assert.Equal(t, Idle, session.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "IDLE", Idle.String())
	assert.Equal(t, "SCANNING", Scanning.String())
	assert.Equal(t, "ASSOCIATED", Associated.String())
	assert.Equal(t, "SHUTTING DOWN", ShuttingDown.String())
	assert.Equal(t, "INVALID STATE", State(42).String())
}

package broker

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipe.sock")

	conn, err := ListenLocal(path)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "unixgram", conn.LocalAddr().Network())
	assert.Equal(t, path, conn.LocalAddr().String())
}

func TestListenLocalReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipe.sock")

	first, err := ListenLocal(path)
	require.NoError(t, err)

	// Simulate a crashed instance: the socket file is left behind.
	require.NoError(t, first.Close())

	second, err := ListenLocal(path)
	require.NoError(t, err)
	defer second.Close()
}

func TestListenUDP(t *testing.T) {
	conn, err := ListenUDP(0)
	require.NoError(t, err)
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	require.True(t, ok)
	assert.NotZero(t, addr.Port)
}

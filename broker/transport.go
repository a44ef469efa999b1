package broker

import (
	"context"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"
)

const (
	// DefaultPort is the well-known UDP command port.
	DefaultPort = 10200
	// DefaultSocketPath is the well-known local datagram endpoint.
	DefaultSocketPath = "/tmp/vanilla-pipe.sock"
)

// ListenLocal binds a unixgram endpoint at path, replacing any stale socket
// file left behind by a previous run.
func ListenLocal(path string) (net.PacketConn, error) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Errorf("could not remove stale socket %v: %v", path, err)
	}

	addr, err := net.ResolveUnixAddr("unixgram", path)
	if err != nil {
		return nil, errors.Errorf("could not resolve %v: %v", path, err)
	}

	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return nil, errors.Errorf("could not bind local socket %v: %v", path, err)
	}

	return conn, nil
}

// ListenUDP binds the command port on all interfaces. SO_REUSEADDR lets a
// restarted broker rebind while a socket of a crashed instance lingers.
func ListenUDP(port int) (net.PacketConn, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error

			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}

			return sockErr
		},
	}

	conn, err := lc.ListenPacket(context.Background(), "udp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errors.Errorf("could not bind UDP port %d: %v", port, err)
	}

	return conn, nil
}

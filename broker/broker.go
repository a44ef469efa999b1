package broker

import (
	stderrors "errors"
	"net"
	"sync"
	"time"

	"github.com/go-errors/errors"
	"github.com/nyathea/vanilla-OSX/protocol"
	"github.com/nyathea/vanilla-OSX/wifi"
)

// DefaultSsidPrefix is the naming convention the target console uses for
// its pairing network.
const DefaultSsidPrefix = "WiiU"

// readTimeout bounds the blocking receive so the loop can observe the
// shutdown flag without busy-waiting.
const readTimeout = 1 * time.Second

type Config struct {
	// Conn is the bound datagram endpoint. The broker takes ownership and
	// closes it when Run returns.
	Conn net.PacketConn
	// Provider performs the platform Wi-Fi operations. The broker is its
	// only caller.
	Provider wifi.Provider
	// SsidPrefix overrides DefaultSsidPrefix when non-empty.
	SsidPrefix string
	Logger     Logger
}

// Broker owns the command socket and drives the Wi-Fi provider through the
// connection lifecycle. It is strictly single-threaded: one loop alternates
// between waiting for a frame and running a handler to completion.
type Broker struct {
	conn       net.PacketConn
	provider   wifi.Provider
	ssidPrefix string
	session    *Session
	log        Logger
	done       chan struct{}
	stopOnce   sync.Once
}

func New(config *Config) *Broker {
	broker := &Broker{
		conn:       config.Conn,
		provider:   config.Provider,
		ssidPrefix: config.SsidPrefix,
		session:    NewSession(),
		done:       make(chan struct{}),
	}

	if broker.ssidPrefix == "" {
		broker.ssidPrefix = DefaultSsidPrefix
	}

	if config.Logger != nil {
		broker.log = config.Logger
	} else {
		broker.log = noopLogger{}
	}

	return broker
}

// Run blocks in the receive/dispatch/reply loop until Shutdown is called or
// a QUIT command arrives. In-flight handlers always finish; the shutdown
// flag is only observed between iterations, so the provider is never left
// half-associated by a teardown.
func (b *Broker) Run() error {
	defer func() {
		err := b.conn.Close()
		if err != nil {
			b.log.Errorf("Could not close command socket: %v", err)
		}
	}()

	// One byte larger than a frame so oversized datagrams are seen as
	// oversized instead of being silently truncated to a valid length.
	buf := make([]byte, protocol.FrameSize+1)

	for {
		select {
		case <-b.done:
			return nil
		default:
		}

		err := b.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if err != nil {
			return errors.Errorf("could not set read deadline: %v", err)
		}

		n, sender, err := b.conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}

			b.log.Errorf("Could not receive frame: %v", err)
			continue
		}

		cmd, err := protocol.Decode(buf[:n])
		if err != nil {
			// Dropped without a reply. Answering unrecognized senders would
			// turn the broker into a reflection vector.
			b.log.Debugf("Dropping %d byte frame from %v: %v", n, sender, err)
			continue
		}

		b.handle(cmd, sender)
	}
}

// Shutdown signals the loop to exit after its current iteration. Safe to
// call from any goroutine and more than once.
func (b *Broker) Shutdown() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
}

func (b *Broker) handle(cmd *protocol.Command, sender net.Addr) {
	if b.session.State() == ShuttingDown {
		b.log.Debugf("Ignoring %v while shutting down", cmd.Code)
		return
	}

	b.log.Infof("Received %v from %v", cmd.Code, sender)

	switch cmd.Code {
	case protocol.CCSync:
		b.handleSync(cmd.Sync, sender)
	case protocol.CCConnect:
		b.handleConnect(cmd.Connect, sender)
	case protocol.CCUnbind:
		b.handleUnbind(sender)
	case protocol.CCQuit:
		b.handleQuit()
	default:
		// STATUS and BIND_ACK only travel broker to frontend.
		b.log.Debugf("Ignoring response code %v sent as a command", cmd.Code)
	}
}

func (b *Broker) handleSync(payload *protocol.SyncPayload, sender net.Addr) {
	if !b.session.allows(protocol.CCSync) {
		b.reply(sender, protocol.EncodeStatus(protocol.StatusErrGeneric))
		return
	}

	previous := b.session.state
	b.session.state = Scanning

	b.log.Infof("Scanning for target network with pairing code %04d", payload.Code)

	network, err := b.provider.ScanForTarget(b.ssidPrefix)
	if err != nil {
		b.session.state = previous

		if stderrors.Is(err, wifi.ErrNotFound) {
			b.log.Infof("No target network in range")
		} else {
			b.log.Errorf("Could not scan: %v", err)
		}

		b.reply(sender, protocol.EncodeStatus(protocol.StatusErrGeneric))
		return
	}

	// Sync only discovers the target; it ends with no recorded association
	// even when issued while associated.
	b.session.reset()

	b.log.Infof("Found target network %v (%v)", network.Ssid, network.Bssid)

	b.reply(sender, protocol.EncodeStatus(protocol.StatusSuccess))
}

func (b *Broker) handleConnect(payload *protocol.ConnectPayload, sender net.Addr) {
	if !b.session.allows(protocol.CCConnect) {
		b.reply(sender, protocol.EncodeStatus(protocol.StatusErrBusy))
		return
	}

	// Acknowledge before associating. The full sequence can take longer
	// than the frontend's retry timeout.
	b.reply(sender, protocol.EncodeBindAck())

	err := b.associate(payload)
	if err != nil {
		b.log.Errorf("Could not establish connection: %v", err)

		// Never leave the provider half-associated.
		err := b.provider.Disassociate()
		if err != nil {
			b.log.Errorf("Could not disassociate: %v", err)
		}

		b.session.reset()

		b.reply(sender, protocol.EncodeStatus(protocol.StatusErrGeneric))
		return
	}

	b.reply(sender, protocol.EncodeStatus(protocol.StatusSuccess))
}

// associate runs the full connection sequence: find the named network,
// associate, verify the link and query the assigned address.
func (b *Broker) associate(payload *protocol.ConnectPayload) error {
	prefix := payload.Ssid
	if prefix == "" {
		prefix = b.ssidPrefix
	}

	b.session.state = Scanning

	network, err := b.provider.ScanForTarget(prefix)
	if err != nil {
		return errors.Errorf("could not find network %q: %v", prefix, err)
	}

	b.log.Infof("Associating with %v", network.Ssid)

	err = b.provider.Associate(network.Ssid, payload.Bssid, payload.Psk)
	if err != nil {
		return errors.Errorf("could not associate with %v: %v", network.Ssid, err)
	}

	if !b.provider.Connected() {
		return errors.Errorf("link with %v did not come up", network.Ssid)
	}

	ip, err := b.provider.IPAddress()
	if err != nil {
		return errors.Errorf("could not get ip address: %v", err)
	}

	b.log.Infof("Connected to %v with address %v", network.Ssid, ip)

	b.session.associate(network.Ssid)

	return nil
}

func (b *Broker) handleUnbind(sender net.Addr) {
	err := b.provider.Disassociate()
	if err != nil {
		b.log.Errorf("Could not disassociate: %v", err)

		b.session.reset()

		b.reply(sender, protocol.EncodeStatus(protocol.StatusErrGeneric))
		return
	}

	b.session.reset()

	b.reply(sender, protocol.EncodeStatus(protocol.StatusSuccess))
}

func (b *Broker) handleQuit() {
	b.session.state = ShuttingDown
	b.Shutdown()
}

// reply sends a response frame to the address the request came from, never
// anywhere else.
func (b *Broker) reply(sender net.Addr, frame []byte) {
	_, err := b.conn.WriteTo(frame, sender)
	if err != nil {
		b.log.Errorf("Could not send %v to %v: %v", protocol.ControlCode(frame[0]), sender, err)
	}
}

package net

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"sync"
	"time"

	"ScriptBoard/internal/logging"
	"ScriptBoard/internal/loop"
)

// Events are the protocol-level things a transport reports. Any field may
// be nil. ScriptReceived and ScriptRequested arrive through the transport's
// dispatcher; Status is called directly by Bind and the send methods.
type Events struct {
	ScriptReceived  func(script []byte, sender Endpoint)
	ScriptRequested func(sender Endpoint)
	Status          func(message string)
}

// ErrInvalidTarget is returned for a send to an endpoint without an address
// or port.
var ErrInvalidTarget = errors.New("invalid target endpoint")

// Transport moves script frames between editor and runner.
type Transport interface {
	Bind(localPort uint16)
	SendScript(script []byte, target Endpoint)
	RequestScript(target Endpoint)
	Close() error
}

// UDPTransport is the datagram Transport. Sends never block on delivery and
// never return errors; failures come back as status messages.
type UDPTransport struct {
	mu       sync.Mutex
	conn     *net.UDPConn
	events   Events
	dispatch loop.Dispatcher
	log      *slog.Logger
}

var _ Transport = (*UDPTransport)(nil)

func NewUDPTransport(events Events, dispatch loop.Dispatcher, log *slog.Logger) *UDPTransport {
	if dispatch == nil {
		dispatch = loop.Inline{}
	}
	return &UDPTransport{
		events:   events,
		dispatch: dispatch,
		log:      logging.For(log, logging.CategoryTransport),
	}
}

// Bind listens on localPort on every IPv4 interface, closing any previous
// socket first. Port 0 picks a free port.
func (t *UDPTransport) Bind(localPort uint16) {
	t.log.Info("Binding UDP transport", "port", localPort)

	t.mu.Lock()
	t.closeLocked()
	err := t.listenLocked(localPort)
	local := t.localLocked()
	t.mu.Unlock()

	if err != nil {
		t.log.Warn("Bind failed", "error", err)
		t.status(fmt.Sprintf("UDP: bind failed (%v)", err))
		return
	}
	t.status(fmt.Sprintf("UDP: listening on %d", local.Port))
}

func (t *UDPTransport) SendScript(script []byte, target Endpoint) {
	t.TrySendScript(script, target)
}

// TrySendScript is SendScript for callers that need the outcome. The status
// message is reported either way.
func (t *UDPTransport) TrySendScript(script []byte, target Endpoint) error {
	if !target.Valid() {
		t.log.Warn("Invalid target endpoint", "target", target)
		t.status("Invalid target endpoint")
		return ErrInvalidTarget
	}
	n, err := t.write(script, target)
	if err != nil {
		t.log.Warn("Failed to send script", "error", err)
		t.status(fmt.Sprintf("Failed to send script: %v", err))
		return fmt.Errorf("send script: %w", err)
	}
	t.log.Info("Script sent", "target", target, "bytes", n)
	t.status(fmt.Sprintf("Script sent to %s:%d (%d bytes)", target.Addr, target.Port, n))
	return nil
}

func (t *UDPTransport) RequestScript(target Endpoint) {
	if !target.Valid() {
		t.status("Invalid editor endpoint")
		return
	}
	if _, err := t.write(RequestFrame(), target); err != nil {
		t.log.Warn("Failed to send GET_SCRIPT", "error", err)
		t.status(fmt.Sprintf("Failed to send UDP datagram: %v", err))
		return
	}
	t.log.Info("GET_SCRIPT sent", "target", target)
	t.status(fmt.Sprintf("%s sent to %s:%d", RequestToken, target.Addr, target.Port))
}

// Close stops listening. The transport can be bound again afterwards.
func (t *UDPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked()
}

// Bound reports whether a socket is open.
func (t *UDPTransport) Bound() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// LocalAddr returns the bound endpoint, or the zero Endpoint when unbound.
func (t *UDPTransport) LocalAddr() Endpoint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.localLocked()
}

// write sends one datagram, binding an ephemeral port first if needed so
// replies to a one-shot sender still have somewhere to go.
func (t *UDPTransport) write(data []byte, target Endpoint) (int, error) {
	t.mu.Lock()
	if t.conn == nil {
		if err := t.listenLocked(0); err != nil {
			t.mu.Unlock()
			return 0, err
		}
	}
	conn := t.conn
	t.mu.Unlock()

	return conn.WriteToUDPAddrPort(data, target.AddrPort())
}

func (t *UDPTransport) listenLocked(port uint16) error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: int(port)})
	if err != nil {
		return err
	}
	t.conn = conn
	go t.readLoop(conn)
	return nil
}

func (t *UDPTransport) closeLocked() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *UDPTransport) localLocked() Endpoint {
	if t.conn == nil {
		return Endpoint{}
	}
	addr, ok := t.conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return Endpoint{}
	}
	return EndpointFrom(addr.AddrPort())
}

// Read errors back off from minReadBackoff, doubling up to maxReadBackoff,
// and reset after the next good datagram.
const (
	minReadBackoff = 5 * time.Millisecond
	maxReadBackoff = time.Second
)

type datagramReader interface {
	ReadFromUDPAddrPort(b []byte) (int, netip.AddrPort, error)
}

// readLoop drains conn until it is closed, turning every datagram into at
// most one event on the dispatcher.
func (t *UDPTransport) readLoop(conn datagramReader) {
	buf := make([]byte, MaxDatagram)
	var backoff time.Duration
	for {
		n, from, err := conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			// ICMP errors from earlier sends surface here on some systems.
			if backoff == 0 {
				backoff = minReadBackoff
			} else {
				backoff = min(2*backoff, maxReadBackoff)
			}
			t.log.Debug("Read failed", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		sender := EndpointFrom(from)
		kind, payload := Classify(buf[:n])
		switch kind {
		case FrameRequest:
			t.log.Info("Script request received", "sender", sender)
			if fn := t.events.ScriptRequested; fn != nil {
				t.dispatch.Do(func() { fn(sender) })
			}
		case FrameScript:
			script := append([]byte(nil), payload...)
			t.log.Info("Script received", "sender", sender, "bytes", len(script))
			if fn := t.events.ScriptReceived; fn != nil {
				t.dispatch.Do(func() { fn(script, sender) })
			}
		}
	}
}

func (t *UDPTransport) status(msg string) {
	if t.events.Status != nil {
		t.events.Status(msg)
	}
}

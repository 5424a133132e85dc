// Package serialport implements the real nexstar.Transport: a blocking
// request/response serial port opened lazily on first use, configured
// raw 8N1 with no flow control and a per-read timeout that emulates the
// original VMIN=0/VTIME=5 termios setting.
package serialport

import (
	"sync"
	"time"

	"go.bug.st/serial"
)

// readTimeout matches the original driver's VTIME=5 (500ms, in
// deciseconds) inter-byte timeout applied to each read call.
const readTimeout = 500 * time.Millisecond

// Port is a single half-duplex NexStar serial connection. Only one
// transaction may be in flight at a time; SendCommand holds the Port's
// mutex across the whole write/read exchange, so concurrent callers are
// serialized by Port itself.
type Port struct {
	mu       sync.Mutex
	path     string
	baud     int
	conn     serial.Port
}

// New builds a Port for path/baud without opening it; the connection is
// established lazily by the first SendCommand call.
func New(path string, baud int) *Port {
	return &Port{path: path, baud: baud}
}

func (p *Port) ensureOpen() error {
	if p.conn != nil {
		return nil
	}
	mode := &serial.Mode{
		BaudRate: p.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	conn, err := serial.Open(p.path, mode)
	if err != nil {
		return err
	}
	if err := conn.SetReadTimeout(readTimeout); err != nil {
		conn.Close()
		return err
	}
	p.conn = conn
	return nil
}

// SendCommand writes cmd in full, then reads until wantLen bytes have
// arrived or a read returns zero bytes (port timeout), matching the
// original driver's read-until-length-or-zero loop. Any syscall error
// is surfaced to the caller, which the codec translates to
// invalid_operation.
func (p *Port) SendCommand(cmd []byte, wantLen int) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureOpen(); err != nil {
		return nil, err
	}

	if _, err := p.conn.Write(cmd); err != nil {
		return nil, err
	}

	out := make([]byte, 0, wantLen)
	buf := make([]byte, wantLen)
	for len(out) < wantLen {
		n, err := p.conn.Read(buf[:wantLen-len(out)])
		if err != nil {
			return out, err
		}
		if n == 0 {
			break
		}
		out = append(out, buf[:n]...)
	}
	return out, nil
}

// Close releases the underlying serial handle, if open.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

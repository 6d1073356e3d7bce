package gifprotocol

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptStream is an io.ReadWriter that hands out pre-arranged chunks, one
// per Read call, and records everything written to it. Once the script is
// exhausted it behaves like a serial port whose read timeout expired.
type scriptStream struct {
	mu      sync.Mutex
	chunks  [][]byte
	reads   int
	written strings.Builder
	eof     bool
}

func newScriptStream(chunks ...string) *scriptStream {
	s := &scriptStream{}
	for _, c := range chunks {
		s.chunks = append(s.chunks, []byte(c))
	}
	return s
}

func (s *scriptStream) push(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, []byte(chunk))
}

func (s *scriptStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if len(s.chunks) == 0 {
		if s.eof {
			return 0, io.EOF
		}
		s.mu.Unlock()
		time.Sleep(time.Millisecond)
		s.mu.Lock()
		return 0, nil
	}

	n := copy(p, s.chunks[0])
	if n < len(s.chunks[0]) {
		s.chunks[0] = s.chunks[0][n:]
	} else {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}

func (s *scriptStream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.Write(p)
}

func (s *scriptStream) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *scriptStream) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.String()
}

// fakeDevice emulates the firmware on the far end of a net.Pipe.
type fakeDevice struct {
	host net.Conn
	conn net.Conn
	r    *bufio.Reader

	// Replies; empty means the well-behaved default.
	readyReply string
	finalReply string
	ackReply   func(chunk int) string
	playReply  string

	// listing is sent verbatim between BEGIN and END.
	listing []string

	mu       sync.Mutex
	lines    []string
	chunks   []int
	uploaded map[string][]byte
	deleted  []string
	played   []string
	greeting string
	done     chan struct{}
}

func newFakeDevice(t *testing.T) *fakeDevice {
	t.Helper()

	host, dev := net.Pipe()
	d := &fakeDevice{
		host:     host,
		conn:     dev,
		r:        bufio.NewReader(dev),
		uploaded: make(map[string][]byte),
		done:     make(chan struct{}),
	}
	t.Cleanup(func() {
		host.Close()
		dev.Close()
		<-d.done
	})
	return d
}

// start launches the device loop. Configure replies before calling it.
func (d *fakeDevice) start() {
	go d.serve()
}

// wait blocks until the device loop exits after the host side closes.
func (d *fakeDevice) wait(t *testing.T) {
	t.Helper()
	d.host.Close()
	select {
	case <-d.done:
	case <-time.After(2 * time.Second):
		t.Fatal("fake device did not stop")
	}
}

func (d *fakeDevice) serve() {
	defer close(d.done)

	if d.greeting != "" {
		if !d.send(d.greeting) {
			return
		}
	}

	for {
		line, err := d.r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		d.mu.Lock()
		d.lines = append(d.lines, line)
		d.mu.Unlock()

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var ok bool
		switch fields[0] {
		case ListToken:
			ok = d.handleList()
		case PlayToken:
			d.mu.Lock()
			d.played = append(d.played, fields[1])
			d.mu.Unlock()
			ok = d.send(orDefault(d.playReply, OKToken))
		case DeleteToken:
			d.mu.Lock()
			d.deleted = append(d.deleted, fields[1])
			d.mu.Unlock()
			ok = d.send(OKToken)
		case UploadToken:
			size, _ := strconv.Atoi(fields[2])
			ok = d.handleUpload(fields[1], size)
		default:
			ok = d.send("ERR unknown command")
		}
		if !ok {
			return
		}
	}
}

func (d *fakeDevice) handleList() bool {
	if !d.send(BeginToken) {
		return false
	}
	for _, l := range d.listing {
		if !d.send(l) {
			return false
		}
	}
	return d.send(EndToken)
}

func (d *fakeDevice) handleUpload(name string, size int) bool {
	ready := orDefault(d.readyReply, ReadyToken)
	if !d.send(ready) {
		return false
	}
	if ready != ReadyToken {
		return true
	}

	var data []byte
	for chunk := 1; len(data) < size; chunk++ {
		header, err := d.r.ReadString('\n')
		if err != nil {
			return false
		}
		d.mu.Lock()
		d.lines = append(d.lines, strings.TrimSpace(header))
		d.mu.Unlock()

		var n int
		if _, err := fmt.Sscanf(header, "C %d", &n); err != nil {
			return d.send("ERR bad chunk header")
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return false
		}
		data = append(data, buf...)

		d.mu.Lock()
		d.chunks = append(d.chunks, n)
		d.mu.Unlock()

		ack := fmt.Sprintf("ACK %d", len(data))
		if d.ackReply != nil {
			ack = d.ackReply(chunk)
		}
		if !d.send(ack) {
			return false
		}
		if !strings.HasPrefix(ack, AckPrefix) {
			return true
		}
	}

	d.mu.Lock()
	d.uploaded[name] = data
	d.mu.Unlock()

	return d.send(orDefault(d.finalReply, OKToken))
}

func (d *fakeDevice) send(line string) bool {
	_, err := io.WriteString(d.conn, line+"\r\n")
	return err == nil
}

func (d *fakeDevice) receivedChunks() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.chunks...)
}

func (d *fakeDevice) receivedLines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

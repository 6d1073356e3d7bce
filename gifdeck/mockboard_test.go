// =============================================================================
// mockboard_test.go - Mock GIF Player Board for Testing
// =============================================================================
//
// mockBoard emulates the firmware on the far end of a net.Pipe so the CLI
// and the shell can be tested without hardware. It keeps a small file table
// and implements LIST, PLAY, DEL and the chunked UPLOAD2 transfer.
//
// Tests install it with useMockBoard, which replaces openPort for the
// duration of the test.
//
// =============================================================================

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/maddmann584/gif-player-v2/serialport"
)

// GO CONCEPT: net.Pipe as an In-Memory Wire
// ------------------------------------------
// net.Pipe returns two connected net.Conn values with no buffering: a
// write blocks until the other side reads. Both ends support read
// deadlines, so timeouts in the protocol code behave as they would on a
// real port.
//
// Compare with Swift: a pair of connected sockets from socketpair(2).
//
// Compare with Python: socket.socketpair().

// pipePort adapts one end of a net.Pipe to serialport.Port.
type pipePort struct {
	net.Conn
}

func (p pipePort) Flush() error { return nil }

// mockBoard is a scripted GIF player.
type mockBoard struct {
	mu sync.Mutex

	// files maps stored names to their contents.
	files map[string][]byte

	// greeting is sent as soon as the port opens; empty means silence.
	greeting string

	// failNext, when set, is returned instead of OK to the next PLAY/DEL.
	failNext string

	// received records every command line.
	received []string

	wg sync.WaitGroup
}

func newMockBoard(files map[string][]byte) *mockBoard {
	if files == nil {
		files = make(map[string][]byte)
	}
	return &mockBoard{files: files, greeting: "HELLO gifplayer"}
}

// useMockBoard makes every connect in this test talk to b.
func useMockBoard(t *testing.T, b *mockBoard) {
	t.Helper()

	orig := openPort
	var conns []net.Conn
	var connsMu sync.Mutex

	openPort = func(ctx context.Context, cfg *serialport.Config, retries int) (serialport.Port, error) {
		host, dev := net.Pipe()

		connsMu.Lock()
		conns = append(conns, host, dev)
		connsMu.Unlock()

		b.wg.Add(1)
		go b.serve(dev)
		return pipePort{host}, nil
	}

	t.Cleanup(func() {
		openPort = orig
		connsMu.Lock()
		for _, c := range conns {
			c.Close()
		}
		connsMu.Unlock()
		b.wg.Wait()
	})
}

func (b *mockBoard) serve(conn net.Conn) {
	defer b.wg.Done()
	defer conn.Close()

	r := bufio.NewReader(conn)
	send := func(line string) bool {
		_, err := fmt.Fprintf(conn, "%s\r\n", line)
		return err == nil
	}

	if b.greeting != "" && !send(b.greeting) {
		return
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		b.mu.Lock()
		b.received = append(b.received, line)
		b.mu.Unlock()

		if !b.handle(line, r, send) {
			return
		}
	}
}

func (b *mockBoard) handle(line string, r *bufio.Reader, send func(string) bool) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "LIST":
		b.mu.Lock()
		names := make([]string, 0, len(b.files))
		for name := range b.files {
			names = append(names, name)
		}
		sort.Strings(names)
		lines := []string{"BEGIN"}
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("FILE %s %d", name, len(b.files[name])))
		}
		b.mu.Unlock()

		for _, l := range append(lines, "END") {
			if !send(l) {
				return false
			}
		}
		return true

	case "PLAY", "DEL":
		b.mu.Lock()
		reply := "OK"
		if b.failNext != "" {
			reply, b.failNext = b.failNext, ""
		} else if _, ok := b.files[fields[1]]; !ok {
			reply = "ERR not found"
		} else if fields[0] == "DEL" {
			delete(b.files, fields[1])
		}
		b.mu.Unlock()
		return send(reply)

	case "UPLOAD2":
		size, _ := strconv.Atoi(fields[2])
		if !send("READY") {
			return false
		}
		var data []byte
		for len(data) < size {
			header, err := r.ReadString('\n')
			if err != nil {
				return false
			}
			n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(header), "C "))
			if err != nil {
				return send("ERR bad chunk")
			}
			buf := make([]byte, n)
			if _, err := io.ReadFull(r, buf); err != nil {
				return false
			}
			data = append(data, buf...)
			if !send(fmt.Sprintf("ACK %d", len(data))) {
				return false
			}
		}
		b.mu.Lock()
		b.files[fields[1]] = data
		b.mu.Unlock()
		return send("OK")

	default:
		return send("ERR unknown")
	}
}

func (b *mockBoard) has(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[name]
	return ok
}

func (b *mockBoard) commands() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.received...)
}

// testDevice returns a path that passes checkDevice.
func testDevice(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ttyMOCK0")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("failed to create device stand-in: %v", err)
	}
	return path
}

// testConfig writes a config file with short timeouts.
func testConfig(t *testing.T, device string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gifdeck.conf")
	content := fmt.Sprintf(`[serial]
device = %s
open_retries = 0

[protocol]
command_timeout = 2s
upload_timeout = 2s
hello_timeout = 100ms
settle_delay = 1ms
`, device)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

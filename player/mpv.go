package player

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aurora-stream/aurora/blob"
	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/media"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrNotStarted is returned by element methods before Start.
var ErrNotStarted = errors.New("mpv is not running")

// MPV is a media.Element driving an idle mpv process over JSON-IPC.
type MPV struct {
	media.Handlers

	binary  string
	resolve func(string) (string, bool)

	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	ipc        *ipc

	mu       sync.Mutex
	source   media.Source
	target   string
	current  float64
	duration float64
	paused   bool
}

// NewMPV returns an element for the given mpv binary. Nothing runs until Start.
func NewMPV(opts Options) *MPV {
	binary := opts.Binary
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		binary:  binary,
		resolve: opts.Resolve,
		exited:  make(chan struct{}),
		paused:  true,
	}
}

// Start launches mpv in idle mode and connects to its IPC socket.
func (m *MPV) Start(ctx context.Context) error {
	if m.ipc != nil {
		return nil
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.Aurora, randomBytes))

	// Only what the element needs; the user's mpv.conf decides the rest.
	m.cmd = exec.Command(m.binary,
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=no",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	)
	m.cmd.SysProcAttr = sysProcAttr()

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	conn, err := m.waitForSocket(ctx)
	if err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: %v", err)
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return m.attach(conn)
}

// attach wires an established IPC connection and subscribes to the observed properties.
func (m *MPV) attach(conn net.Conn) error {
	m.ipc = newIPC(conn)
	go m.dispatch()

	for i, name := range observed {
		if _, err := m.ipc.call("observe_property", i+1, name); err != nil {
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}
	return nil
}

func (m *MPV) waitForSocket(ctx context.Context) (net.Conn, error) {
	var dialer net.Dialer
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.exited:
			return nil, errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		if conn, err := dialer.DialContext(ctx, "unix", m.socketPath); err == nil {
			return conn, nil
		}
	}
	return nil, fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Wait returns a channel closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Close quits mpv, killing it if it does not exit in time.
func (m *MPV) Close() error {
	if m.ipc == nil {
		return nil
	}

	_, _ = m.ipc.call("quit")
	if m.cmd != nil {
		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(m.cmd)
		}
	}

	err := m.ipc.close()
	if m.socketPath != "" {
		_ = os.Remove(m.socketPath)
	}
	return err
}

func (m *MPV) command(args ...any) error {
	if m.ipc == nil {
		return ErrNotStarted
	}
	_, err := m.ipc.call(args...)
	return err
}

func (m *MPV) set(property string, value any) error {
	return m.command("set_property", property, value)
}

func (m *MPV) floatProperty(name string) (float64, error) {
	if m.ipc == nil {
		return 0, ErrNotStarted
	}
	data, err := m.ipc.call("get_property", name)
	if err != nil {
		return 0, err
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, fmt.Errorf("property %s: %w", name, err)
	}
	return value, nil
}

// Mount selects the source for the next Load. Blob URLs are mapped to their files.
func (m *MPV) Mount(src media.Source) error {
	raw := src.URL
	if blob.IsBlob(raw) {
		if m.resolve == nil {
			return fmt.Errorf("%s: %w", raw, blob.ErrUnknown)
		}
		path, ok := m.resolve(raw)
		if !ok {
			return fmt.Errorf("%s: %w", raw, blob.ErrUnknown)
		}
		raw = path
	}

	target, err := sanitizeMediaTarget(raw)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = src
	m.target = target
	m.current = 0
	m.duration = 0
	return nil
}

// Load replaces whatever mpv is playing with the mounted source.
func (m *MPV) Load() error {
	m.mu.Lock()
	src, target := m.source, m.target
	m.mu.Unlock()

	if target == "" {
		return errors.New("no source mounted")
	}

	if err := m.set("force-media-title", sanitizeTitle(src.Title)); err != nil {
		return err
	}
	if err := m.set("mute", src.Muted); err != nil {
		return err
	}
	if err := m.set("pause", !src.Autoplay); err != nil {
		return err
	}
	return m.command("loadfile", target, "replace")
}

func (m *MPV) Play() error {
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

func (m *MPV) Seek(seconds float64) error {
	return m.command("seek", seconds, "absolute")
}

// SetVolume maps [0, 1] onto mpv's percentage scale.
func (m *MPV) SetVolume(level float64) error {
	return m.set("volume", level*100)
}

func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

func (m *MPV) SetFullscreen(fullscreen bool) error {
	return m.set("fullscreen", fullscreen)
}

func (m *MPV) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *MPV) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MPV) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// sanitizeMediaTarget validates that a URL or path is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	// Targets starting with - would be read as options.
	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

// sanitizeTitle flattens a title onto one line.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}

var _ media.Element = (*MPV)(nil)

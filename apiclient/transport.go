package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"
)

// Config holds the per-connection timeouts of a Transport.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// MockResponder produces the response line for a request on a mock Transport.
type MockResponder func(path string, payload any, pathParams map[string]string) (string, error)

// Transport speaks the node's line protocol. Every request uses its own TCP
// connection and is written as `<path>[ <payload>]\x00`; only the NUL ends
// a request, so payloads may span lines or carry binary data.
//
// Plain routes answer with one JSON line and close the connection. Stream
// routes answer with one JSON line and keep the connection open for binary
// data, see Open.
type Transport struct {
	addr string
	mock MockResponder
	cfg  Config
}

// NewTransport returns a Transport for addr with default timeouts.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithConfig returns a Transport for addr. A nil cfg selects the
// defaults.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport returns a Transport that answers from responder without
// touching the network. Stream routes are not available on it.
func NewMockTransport(responder MockResponder) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// Do is DoCtx with a background context.
func (t *Transport) Do(path string, payload any, pathParams map[string]string) (string, error) {
	return t.DoCtx(context.Background(), path, payload, pathParams)
}

// DoCtx sends one request and returns the response line without its
// trailing newline. Payloads are sent as follows:
//
//	[]byte -> as-is
//	string -> UTF-8 bytes
//	other  -> JSON
//	nil    -> no payload
func (t *Transport) DoCtx(ctx context.Context, path string, payload any, pathParams map[string]string) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload, pathParams)
	}
	conn, err := t.send(ctx, path, payload, pathParams)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	t.readDeadline(conn)
	resp, err := io.ReadAll(conn)
	if err != nil && len(resp) == 0 {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(string(resp), "\n"), nil
}

// StreamConn is an open stream route: the acknowledgement line has been
// consumed and R is positioned at the first byte of stream data.
type StreamConn struct {
	net.Conn
	R *bufio.Reader
}

// Open sends a request to a stream route and reads its acknowledgement line
// under the read timeout. The deadline is cleared before Open returns; the
// caller owns the connection.
func (t *Transport) Open(ctx context.Context, path string, payload any, pathParams map[string]string) (*StreamConn, string, error) {
	if t.mock != nil {
		return nil, "", fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := t.send(ctx, path, payload, pathParams)
	if err != nil {
		return nil, "", err
	}

	t.readDeadline(conn)
	r := bufio.NewReader(conn)
	ack, err := r.ReadString('\n')
	if err != nil {
		conn.Close()
		return nil, "", fmt.Errorf("read stream ack: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	return &StreamConn{Conn: conn, R: r}, strings.TrimSuffix(ack, "\n"), nil
}

// send dials the server and writes one framed request.
func (t *Transport) send(ctx context.Context, path string, payload any, pathParams map[string]string) (net.Conn, error) {
	req, err := frame(path, payload, pathParams)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}
	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := conn.Write(req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write: %w", err)
	}
	_ = conn.SetWriteDeadline(time.Time{})
	return conn, nil
}

func (t *Transport) readDeadline(conn net.Conn) {
	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
}

// frame builds the wire form of a request including the NUL terminator.
func frame(path string, payload any, pathParams map[string]string) ([]byte, error) {
	req := []byte(fillPath(path, pathParams))
	body, err := toPayloadBytes(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	if len(body) > 0 {
		req = append(append(req, ' '), body...)
	}
	return append(req, 0), nil
}

func fillPath(pattern string, params map[string]string) string {
	out := pattern
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", url.PathEscape(v))
	}
	return strings.ToLower(out)
}

func toPayloadBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []byte:
		return t, nil
	case string:
		return []byte(t), nil
	default:
		return json.Marshal(v)
	}
}

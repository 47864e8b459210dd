package eventbridge

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/nodemachine/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DialTimeout bounds how long Dial waits for the connect handshake.
const DialTimeout = 15 * time.Second

// DialOptions configures the socket.io connection to a renderer.
type DialOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// SocketEmitter is an Emitter backed by a socket.io client socket.
type SocketEmitter struct {
	io *socket.Socket
}

// Dial connects to a socket.io server over websocket and waits for the
// connect event.
func Dial(ctx context.Context, o DialOptions) (*SocketEmitter, error) {
	logger := ctxlog.FromContext(ctx).With("component", "eventbridge", "url", o.URL)

	parsed, err := url.Parse(o.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse renderer URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("renderer URL '%s' must be absolute", o.URL)
	}

	opts := socket.DefaultOptions()
	if parsed.Path != "" {
		opts.SetPath(parsed.Path)
	}
	if o.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host), opts)
	io := manager.Socket(o.Namespace, opts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		notify(connected, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		notify(connected, err)
	})

	logger.Debug("Connecting to renderer.")
	io.Connect()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		logger.Info("Connected to renderer.", "sid", io.Id())
		return &SocketEmitter{io: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(DialTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", DialTimeout)
	}
}

// notify delivers the first handshake outcome. Later outcomes, such as a
// connect after a connect_error, or any outcome after Dial gave up, are
// discarded so the socket's event goroutine never blocks.
func notify(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// Send emits the payload under the event name.
func (e *SocketEmitter) Send(event string, payload any) error {
	if !e.io.Connected() {
		return errors.New("renderer socket is not connected")
	}
	e.io.Emit(event, payload)
	return nil
}

// Close disconnects the socket.
func (e *SocketEmitter) Close() {
	e.io.Disconnect()
}

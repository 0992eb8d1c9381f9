// Package preview pushes compiled filter markup to a socket.io server so a
// live page can re-render it.
package preview

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/filtergrid/internal/compiler"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	DefaultEvent   = "filter:update"
	DefaultTimeout = 10 * time.Second
)

// Options configures a Publisher.
type Options struct {
	// URL is the server address, e.g. http://localhost:3000/socket.io/.
	URL       string
	Namespace string
	// Event is emitted with the payload. Defaults to DefaultEvent.
	Event string
	// AckEvent, when set, is awaited after emitting.
	AckEvent           string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Payload is the message body emitted to the server. The client encodes it
// as JSON.
type Payload struct {
	Body     string   `json:"body"`
	Markup   string   `json:"markup,omitempty"`
	Order    []string `json:"order"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewPayload builds a payload from a compilation. markup is the wrapped
// preview document, if any.
func NewPayload(res *compiler.Result, markup string) Payload {
	p := Payload{Body: res.Body, Markup: markup, Order: res.Order}
	if p.Order == nil {
		p.Order = []string{}
	}
	for _, w := range res.Warnings {
		p.Warnings = append(p.Warnings, w.Error())
	}
	return p
}

// Publisher emits payloads over a short-lived socket.io connection.
type Publisher struct {
	opts    Options
	baseURL string
	path    string
}

// NewPublisher validates opts and fills in defaults.
func NewPublisher(opts Options) (*Publisher, error) {
	if opts.URL == "" {
		return nil, errors.New("publish url is required")
	}
	parsed, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("publish url %q must be absolute", opts.URL)
	}
	if opts.Event == "" {
		opts.Event = DefaultEvent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Publisher{
		opts:    opts,
		baseURL: fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host),
		path:    parsed.Path,
	}, nil
}

type opResult struct {
	err error
}

// Publish connects, emits the payload and disconnects. With an AckEvent it
// also waits for the server's acknowledgement.
func (p *Publisher) Publish(ctx context.Context, payload Payload) error {
	logger := ctxlog.FromContext(ctx).With("component", "preview", "url", p.baseURL, "event", p.opts.Event)
	logger.Debug("Publishing preview.")

	opCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	opts := socket.DefaultOptions()
	if p.path != "" {
		opts.SetPath(p.path)
	}
	if p.opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(p.baseURL, opts)
	io := manager.Socket(p.opts.Namespace, opts)
	defer io.Disconnect()

	done := make(chan opResult, 1)
	send := func(r opResult) {
		select {
		case done <- r:
		default:
		}
	}

	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected.", "sid", io.Id())
		io.Emit(p.opts.Event, payload)
		if p.opts.AckEvent == "" {
			send(opResult{})
		}
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		send(opResult{err: fmt.Errorf("socket.io connection failed: %w", err)})
	})
	if p.opts.AckEvent != "" {
		io.Once(types.EventName(p.opts.AckEvent), func(...any) {
			logger.Debug("Preview acknowledged.", "ack", p.opts.AckEvent)
			send(opResult{})
		})
	}

	io.Connect()

	select {
	case <-opCtx.Done():
		if ctx.Err() != nil {
			return fmt.Errorf("preview publish cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("timed out after %v publishing preview", p.opts.Timeout)
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		logger.Info("Preview published.", "nodes", len(payload.Order))
		return nil
	}
}

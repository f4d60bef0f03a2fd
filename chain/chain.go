package chain

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
)

// Observer is notified after each Chain.Invoke.
// resolvedBy is empty when the request was unhandled or a handler failed.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveInvoke(chain, resolvedBy string, err error)
}

// Chain owns an ordered list of named handlers. The zero value is an empty,
// usable chain.
//
// Invoke walks a snapshot of the list taken at call start, so Append, Remove
// and friends may run concurrently with requests and take effect on the next
// Invoke. Handlers never reference each other; the order lives here only.
type Chain[Req, Res any] struct {
	mu    sync.RWMutex
	links []link[Req, Res]

	name     string
	observer Observer
	logger   *slog.Logger
}

type link[Req, Res any] struct {
	name string
	h    Handler[Req, Res]
}

// Option configures a Chain.
type Option func(*settings)

type settings struct {
	name     string
	observer Observer
	logger   *slog.Logger
}

// WithName names the chain in logs and observations.
func WithName(name string) Option { return func(s *settings) { s.name = name } }

// WithObserver registers an observer notified after each Invoke.
func WithObserver(o Observer) Option { return func(s *settings) { s.observer = o } }

// WithLogger sets the logger used for unhandled requests and faults.
func WithLogger(l *slog.Logger) Option { return func(s *settings) { s.logger = l } }

// New constructs an empty Chain.
func New[Req, Res any](opts ...Option) *Chain[Req, Res] {
	s := settings{name: "chain"}
	for _, o := range opts {
		o(&s)
	}

	return &Chain[Req, Res]{name: s.name, observer: s.observer, logger: s.logger}
}

// Append adds h at the end of the chain.
func (c *Chain[Req, Res]) Append(name string, h Handler[Req, Res]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.insertAt(len(c.links), name, h)
}

// Prepend adds h at the front of the chain.
func (c *Chain[Req, Res]) Prepend(name string, h Handler[Req, Res]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.insertAt(0, name, h)
}

// InsertBefore adds h immediately before the handler called mark.
func (c *Chain[Req, Res]) InsertBefore(mark, name string, h Handler[Req, Res]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(mark)
	if i < 0 {
		return fmt.Errorf("insert %s before %s: %w", name, mark, berr.ErrHandlerNotFound)
	}

	return c.insertAt(i, name, h)
}

// InsertAfter adds h immediately after the handler called mark.
func (c *Chain[Req, Res]) InsertAfter(mark, name string, h Handler[Req, Res]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(mark)
	if i < 0 {
		return fmt.Errorf("insert %s after %s: %w", name, mark, berr.ErrHandlerNotFound)
	}

	return c.insertAt(i+1, name, h)
}

// Replace swaps the handler registered as name, keeping its position.
func (c *Chain[Req, Res]) Replace(name string, h Handler[Req, Res]) error {
	if h == nil {
		return fmt.Errorf("replace %s: %w", name, berr.ErrCallbackRequired)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("replace %s: %w", name, berr.ErrHandlerNotFound)
	}

	c.links[i].h = h

	return nil
}

// Move relocates the handler called name to position pos, clamped to the chain bounds.
func (c *Chain[Req, Res]) Move(name string, pos int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("move %s: %w", name, berr.ErrHandlerNotFound)
	}

	l := c.links[i]
	c.links = slices.Delete(c.links, i, i+1)
	pos = max(0, min(pos, len(c.links)))
	c.links = slices.Insert(c.links, pos, l)

	return nil
}

// Remove drops the handler called name. It reports whether it was present.
func (c *Chain[Req, Res]) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	if i < 0 {
		return false
	}

	c.links = slices.Delete(c.links, i, i+1)

	return true
}

// Names returns handler names in chain order.
func (c *Chain[Req, Res]) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.links))
	for i, l := range c.links {
		out[i] = l.name
	}

	return out
}

// Len returns the number of handlers.
func (c *Chain[Req, Res]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.links)
}

// Invoke offers req to each handler in order until one resolves it.
func (c *Chain[Req, Res]) Invoke(ctx context.Context, req Req) (Result[Res], error) {
	res, _, err := c.Trace(ctx, req)
	return res, err
}

// Trace is Invoke that also reports the name of the handler that resolved req.
func (c *Chain[Req, Res]) Trace(ctx context.Context, req Req) (Result[Res], string, error) {
	links := c.snapshot()

	for _, l := range links {
		res, err := l.h(ctx, req)
		if err != nil {
			err = fmt.Errorf("invoke %s: handler %s: %w", c.displayName(), l.name, fault(err))
			c.log().WarnContext(ctx, "chain fault", "chain", c.displayName(), "handler", l.name, "err", err)
			c.observe("", err)

			return Unhandled[Res](), "", err
		}

		if res.Handled() {
			c.observe(l.name, nil)
			return res, l.name, nil
		}
	}

	c.log().DebugContext(ctx, "request unhandled", "chain", c.displayName(), "handlers", len(links))
	c.observe("", nil)

	return Unhandled[Res](), "", nil
}

// Handler snapshots the current order into a single handler, so a chain can be
// nested in another chain or composed with After.
func (c *Chain[Req, Res]) Handler() Handler[Req, Res] {
	links := c.snapshot()

	hs := make([]Handler[Req, Res], len(links))
	for i, l := range links {
		hs[i] = l.h
	}

	return Compose(hs...)
}

func (c *Chain[Req, Res]) snapshot() []link[Req, Res] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.links)
}

func (c *Chain[Req, Res]) log() *slog.Logger {
	if c.logger == nil {
		return discard
	}

	return c.logger
}

var discard = slog.New(slog.DiscardHandler)

func (c *Chain[Req, Res]) displayName() string {
	if c.name == "" {
		return "chain"
	}

	return c.name
}

func (c *Chain[Req, Res]) observe(resolvedBy string, err error) {
	if c.observer != nil {
		c.observer.ObserveInvoke(c.displayName(), resolvedBy, err)
	}
}

// insertAt requires c.mu held for writing.
func (c *Chain[Req, Res]) insertAt(i int, name string, h Handler[Req, Res]) error {
	if h == nil {
		return fmt.Errorf("add %s: %w", name, berr.ErrCallbackRequired)
	}

	if c.index(name) >= 0 {
		return fmt.Errorf("add %s: %w", name, berr.ErrHandlerExists)
	}

	c.links = slices.Insert(c.links, i, link[Req, Res]{name: name, h: h})

	return nil
}

func (c *Chain[Req, Res]) index(name string) int {
	return slices.IndexFunc(c.links, func(l link[Req, Res]) bool { return l.name == name })
}

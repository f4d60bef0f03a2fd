package chain

import (
	"context"
	"errors"
	"fmt"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
)

// Handler either resolves req or returns Unhandled to let the next handler try.
// A non-nil error stops the chain.
type Handler[Req, Res any] func(ctx context.Context, req Req) (Result[Res], error)

// Guard decides whether a request may reach the handler it protects.
type Guard[Req any] func(ctx context.Context, req Req) bool

// After returns a handler that runs h and, only when h leaves the request
// unhandled, runs next. Either may be nil; a nil handler leaves every request unhandled.
func After[Req, Res any](h, next Handler[Req, Res]) Handler[Req, Res] {
	return func(ctx context.Context, req Req) (Result[Res], error) {
		res, err := call(ctx, h, req)
		if err != nil || res.Handled() {
			return res, err
		}

		return call(ctx, next, req)
	}
}

// Before returns a handler that runs h only when guard accepts req.
// A rejected request is left unhandled, so later handlers in a chain still see it.
// A nil guard accepts everything.
func Before[Req, Res any](guard Guard[Req], h Handler[Req, Res]) Handler[Req, Res] {
	return func(ctx context.Context, req Req) (Result[Res], error) {
		if guard != nil && !guard(ctx, req) {
			return Unhandled[Res](), nil
		}

		return call(ctx, h, req)
	}
}

// Compose folds hs with After, left to right. With no handlers every request is unhandled.
func Compose[Req, Res any](hs ...Handler[Req, Res]) Handler[Req, Res] {
	if len(hs) == 0 {
		return func(context.Context, Req) (Result[Res], error) { return Unhandled[Res](), nil }
	}

	out := hs[0]
	for _, h := range hs[1:] {
		out = After(out, h)
	}

	if len(hs) == 1 {
		return After(out, nil)
	}

	return out
}

func call[Req, Res any](ctx context.Context, h Handler[Req, Res], req Req) (Result[Res], error) {
	if h == nil {
		return Unhandled[Res](), nil
	}

	res, err := h(ctx, req)
	if err != nil {
		return Unhandled[Res](), fault(err)
	}

	return res, nil
}

// fault marks err as a handler fault once, however deep the composition.
func fault(err error) error {
	if errors.Is(err, berr.ErrHandlerFault) {
		return err
	}

	return fmt.Errorf("%w: %w", berr.ErrHandlerFault, err)
}

package wrap

import (
	"context"
	"errors"
)

// ctxError carries the LogCtx that was current when the error was
// wrapped, so the handler layer can log with the fields the failing
// operation had set.
type ctxError struct {
	err    error
	logCtx LogCtx
}

func (e *ctxError) Error() string {
	return e.err.Error()
}

func (e *ctxError) Unwrap() error {
	return e.err
}

// ErrorCtx restores the LogCtx captured inside err onto ctx. When err
// carries no LogCtx the context is returned unchanged.
func ErrorCtx(ctx context.Context, err error) context.Context {
	var e *ctxError
	if errors.As(err, &e) && e != nil {
		return context.WithValue(ctx, LogCtxKey, e.logCtx)
	}
	return ctx
}

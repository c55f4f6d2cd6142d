package wrap

import (
	"context"
	"errors"
)

// Error attaches the current LogCtx to err. An error that already
// carries a LogCtx gets it refreshed instead of double-wrapped.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	lc := LogCtx{}
	if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		lc = x
	}

	var e *ctxError
	if errors.As(err, &e) {
		e.logCtx = lc
		return err
	}

	return &ctxError{
		err:    err,
		logCtx: lc,
	}
}

package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an unrecovered pipeline error. The caller decides the exit
// code; this only reports.
func Handle(ctx context.Context, err error) {
	logger := ctxlog.From(ctx)
	logger.Error("audit run failed", "error", err)
}

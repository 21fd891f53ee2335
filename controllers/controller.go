// Package controllers turns user intents into slice operations and tells
// the caller what to show next: a toast, a redirect, or both.
package controllers

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/middlewares"
	"github.com/dooddles07/cyaadnu-frontend/store"
	"github.com/dooddles07/cyaadnu-frontend/views"
)

// Result is what a page does after handling an action. Err is the
// underlying failure, nil on success.
type Result struct {
	Toast    *views.Toast
	Redirect string
	Err      error
}

func (r Result) OK() bool { return r.Err == nil }

type Pages struct {
	store  *store.Store
	logger *zap.Logger
}

func New(s *store.Store, logger *zap.Logger) *Pages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pages{store: s, logger: logger}
}

func (p *Pages) Store() *store.Store { return p.store }

// finish records the action and builds the result. A superseded request
// is not a failure: a newer one already landed, so nothing is shown.
func (p *Pages) finish(action string, err error, success *views.Toast, redirect, fallback string) Result {
	switch {
	case errors.Is(err, store.ErrSuperseded):
		middlewares.RecordPageAction(action, true)
		return Result{}
	case err != nil:
		middlewares.RecordPageAction(action, false)
		p.logger.Debug("action failed", zap.String("action", action), zap.Error(err))
		return Result{Toast: views.Failure(err, fallback), Err: err}
	default:
		middlewares.RecordPageAction(action, true)
		return Result{Toast: success, Redirect: redirect}
	}
}

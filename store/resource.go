package store

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dooddles07/cyaadnu-frontend/api"
	"github.com/dooddles07/cyaadnu-frontend/middlewares"
)

// ErrSuperseded is returned by an operation whose response arrived after a
// newer response for the same region had already been applied. The
// response was dropped; state reflects the newer one.
var ErrSuperseded = errors.New("superseded by a newer response")

type Status int

const (
	Idle Status = iota
	Pending
	Ok
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Ok:
		return "ok"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resource is the last-known server view of one region plus the state of
// the requests against it. Data survives Pending and Failed so views can
// keep rendering stale-but-present values.
type Resource[T any] struct {
	Status Status
	Data   T
	Err    error
}

func (r Resource[T]) Loading() bool { return r.Status == Pending }

// Message is the human-readable error, empty when there is none.
func (r Resource[T]) Message() string {
	return api.Message(r.Err, "Something went wrong")
}

// Match dispatches on the status. Every handler is mandatory so callers
// cannot forget a state.
func Match[T, R any](
	r Resource[T],
	idle func() R,
	pending func(stale T) R,
	ok func(data T) R,
	failed func(stale T, err error) R,
) R {
	switch r.Status {
	case Pending:
		return pending(r.Data)
	case Ok:
		return ok(r.Data)
	case Failed:
		return failed(r.Data, r.Err)
	default:
		return idle()
	}
}

// region tracks one Resource and the tickets of requests against it.
// Tickets increase monotonically; floor is the newest ticket whose
// replace-kind response was applied (or the point of the last reset).
// A replace-kind response at or below the floor is stale, and so is any
// response issued before the last reset.
type region[T any] struct {
	res      Resource[T]
	issued   uint64
	floor    uint64
	epoch    uint64
	inflight int
	// loaded is set once a response has been folded in since the last reset.
	loaded bool
}

type ticket struct {
	seq   uint64
	epoch uint64
}

func (r *region[T]) begin() ticket {
	r.issued++
	r.inflight++
	r.res.Status = Pending
	r.res.Err = nil
	return ticket{seq: r.issued, epoch: r.epoch}
}

func (r *region[T]) stale(t ticket, replace bool) bool {
	return t.epoch != r.epoch || (replace && t.seq <= r.floor)
}

func (r *region[T]) settle() {
	r.inflight--
	switch {
	case r.inflight > 0:
		r.res.Status = Pending
	case r.res.Err != nil:
		r.res.Status = Failed
	case r.loaded:
		r.res.Status = Ok
	default:
		r.res.Status = Idle
	}
}

// reset drops data and makes every in-flight response stale.
func (r *region[T]) reset() {
	var zero T
	r.res = Resource[T]{Data: zero}
	r.floor = r.issued
	r.epoch++
	r.loaded = false
	if r.inflight > 0 {
		r.res.Status = Pending
	}
}

func (r *region[T]) clearError() {
	r.res.Err = nil
	if r.res.Status == Failed {
		r.res.Status = Idle
		if r.loaded {
			r.res.Status = Ok
		}
	}
}

// step describes one remote operation against a region.
type step[T, R any] struct {
	slice   string
	op      string
	replace bool
	call    func(ctx context.Context) (R, error)
	// fold merges a fulfilled result into the region data; runs under mu.
	fold func(data *T, result R)
	// reject runs under mu when a non-stale request fails.
	reject func(data *T, err error)
	// done runs under mu after every response, stale ones included.
	done func()
}

// run applies the requested/fulfilled/rejected contract around st.call.
func run[T, R any](ctx context.Context, s *Store, mu *sync.Mutex, reg *region[T], st step[T, R]) (R, error) {
	mu.Lock()
	tk := reg.begin()
	mu.Unlock()
	s.emit(Change{Slice: st.slice, Operation: st.op, Status: Pending})

	result, err := st.call(ctx)

	mu.Lock()
	stale := reg.stale(tk, st.replace)
	if !stale {
		if err != nil {
			reg.res.Err = err
			if st.reject != nil {
				st.reject(&reg.res.Data, err)
			}
		} else {
			reg.res.Err = nil
			reg.loaded = true
			st.fold(&reg.res.Data, result)
			if st.replace {
				reg.floor = tk.seq
			}
		}
	}
	reg.settle()
	if st.done != nil {
		st.done()
	}
	status := reg.res.Status
	mu.Unlock()
	s.emit(Change{Slice: st.slice, Operation: st.op, Status: status})

	switch {
	case stale:
		s.logger.Debug("dropped stale response",
			zap.String("slice", st.slice),
			zap.String("op", st.op),
			zap.Uint64("ticket", tk.seq),
			zap.Error(err))
		middlewares.RecordSliceOperation(st.slice, st.op, middlewares.OutcomeSuperseded)
		var zero R
		return zero, ErrSuperseded
	case err != nil:
		middlewares.RecordSliceOperation(st.slice, st.op, middlewares.OutcomeError)
		return result, err
	default:
		middlewares.RecordSliceOperation(st.slice, st.op, middlewares.OutcomeSuccess)
		return result, nil
	}
}

func (r *region[T]) snapshot(clone func(T) T) Resource[T] {
	out := r.res
	out.Data = clone(r.res.Data)
	return out
}

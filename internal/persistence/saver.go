package persistence

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
)

// ErrSaverClosed is reported to submissions made after Close.
var ErrSaverClosed = errors.New("persistence: saver closed")

// Result is delivered to the callback of every submission.
type Result struct {
	PlanID   string             `json:"planId"`
	Document floorplan.Document `json:"document"`
	Err      error              `json:"-"`
	// Superseded is set when a newer submission for the same plan replaced
	// this one before it was written.
	Superseded bool `json:"superseded,omitempty"`
}

// Callback receives the outcome of a submission. It runs on a saver
// goroutine and must not block for long.
type Callback func(Result)

type saveReq struct {
	planID string
	state  floorplan.State
	cb     Callback
}

// Saver writes plans in the background. Saves of one plan are serialized:
// while one is in flight, later submissions queue and only the newest queued
// one is written.
//
// Concurrency model: a single loop goroutine owns the in-flight and queued
// maps. Public methods talk to it through channels.
type Saver struct {
	adapter *Adapter
	timeout time.Duration
	logger  *slog.Logger

	submitCh chan saveReq
	doneCh   chan string

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewSaver starts a saver writing through adapter. Each write is bounded by
// timeout.
func NewSaver(adapter *Adapter, timeout time.Duration, logger *slog.Logger) *Saver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Saver{
		adapter:  adapter,
		timeout:  timeout,
		logger:   logger,
		submitCh: make(chan saveReq),
		doneCh:   make(chan string),
		stopCh:   make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Saver) run() {
	defer close(s.stopped)

	inflight := make(map[string]bool)
	queued := make(map[string]saveReq)
	stopCh := s.stopCh
	stopping := false

	for {
		if stopping && len(inflight) == 0 {
			return
		}
		select {
		case <-stopCh:
			stopping = true
			stopCh = nil

		case req := <-s.submitCh:
			if !inflight[req.planID] {
				inflight[req.planID] = true
				go s.write(req)
				continue
			}
			if prev, ok := queued[req.planID]; ok {
				go notify(prev.cb, Result{PlanID: prev.planID, Superseded: true})
			}
			queued[req.planID] = req

		case id := <-s.doneCh:
			next, ok := queued[id]
			if !ok {
				delete(inflight, id)
				continue
			}
			delete(queued, id)
			go s.write(next)
		}
	}
}

func (s *Saver) write(req saveReq) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	doc, err := s.adapter.Save(ctx, req.planID, req.state)
	cancel()
	if err != nil {
		s.logger.Error("plan save failed",
			slog.String("plan", req.planID),
			slog.String("error", err.Error()),
		)
	}
	notify(req.cb, Result{PlanID: req.planID, Document: doc, Err: err})
	s.doneCh <- req.planID
}

func notify(cb Callback, r Result) {
	if cb != nil {
		cb(r)
	}
}

// Submit queues state for saving as planID. The state is copied, so later
// edits do not leak into the save. cb may be nil.
func (s *Saver) Submit(planID string, state floorplan.State, cb Callback) {
	req := saveReq{planID: planID, state: state.Clone(), cb: cb}
	if s.closed.Load() {
		notify(cb, Result{PlanID: planID, Err: ErrSaverClosed})
		return
	}
	select {
	case s.submitCh <- req:
	case <-s.stopped:
		notify(cb, Result{PlanID: planID, Err: ErrSaverClosed})
	}
}

// SubmitWait submits state and waits for its outcome. If ctx ends first the
// save still happens and ctx.Err() is returned.
func (s *Saver) SubmitWait(ctx context.Context, planID string, state floorplan.State) (Result, error) {
	ch := make(chan Result, 1)
	s.Submit(planID, state, func(r Result) { ch <- r })
	select {
	case r := <-ch:
		return r, r.Err
	case <-ctx.Done():
		return Result{PlanID: planID}, ctx.Err()
	}
}

// Close stops accepting work and waits for pending saves to finish.
func (s *Saver) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
	<-s.stopped
}

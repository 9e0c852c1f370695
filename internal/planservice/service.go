// Package planservice keeps one editor session per open plan and connects
// sessions to persistence and event publishing.
package planservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/catalog"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/editor"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/outline"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/persistence"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/render"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/sse"
)

// Publisher receives plan events. *sse.Broker implements it.
type Publisher interface {
	Publish(sse.Event)
	PublishPlanChange(planID string, version uint64, m floorplan.Metrics)
}

// Defaults seeds sessions for plans that were never saved.
type Defaults struct {
	Template     string
	WallHeight   float64
	HistoryLimit int
}

// PlanView is a snapshot of a plan and its editing state.
type PlanView struct {
	PlanID        string            `json:"planId"`
	Version       uint64            `json:"version"`
	State         floorplan.State   `json:"state"`
	Metrics       floorplan.Metrics `json:"metrics"`
	StaleOpenings []string          `json:"staleOpenings"`
	Selected      string            `json:"selected,omitempty"`
	Mode          string            `json:"mode"`
	Notice        string            `json:"notice,omitempty"`
	CanUndo       bool              `json:"canUndo"`
	CanRedo       bool              `json:"canRedo"`
}

type plan struct {
	mu      sync.Mutex
	session *editor.Session
}

// Service coordinates editor sessions, persistence and events.
type Service struct {
	catalog  catalog.Source
	adapter  *persistence.Adapter
	saver    *persistence.Saver
	events   Publisher
	defaults Defaults
	logger   *slog.Logger
	newID    func() string

	mu    sync.Mutex
	plans map[string]*plan
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where plan events go.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithDefaults sets the template and settings for new plans.
func WithDefaults(d Defaults) Option {
	return func(s *Service) { s.defaults = d }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDGenerator makes instance and opening ids deterministic.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService creates a plan service.
func NewService(cat catalog.Source, adapter *persistence.Adapter, saver *persistence.Saver, opts ...Option) *Service {
	s := &Service{
		catalog: cat,
		adapter: adapter,
		saver:   saver,
		logger:  slog.Default(),
		plans:   make(map[string]*plan),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// open returns the live plan, loading it from the backend on first use.
func (s *Service) open(ctx context.Context, planID string) (*plan, error) {
	if err := persistence.ValidatePlanID(planID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.plans[planID]; ok {
		return p, nil
	}

	st, found, err := s.adapter.Load(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !found {
		st, err = s.initialState()
		if err != nil {
			return nil, err
		}
	}

	opts := []editor.Option{editor.WithState(st)}
	if s.defaults.HistoryLimit > 0 {
		opts = append(opts, editor.WithHistoryLimit(s.defaults.HistoryLimit))
	}
	if s.newID != nil {
		opts = append(opts, editor.WithIDGenerator(s.newID))
	}
	sess, err := editor.New(s.catalog, opts...)
	if err != nil {
		return nil, err
	}
	s.logger.Info("plan opened",
		slog.String("plan", planID),
		slog.Bool("stored", found),
	)
	p := &plan{session: sess}
	s.plans[planID] = p
	return p, nil
}

func (s *Service) initialState() (floorplan.State, error) {
	st := floorplan.State{
		Vertices:   outline.DefaultOutline(),
		WallHeight: s.defaults.WallHeight,
	}
	if name := s.defaults.Template; name != "" {
		vs, ok := outline.Template(name)
		if !ok {
			return floorplan.State{}, fmt.Errorf("planservice: template %q: %w", name, apperr.ErrNotFound)
		}
		st.Vertices = vs
	}
	if st.WallHeight <= 0 {
		st.WallHeight = floorplan.DefaultWallHeight
	}
	return st, nil
}

// Do runs fn against the plan's session while holding the plan lock. A
// change made by fn is published as plan.changed.
func (s *Service) Do(ctx context.Context, planID string, fn func(*editor.Session) error) error {
	p, err := s.open(ctx, planID)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	before := p.session.Version()
	err = fn(p.session)
	if v := p.session.Version(); v != before && s.events != nil {
		s.events.PublishPlanChange(planID, v, p.session.Metrics())
	}
	return err
}

// View returns the current plan view.
func (s *Service) View(ctx context.Context, planID string) (PlanView, error) {
	var out PlanView
	err := s.Do(ctx, planID, func(sess *editor.Session) error {
		out = viewOf(planID, sess)
		return nil
	})
	return out, err
}

// Apply runs fn and returns the resulting view. Blocked and busy errors are
// still returned, with the view carrying the notice.
func (s *Service) Apply(ctx context.Context, planID string, fn func(*editor.Session) error) (PlanView, error) {
	var out PlanView
	err := s.Do(ctx, planID, func(sess *editor.Session) error {
		err := fn(sess)
		out = viewOf(planID, sess)
		return err
	})
	return out, err
}

func viewOf(planID string, sess *editor.Session) PlanView {
	stale := sess.StaleOpenings()
	if stale == nil {
		stale = []string{}
	}
	return PlanView{
		PlanID:        planID,
		Version:       sess.Version(),
		State:         sess.State(),
		Metrics:       sess.Metrics(),
		StaleOpenings: stale,
		Selected:      sess.Selected(),
		Mode:          sess.Mode().String(),
		Notice:        sess.Notice(),
		CanUndo:       sess.CanUndo(),
		CanRedo:       sess.CanRedo(),
	}
}

// Scene returns the render projection of the plan.
func (s *Service) Scene(ctx context.Context, planID string) (render.Scene, error) {
	var sc render.Scene
	err := s.Do(ctx, planID, func(sess *editor.Session) error {
		sc = sess.Scene()
		return nil
	})
	return sc, err
}

// Save captures the plan and hands it to the saver. With wait, it blocks
// until the write finishes and returns its result.
func (s *Service) Save(ctx context.Context, planID string, wait bool) (persistence.Result, error) {
	var st floorplan.State
	if err := s.Do(ctx, planID, func(sess *editor.Session) error {
		st = sess.State()
		return nil
	}); err != nil {
		return persistence.Result{}, err
	}

	if !wait {
		s.saver.Submit(planID, st, s.publishResult)
		return persistence.Result{PlanID: planID}, nil
	}
	ch := make(chan persistence.Result, 1)
	s.saver.Submit(planID, st, func(r persistence.Result) {
		s.publishResult(r)
		ch <- r
	})
	select {
	case r := <-ch:
		return r, r.Err
	case <-ctx.Done():
		return persistence.Result{PlanID: planID}, ctx.Err()
	}
}

func (s *Service) publishResult(r persistence.Result) {
	if s.events == nil || r.Superseded {
		return
	}
	if r.Err != nil {
		s.events.Publish(sse.Event{Type: sse.EventPlanSaveFailed, Data: map[string]string{
			"planId": r.PlanID,
			"error":  r.Err.Error(),
		}})
		return
	}
	s.events.Publish(sse.Event{Type: sse.EventPlanSaved, Data: persistence.Summarize(&r.Document)})
}

// List returns the stored plans.
func (s *Service) List(ctx context.Context) ([]persistence.Summary, error) {
	return s.adapter.List(ctx)
}

// Revisions returns earlier saves of planID.
func (s *Service) Revisions(ctx context.Context, planID string) ([]persistence.Summary, error) {
	if err := persistence.ValidatePlanID(planID); err != nil {
		return nil, err
	}
	return s.adapter.Revisions(ctx, planID)
}

// Delete removes the stored plan and drops its live session. Deleting a plan
// that only exists in memory just drops the session.
func (s *Service) Delete(ctx context.Context, planID string) error {
	if err := persistence.ValidatePlanID(planID); err != nil {
		return err
	}
	s.mu.Lock()
	_, live := s.plans[planID]
	delete(s.plans, planID)
	s.mu.Unlock()

	err := s.adapter.Delete(ctx, planID)
	if live && errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

// Discard drops the live session so the next access reloads from storage.
func (s *Service) Discard(planID string) {
	s.mu.Lock()
	delete(s.plans, planID)
	s.mu.Unlock()
}

// Live lists the ids of plans with a live session.
func (s *Service) Live() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.plans))
	for id := range s.plans {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

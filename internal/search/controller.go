// Package search holds the paginated, filterable branch result set behind
// the search screen.
package search

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/directory"
)

// ErrSuperseded is returned by a command whose response arrived after a
// newer request replaced it. The response was discarded.
var ErrSuperseded = errors.New("search: response superseded by a newer request")

// Lister fetches one page of branches
type Lister interface {
	ListBranches(ctx context.Context, q directory.ListQuery) (*directory.Page, error)
}

// tag identifies one outstanding request
type tag struct {
	query   string
	company string
	page    int
	seq     uint64
}

// Controller serializes every command against one State. Fetching commands
// block for the duration of their request, with the lock released so that
// other commands can run (and supersede) meanwhile.
//
// Subscribers are called outside the state lock, in registration order, and must not
// call back into the Controller synchronously.
type Controller struct {
	lister Lister
	logger *zap.Logger

	mu    sync.Mutex
	state State
	// active is the query and company the current Items belong to;
	// QueryText may have been edited since without a search
	active   tag
	inflight *tag
	seq      uint64
	version  uint64

	listeners    map[int]func(ViewModel)
	nextListener int

	notifyMu  sync.Mutex
	delivered uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithInitialQuery seeds the query text, e.g. from a navigation parameter
func WithInitialQuery(text string) Option {
	return func(c *Controller) { c.state.QueryText = text }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l.Named("search") }
}

// New creates an idle Controller with no results
func New(lister Lister, opts ...Option) *Controller {
	c := &Controller{
		lister:    lister,
		logger:    zap.NewNop(),
		state:     State{Phase: PhaseIdle},
		listeners: map[int]func(ViewModel){},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the current view model
func (c *Controller) View() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.view()
}

// Subscribe registers fn to receive the view model after every state change
func (c *Controller) Subscribe(fn func(ViewModel)) (cancel func()) {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// SetQueryText changes the query text without fetching
func (c *Controller) SetQueryText(text string) {
	c.mu.Lock()
	if c.state.QueryText == text {
		c.mu.Unlock()
		return
	}
	c.state.QueryText = text
	c.changed()
}

// Search starts over with the current query text and company
func (c *Controller) Search(ctx context.Context) error {
	return c.fresh(ctx, PhaseLoadingInitial, nil)
}

// SetCompanyFilter selects company ("" for all) and searches immediately
func (c *Controller) SetCompanyFilter(ctx context.Context, company string) error {
	return c.fresh(ctx, PhaseLoadingInitial, func(s *State) { s.SelectedCompany = company })
}

// ClearFilters empties the query text and company and searches
func (c *Controller) ClearFilters(ctx context.Context) error {
	return c.fresh(ctx, PhaseLoadingInitial, func(s *State) {
		s.QueryText = ""
		s.SelectedCompany = ""
	})
}

// ClearQuery empties the query text and searches with the current company
func (c *Controller) ClearQuery(ctx context.Context) error {
	return c.fresh(ctx, PhaseLoadingInitial, func(s *State) { s.QueryText = "" })
}

// Refresh repeats the search for the current query text and company
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fresh(ctx, PhaseRefreshing, nil)
}

// LoadNextPage fetches the page after the last merged one. It does nothing
// unless more pages exist and no request is outstanding. After a failed
// page it retries that same page.
func (c *Controller) LoadNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase.loading() || !c.state.HasMore {
		c.mu.Unlock()
		return nil
	}

	c.state.Phase = PhaseLoadingMore
	c.state.Err = nil
	t := c.issue(c.active.query, c.active.company, c.state.Page+1)
	c.changed()

	return c.fetch(ctx, t)
}

// fresh resets the result set and fetches page 1. Searches started while a
// next page is loading supersede it; any other outstanding request wins.
func (c *Controller) fresh(ctx context.Context, phase Phase, mutate func(*State)) error {
	c.mu.Lock()
	switch c.state.Phase {
	case PhaseLoadingInitial, PhaseRefreshing:
		c.mu.Unlock()
		return nil
	case PhaseLoadingMore:
		if phase == PhaseRefreshing {
			c.mu.Unlock()
			return nil
		}
		c.logger.Debug("superseding next page request", zap.Int("page", c.inflight.page))
	}

	if mutate != nil {
		mutate(&c.state)
	}
	c.state.Items = nil
	c.state.Total = 0
	c.state.HasMore = false
	c.state.Page = 1
	c.state.Phase = phase
	c.state.Err = nil
	t := c.issue(c.state.QueryText, c.state.SelectedCompany, 1)
	c.active = t
	c.changed()

	return c.fetch(ctx, t)
}

// issue records a new outstanding request. Caller holds mu.
func (c *Controller) issue(query, company string, page int) tag {
	c.seq++
	t := tag{query: query, company: company, page: page, seq: c.seq}
	c.inflight = &t
	return t
}

func (c *Controller) fetch(ctx context.Context, t tag) error {
	page, err := c.lister.ListBranches(ctx, directory.ListQuery{
		Search:   t.query,
		Company:  t.company,
		Page:     t.page,
		PageSize: PageSize,
	})

	c.mu.Lock()
	if c.inflight == nil || *c.inflight != t {
		c.mu.Unlock()
		c.logger.Debug("discarding stale response",
			zap.String("query", t.query),
			zap.String("company", t.company),
			zap.Int("page", t.page),
		)
		return ErrSuperseded
	}
	c.inflight = nil

	if err != nil {
		c.state.Phase = PhaseError
		c.state.Err = err
		c.changed()
		c.logger.Warn("branch listing failed", zap.Int("page", t.page), zap.Error(err))
		return err
	}

	c.state.Items = merge(c.state.Items, t.page, page.Items)
	c.state.Total = page.Total
	c.state.HasMore = page.Fetched == PageSize
	c.state.Page = t.page
	c.state.Phase = PhaseIdle
	c.changed()
	return nil
}

// changed publishes the state and releases mu, which the caller holds
func (c *Controller) changed() {
	c.version++
	version := c.version
	vm := c.state.view()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(ViewModel), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.mu.Unlock()

	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	// A slower goroutine may arrive here with an older view; drop it
	if version <= c.delivered {
		return
	}
	c.delivered = version
	for _, fn := range listeners {
		fn(vm)
	}
}

// Package detail loads a single branch for the detail screen.
package detail

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/directory"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

var (
	ErrNotReady   = errors.New("detail: branch not loaded")
	ErrNoPhone    = errors.New("detail: branch has no phone number")
	ErrSuperseded = errors.New("detail: response superseded by a newer load")
)

// Phase is the lifecycle of one detail load
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Fetcher loads one branch by id
type Fetcher interface {
	GetBranch(ctx context.Context, id string) (*directory.Branch, error)
}

// URLOpener hands a URL (tel:, https:) to the platform
type URLOpener interface {
	OpenURL(ctx context.Context, rawURL string) error
}

// State is the detail of one branch id. Branch is set only in PhaseReady.
type State struct {
	ID     string
	Phase  Phase
	Branch *directory.Branch
	Err    error
}

// ErrorMessage is the user-facing text for a failed load
func (s State) ErrorMessage() string {
	return directory.UserMessage(s.Err, directory.MsgDetailFailed)
}

// Loader fetches a branch once per id
type Loader struct {
	fetcher Fetcher
	opener  URLOpener
	logger  *zap.Logger

	mu    sync.Mutex
	state State
	seq   uint64
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(d *Loader) { d.logger = l.Named("detail") }
}

// NewLoader creates an idle Loader
func NewLoader(fetcher Fetcher, opener URLOpener, opts ...Option) *Loader {
	d := &Loader{
		fetcher: fetcher,
		opener:  opener,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current state
func (d *Loader) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Load fetches id. Loading the id that is already loading or loaded does
// nothing; a different id replaces it and discards the older response.
func (d *Loader) Load(ctx context.Context, id string) error {
	d.mu.Lock()
	if id == d.state.ID && (d.state.Phase == PhaseLoading || d.state.Phase == PhaseReady) {
		d.mu.Unlock()
		return nil
	}
	return d.start(ctx, id)
}

// Retry reloads the current id after a failure
func (d *Loader) Retry(ctx context.Context) error {
	d.mu.Lock()
	if d.state.Phase != PhaseError {
		d.mu.Unlock()
		return nil
	}
	return d.start(ctx, d.state.ID)
}

// start runs one fetch. Caller holds mu.
func (d *Loader) start(ctx context.Context, id string) error {
	d.seq++
	seq := d.seq
	d.state = State{ID: id, Phase: PhaseLoading}
	d.mu.Unlock()

	b, err := d.fetcher.GetBranch(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return ErrSuperseded
	}
	if err != nil {
		d.state = State{ID: id, Phase: PhaseError, Err: err}
		d.logger.Warn("branch load failed", zap.String("id", id), zap.Error(err))
		return err
	}
	d.state = State{ID: id, Phase: PhaseReady, Branch: b}
	return nil
}

func (d *Loader) ready() (*directory.Branch, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Phase != PhaseReady {
		return nil, ErrNotReady
	}
	return d.state.Branch, nil
}

// Call dials the branch phone number
func (d *Loader) Call(ctx context.Context) error {
	b, err := d.ready()
	if err != nil {
		return err
	}
	phone := TelURL(b.Phone)
	if phone == "" {
		return ErrNoPhone
	}
	return d.opener.OpenURL(ctx, phone)
}

// OpenMaps shows the branch on a map
func (d *Loader) OpenMaps(ctx context.Context) error {
	b, err := d.ready()
	if err != nil {
		return err
	}
	return d.opener.OpenURL(ctx, MapsURL(*b))
}

// TelURL builds a tel: URL from a free-text phone number, or "" when empty
func TelURL(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)
	if digits == "" {
		return ""
	}
	return "tel:" + digits
}

// MapsURL returns the branch maps link, deriving a search link from the
// name and address when the record has none
func MapsURL(b directory.Branch) string {
	if b.MapsURL != "" {
		return b.MapsURL
	}
	return mapsSearchURL + url.QueryEscape(strings.TrimSpace(b.Name+" "+b.Address))
}

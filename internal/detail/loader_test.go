package detail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/kargolojik/internal/directory"
)

type fetchResult struct {
	branch *directory.Branch
	err    error
}

// gatedFetcher blocks each GetBranch until the test releases that id
type gatedFetcher struct {
	calls   chan string
	replies map[string]chan fetchResult
}

func newGatedFetcher(ids ...string) *gatedFetcher {
	f := &gatedFetcher{calls: make(chan string, 8), replies: map[string]chan fetchResult{}}
	for _, id := range ids {
		f.replies[id] = make(chan fetchResult, 1)
	}
	return f
}

func (f *gatedFetcher) GetBranch(_ context.Context, id string) (*directory.Branch, error) {
	f.calls <- id
	r := <-f.replies[id]
	return r.branch, r.err
}

func (f *gatedFetcher) waitCall(t *testing.T) string {
	t.Helper()
	select {
	case id := <-f.calls:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("expected a fetch")
		return ""
	}
}

// funcFetcher answers synchronously
type funcFetcher func(id string) (*directory.Branch, error)

func (f funcFetcher) GetBranch(_ context.Context, id string) (*directory.Branch, error) {
	return f(id)
}

type recordingOpener struct {
	urls []string
	err  error
}

func (o *recordingOpener) OpenURL(_ context.Context, rawURL string) error {
	o.urls = append(o.urls, rawURL)
	return o.err
}

func notFound(id string) (*directory.Branch, error) {
	return nil, &directory.Error{Op: "get branch", StatusCode: 404, Kind: directory.ErrNotFound}
}

func TestLoadMissingBranch(t *testing.T) {
	d := NewLoader(funcFetcher(notFound), &recordingOpener{})

	err := d.Load(context.Background(), "missing-id")
	assert.ErrorIs(t, err, directory.ErrNotFound)

	s := d.State()
	assert.Equal(t, PhaseError, s.Phase)
	assert.Nil(t, s.Branch)
	assert.Equal(t, directory.MsgNotFound, s.ErrorMessage())

	assert.ErrorIs(t, d.Call(context.Background()), ErrNotReady)
	assert.ErrorIs(t, d.OpenMaps(context.Background()), ErrNotReady)
}

func TestLoadReady(t *testing.T) {
	calls := 0
	d := NewLoader(funcFetcher(func(id string) (*directory.Branch, error) {
		calls++
		return &directory.Branch{ID: id, Name: "Aras Kargo Milas"}, nil
	}), &recordingOpener{})
	ctx := context.Background()

	require.NoError(t, d.Load(ctx, "1"))
	require.NoError(t, d.Load(ctx, "1"))
	assert.Equal(t, 1, calls, "same id loads once")

	s := d.State()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, "Aras Kargo Milas", s.Branch.Name)
	assert.Empty(t, s.ErrorMessage())

	require.NoError(t, d.Load(ctx, "2"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, "2", d.State().Branch.ID)
}

func TestNewIDDiscardsOlderResponse(t *testing.T) {
	f := newGatedFetcher("old", "new")
	d := NewLoader(f, &recordingOpener{})

	oldDone := make(chan error, 1)
	go func() { oldDone <- d.Load(context.Background(), "old") }()
	assert.Equal(t, "old", f.waitCall(t))

	newDone := make(chan error, 1)
	go func() { newDone <- d.Load(context.Background(), "new") }()
	assert.Equal(t, "new", f.waitCall(t))

	f.replies["new"] <- fetchResult{branch: &directory.Branch{ID: "new"}}
	require.NoError(t, <-newDone)

	f.replies["old"] <- fetchResult{branch: &directory.Branch{ID: "old"}}
	assert.ErrorIs(t, <-oldDone, ErrSuperseded)

	s := d.State()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Equal(t, "new", s.Branch.ID)
}

func TestRepeatedLoadWhileLoadingIsNoOp(t *testing.T) {
	f := newGatedFetcher("1")
	d := NewLoader(f, &recordingOpener{})

	done := make(chan error, 1)
	go func() { done <- d.Load(context.Background(), "1") }()
	f.waitCall(t)

	assert.NoError(t, d.Load(context.Background(), "1"))
	assert.Equal(t, PhaseLoading, d.State().Phase)
	assert.Len(t, f.calls, 0)

	f.replies["1"] <- fetchResult{branch: &directory.Branch{ID: "1"}}
	require.NoError(t, <-done)
}

func TestRetry(t *testing.T) {
	fail := true
	d := NewLoader(funcFetcher(func(id string) (*directory.Branch, error) {
		if fail {
			return nil, &directory.Error{Op: "get branch", Kind: directory.ErrNetwork}
		}
		return &directory.Branch{ID: id}, nil
	}), &recordingOpener{})
	ctx := context.Background()

	assert.NoError(t, d.Retry(ctx), "nothing to retry")
	assert.Equal(t, PhaseIdle, d.State().Phase)

	assert.ErrorIs(t, d.Load(ctx, "7"), directory.ErrNetwork)
	assert.Equal(t, directory.MsgNetwork, d.State().ErrorMessage())

	fail = false
	require.NoError(t, d.Retry(ctx))
	assert.Equal(t, PhaseReady, d.State().Phase)
	assert.Equal(t, "7", d.State().Branch.ID)

	assert.NoError(t, d.Retry(ctx), "retry only runs after an error")
}

func TestServerFailureMessage(t *testing.T) {
	d := NewLoader(funcFetcher(func(string) (*directory.Branch, error) {
		return nil, &directory.Error{Op: "get branch", StatusCode: 500, Kind: directory.ErrServer}
	}), &recordingOpener{})

	_ = d.Load(context.Background(), "1")
	assert.Equal(t, directory.MsgDetailFailed, d.State().ErrorMessage())
}

func TestCall(t *testing.T) {
	phone := "0 216 346 12 34"
	opener := &recordingOpener{}
	d := NewLoader(funcFetcher(func(id string) (*directory.Branch, error) {
		return &directory.Branch{ID: id, Phone: phone}, nil
	}), opener)
	ctx := context.Background()

	require.NoError(t, d.Load(ctx, "1"))
	require.NoError(t, d.Call(ctx))
	assert.Equal(t, []string{"tel:02163461234"}, opener.urls)

	phone = "  "
	require.NoError(t, d.Load(ctx, "2"))
	assert.ErrorIs(t, d.Call(ctx), ErrNoPhone)
	assert.Len(t, opener.urls, 1)
}

func TestOpenMaps(t *testing.T) {
	opener := &recordingOpener{}
	branches := map[string]*directory.Branch{
		"with":    {ID: "with", MapsURL: "https://maps.example/x"},
		"without": {ID: "without", Name: "PTT Kargo Kadıköy", Address: "Moda Cad. No: 45"},
	}
	d := NewLoader(funcFetcher(func(id string) (*directory.Branch, error) { return branches[id], nil }), opener)
	ctx := context.Background()

	require.NoError(t, d.Load(ctx, "with"))
	require.NoError(t, d.OpenMaps(ctx))
	require.NoError(t, d.Load(ctx, "without"))
	require.NoError(t, d.OpenMaps(ctx))

	assert.Equal(t, []string{
		"https://maps.example/x",
		"https://www.google.com/maps/search/?api=1&query=PTT+Kargo+Kad%C4%B1k%C3%B6y+Moda+Cad.+No%3A+45",
	}, opener.urls)
}

func TestOpenerErrorIsReturned(t *testing.T) {
	opener := &recordingOpener{err: errors.New("no browser")}
	d := NewLoader(funcFetcher(func(id string) (*directory.Branch, error) {
		return &directory.Branch{ID: id, Phone: "1"}, nil
	}), opener)

	require.NoError(t, d.Load(context.Background(), "1"))
	assert.EqualError(t, d.Call(context.Background()), "no browser")
}

package search

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/directory"
)

const waitFor = 2 * time.Second

type reply struct {
	page *directory.Page
	err  error
}

type call struct {
	q     directory.ListQuery
	reply chan reply
}

func (c *call) respond(items []directory.Branch, total int) {
	c.reply <- reply{page: &directory.Page{Items: items, Total: total, Fetched: len(items)}}
}

func (c *call) fail(err error) {
	c.reply <- reply{err: err}
}

// fakeLister hands every request to the test, which answers it explicitly
type fakeLister struct {
	calls chan *call
}

func newFakeLister() *fakeLister {
	return &fakeLister{calls: make(chan *call, 8)}
}

func (f *fakeLister) ListBranches(_ context.Context, q directory.ListQuery) (*directory.Page, error) {
	c := &call{q: q, reply: make(chan reply, 1)}
	f.calls <- c
	r := <-c.reply
	return r.page, r.err
}

func (f *fakeLister) next(t *testing.T) *call {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(waitFor):
		t.Fatal("expected a listing request")
		return nil
	}
}

func (f *fakeLister) none(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected listing request %+v", c.q)
	default:
	}
}

func run(fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn(context.Background()) }()
	return done
}

func result(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(waitFor):
		t.Fatal("command did not return")
		return nil
	}
}

func branches(prefix string, from, n int) []directory.Branch {
	out := make([]directory.Branch, n)
	for i := range out {
		id := fmt.Sprintf("%s-%d", prefix, from+i)
		out[i] = directory.Branch{ID: id, Name: "Şube " + id}
	}
	return out
}

func ids(items []directory.Branch) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.ID
	}
	return out
}

func assertNoDuplicates(t *testing.T, items []directory.Branch) {
	t.Helper()
	seen := map[string]bool{}
	for _, b := range items {
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
	}
}

// loaded returns a controller that has merged page 1 with the given items
func loaded(t *testing.T, lister *fakeLister, items []directory.Branch, total int) *Controller {
	t.Helper()
	c := New(lister, WithLogger(zap.NewNop()))
	done := run(c.Search)
	lister.next(t).respond(items, total)
	require.NoError(t, result(t, done))
	return c
}

func TestEmptyResult(t *testing.T) {
	lister := newFakeLister()
	c := New(lister)
	c.SetQueryText("Kadıköy")

	done := run(c.Search)
	req := lister.next(t)
	assert.Equal(t, directory.ListQuery{Search: "Kadıköy", Page: 1, PageSize: 20}, req.q)

	assert.True(t, c.View().IsInitialLoading)
	assert.False(t, c.View().IsEmpty, "not empty while loading")

	req.respond(nil, 0)
	require.NoError(t, result(t, done))

	vm := c.View()
	assert.True(t, vm.IsEmpty)
	assert.Equal(t, 0, vm.Total)
	assert.Empty(t, vm.ErrorMessage)
	assert.False(t, vm.HasMore)
}

func TestPagingThroughResults(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 45)
	assert.True(t, c.State().HasMore)

	done := run(c.LoadNextPage)
	req := lister.next(t)
	assert.Equal(t, 2, req.q.Page)
	assert.True(t, c.View().IsLoadingMore)
	req.respond(branches("b", 20, 20), 45)
	require.NoError(t, result(t, done))

	s := c.State()
	assert.Len(t, s.Items, 40)
	assert.True(t, s.HasMore)
	assert.Equal(t, 2, s.Page)

	done = run(c.LoadNextPage)
	req = lister.next(t)
	assert.Equal(t, 3, req.q.Page)
	req.respond(branches("b", 40, 5), 45)
	require.NoError(t, result(t, done))

	s = c.State()
	assert.Len(t, s.Items, 45)
	assert.False(t, s.HasMore)
	assert.Equal(t, 45, s.Total)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, ids(branches("b", 0, 45)), ids(s.Items))
	assertNoDuplicates(t, s.Items)
}

func TestFullLastPageCostsOneEmptyFetch(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 20)
	assert.True(t, c.State().HasMore)

	done := run(c.LoadNextPage)
	lister.next(t).respond(nil, 20)
	require.NoError(t, result(t, done))

	s := c.State()
	assert.False(t, s.HasMore)
	assert.Len(t, s.Items, 20)
	assert.Equal(t, 2, s.Page)
}

func TestHasMoreCountsDroppedRecords(t *testing.T) {
	lister := newFakeLister()
	c := New(lister)

	done := run(c.Search)
	lister.next(t).reply <- reply{page: &directory.Page{Items: branches("b", 0, 19), Total: 45, Fetched: 20}}
	require.NoError(t, result(t, done))

	assert.True(t, c.State().HasMore)
}

func TestCompanyChangeSupersedesNextPage(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("all", 0, 20), 45)

	page2 := run(c.LoadNextPage)
	stale := lister.next(t)
	assert.Equal(t, 2, stale.q.Page)

	filtered := run(func(ctx context.Context) error { return c.SetCompanyFilter(ctx, "Aras Kargo") })
	fresh := lister.next(t)
	assert.Equal(t, directory.ListQuery{Company: "Aras Kargo", Page: 1, PageSize: 20}, fresh.q)

	fresh.respond(branches("aras", 0, 3), 3)
	require.NoError(t, result(t, filtered))

	before := c.State()
	stale.respond(branches("all", 20, 20), 45)
	assert.ErrorIs(t, result(t, page2), ErrSuperseded)

	s := c.State()
	assert.Equal(t, before, s, "a stale response never mutates state")
	assert.Equal(t, ids(branches("aras", 0, 3)), ids(s.Items))
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Equal(t, "Aras Kargo", s.SelectedCompany)
	assert.Equal(t, 1, s.Page)
}

func TestStaleResponseArrivingFirstIsDiscarded(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("all", 0, 20), 45)

	page2 := run(c.LoadNextPage)
	stale := lister.next(t)

	c.SetQueryText("Milas")
	searched := run(c.Search)
	fresh := lister.next(t)
	assert.Equal(t, "Milas", fresh.q.Search)

	stale.fail(&directory.Error{Op: "list branches", Kind: directory.ErrServer})
	assert.ErrorIs(t, result(t, page2), ErrSuperseded)

	s := c.State()
	assert.Equal(t, PhaseLoadingInitial, s.Phase, "stale failure does not flip the phase")
	assert.Empty(t, s.Items)
	assert.NoError(t, s.Err)

	fresh.respond(branches("milas", 0, 2), 2)
	require.NoError(t, result(t, searched))
	assert.Equal(t, ids(branches("milas", 0, 2)), ids(c.State().Items))
}

func TestCommandsRejectedWhileSearching(t *testing.T) {
	lister := newFakeLister()
	c := New(lister)

	done := run(c.Search)
	req := lister.next(t)
	before := c.State()

	ctx := context.Background()
	assert.NoError(t, c.Search(ctx))
	assert.NoError(t, c.Refresh(ctx))
	assert.NoError(t, c.SetCompanyFilter(ctx, "PTT Kargo"))
	assert.NoError(t, c.ClearFilters(ctx))
	assert.NoError(t, c.LoadNextPage(ctx))
	lister.none(t)
	assert.Equal(t, before, c.State())

	req.respond(branches("b", 0, 1), 1)
	require.NoError(t, result(t, done))
	assert.Empty(t, c.State().SelectedCompany)
}

func TestRefreshRejectedWhileLoadingMore(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 45)

	page2 := run(c.LoadNextPage)
	req := lister.next(t)

	assert.NoError(t, c.Refresh(context.Background()))
	lister.none(t)
	assert.Equal(t, PhaseLoadingMore, c.State().Phase)

	req.respond(branches("b", 20, 20), 45)
	require.NoError(t, result(t, page2))
}

func TestLoadNextPageNoOpLeavesStateUntouched(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 7), 7)

	var notified int
	cancel := c.Subscribe(func(ViewModel) { notified++ })
	defer cancel()

	before := c.State()
	require.False(t, before.HasMore)
	assert.NoError(t, c.LoadNextPage(context.Background()))
	lister.none(t)
	assert.Equal(t, before, c.State())
	assert.Zero(t, notified)
}

func TestNextPageFailureKeepsItemsAndRetriesSamePage(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 45)

	boom := &directory.Error{Op: "list branches", StatusCode: 500, Kind: directory.ErrServer}
	done := run(c.LoadNextPage)
	lister.next(t).fail(boom)
	assert.ErrorIs(t, result(t, done), directory.ErrServer)

	s := c.State()
	assert.Equal(t, PhaseError, s.Phase)
	assert.Len(t, s.Items, 20)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, directory.MsgListFailed, c.View().ErrorMessage)
	assert.False(t, c.View().IsEmpty)

	done = run(c.LoadNextPage)
	req := lister.next(t)
	assert.Equal(t, 2, req.q.Page)
	req.respond(branches("b", 20, 20), 45)
	require.NoError(t, result(t, done))

	s = c.State()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Len(t, s.Items, 40)
	assert.Empty(t, c.View().ErrorMessage)
}

func TestSearchFailure(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 45)

	done := run(c.Refresh)
	req := lister.next(t)
	assert.True(t, c.View().IsRefreshing)
	assert.Empty(t, c.View().Items)
	req.fail(&directory.Error{Op: "list branches", Kind: directory.ErrNetwork})
	assert.ErrorIs(t, result(t, done), directory.ErrNetwork)

	s := c.State()
	assert.Equal(t, PhaseError, s.Phase)
	assert.Empty(t, s.Items)
	assert.False(t, s.HasMore)
	assert.Equal(t, directory.MsgNetwork, c.View().ErrorMessage)

	assert.NoError(t, c.LoadNextPage(context.Background()))
	lister.none(t)

	done = run(c.Search)
	lister.next(t).respond(branches("b", 0, 3), 3)
	require.NoError(t, result(t, done))
	assert.Equal(t, PhaseIdle, c.State().Phase)
}

func TestDuplicateIDReplacedInPlace(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 45)

	page2 := branches("b", 20, 19)
	page2 = append(page2, directory.Branch{ID: "b-5", Name: "güncel"})

	done := run(c.LoadNextPage)
	lister.next(t).respond(page2, 45)
	require.NoError(t, result(t, done))

	s := c.State()
	assert.Len(t, s.Items, 39)
	assert.Equal(t, "güncel", s.Items[5].Name)
	assertNoDuplicates(t, s.Items)
	assert.True(t, s.HasMore, "fetched count, not merged count, decides hasMore")
}

func TestClearFilters(t *testing.T) {
	lister := newFakeLister()
	c := New(lister, WithInitialQuery("Bodrum"))

	done := run(func(ctx context.Context) error { return c.SetCompanyFilter(ctx, "PTT Kargo") })
	req := lister.next(t)
	assert.Equal(t, directory.ListQuery{Search: "Bodrum", Company: "PTT Kargo", Page: 1, PageSize: 20}, req.q)
	req.respond(branches("ptt", 0, 20), 30)
	require.NoError(t, result(t, done))

	done = run(c.LoadNextPage)
	lister.next(t).respond(branches("ptt", 20, 10), 30)
	require.NoError(t, result(t, done))

	done = run(c.ClearFilters)
	req = lister.next(t)
	assert.Equal(t, directory.ListQuery{Page: 1, PageSize: 20}, req.q)
	req.respond(branches("all", 0, 20), 100)
	require.NoError(t, result(t, done))

	s := c.State()
	assert.Empty(t, s.QueryText)
	assert.Empty(t, s.SelectedCompany)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, ids(branches("all", 0, 20)), ids(s.Items))
}

func TestClearQueryKeepsCompany(t *testing.T) {
	lister := newFakeLister()
	c := New(lister, WithInitialQuery("Konak"))

	done := run(func(ctx context.Context) error { return c.SetCompanyFilter(ctx, "MNG Kargo") })
	lister.next(t).respond(nil, 0)
	require.NoError(t, result(t, done))

	done = run(c.ClearQuery)
	req := lister.next(t)
	assert.Equal(t, directory.ListQuery{Company: "MNG Kargo", Page: 1, PageSize: 20}, req.q)
	req.respond(nil, 0)
	require.NoError(t, result(t, done))
}

func TestQueryTextIsInertUntilSearch(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 20), 45)

	c.SetQueryText("Trabzon")
	lister.none(t)
	assert.Equal(t, "Trabzon", c.View().QueryText)

	// Paging continues the query the items belong to
	done := run(c.LoadNextPage)
	req := lister.next(t)
	assert.Equal(t, directory.ListQuery{Page: 2, PageSize: 20}, req.q)
	req.respond(branches("b", 20, 20), 45)
	require.NoError(t, result(t, done))
}

func TestSubscribe(t *testing.T) {
	lister := newFakeLister()
	c := New(lister)

	var (
		mu    sync.Mutex
		views []ViewModel
	)
	cancel := c.Subscribe(func(vm ViewModel) {
		mu.Lock()
		views = append(views, vm)
		mu.Unlock()
	})

	done := run(c.Search)
	lister.next(t).respond(branches("b", 0, 2), 2)
	require.NoError(t, result(t, done))

	mu.Lock()
	require.Len(t, views, 2)
	assert.True(t, views[0].IsInitialLoading)
	assert.False(t, views[1].IsInitialLoading)
	assert.Len(t, views[1].Items, 2)
	mu.Unlock()

	cancel()
	c.SetQueryText("x")

	mu.Lock()
	assert.Len(t, views, 2)
	mu.Unlock()
}

func TestSubscribersRunInRegistrationOrder(t *testing.T) {
	c := New(newFakeLister())

	var order []int
	var cancels []func()
	for i := 0; i < 8; i++ {
		i := i
		cancels = append(cancels, c.Subscribe(func(ViewModel) { order = append(order, i) }))
	}
	cancels[3]()

	c.SetQueryText("kadıköy")
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 7}, order)

	order = nil
	c.SetQueryText("moda")
	assert.Equal(t, []int{0, 1, 2, 4, 5, 6, 7}, order)
}

func TestViewDoesNotAliasState(t *testing.T) {
	lister := newFakeLister()
	c := loaded(t, lister, branches("b", 0, 3), 3)

	vm := c.View()
	vm.Items[0].Name = "changed"
	assert.NotEqual(t, "changed", c.State().Items[0].Name)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "loadingMore", PhaseLoadingMore.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

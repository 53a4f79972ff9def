package search

import (
	"slices"

	"github.com/foxxcyber/kargolojik/internal/directory"
)

// PageSize is the number of branches requested per page
const PageSize = 20

// Phase is the request lifecycle of the controller
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingInitial
	PhaseLoadingMore
	PhaseRefreshing
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingInitial:
		return "loadingInitial"
	case PhaseLoadingMore:
		return "loadingMore"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

func (p Phase) loading() bool {
	return p == PhaseLoadingInitial || p == PhaseLoadingMore || p == PhaseRefreshing
}

// State is the search result set owned by a Controller
type State struct {
	QueryText       string
	SelectedCompany string
	// Page is the last page merged into Items
	Page    int
	Items   []directory.Branch
	Total   int
	HasMore bool
	Phase   Phase
	// Err is the failure behind PhaseError
	Err error
}

func (s State) clone() State {
	s.Items = slices.Clone(s.Items)
	return s
}

// ViewModel is the read-only projection of State handed to the screen
type ViewModel struct {
	Items            []directory.Branch
	Total            int
	IsInitialLoading bool
	IsLoadingMore    bool
	IsRefreshing     bool
	IsEmpty          bool
	ErrorMessage     string

	QueryText       string
	SelectedCompany string
	HasMore         bool
}

func (s State) view() ViewModel {
	return ViewModel{
		Items:            slices.Clone(s.Items),
		Total:            s.Total,
		IsInitialLoading: s.Phase == PhaseLoadingInitial,
		IsLoadingMore:    s.Phase == PhaseLoadingMore,
		IsRefreshing:     s.Phase == PhaseRefreshing,
		IsEmpty:          s.Phase == PhaseIdle && len(s.Items) == 0,
		ErrorMessage:     directory.UserMessage(s.Err, directory.MsgListFailed),
		QueryText:        s.QueryText,
		SelectedCompany:  s.SelectedCompany,
		HasMore:          s.HasMore,
	}
}

// merge folds a fetched page into items. Page 1 starts over; later pages
// append, and a record whose id is already present replaces it in place.
func merge(items []directory.Branch, page int, fetched []directory.Branch) []directory.Branch {
	if page == 1 {
		items = nil
	}
	out := make([]directory.Branch, len(items), len(items)+len(fetched))
	copy(out, items)

	index := make(map[string]int, cap(out))
	for i, b := range out {
		index[b.ID] = i
	}
	for _, b := range fetched {
		if i, ok := index[b.ID]; ok {
			out[i] = b
			continue
		}
		index[b.ID] = len(out)
		out = append(out, b)
	}
	return out
}

// Package memstore is an in-process BranchStore used for local demos and tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/foxxcyber/kargolojik/internal/brand"
	"github.com/foxxcyber/kargolojik/internal/database"
	"github.com/foxxcyber/kargolojik/internal/models"
)

var _ database.BranchStore = (*Store)(nil)

// Store keeps branches in memory, ordered like the SQL store (name, then id)
type Store struct {
	mu       sync.RWMutex
	branches map[string]*models.Branch
}

// New creates a store holding copies of branches
func New(branches ...*models.Branch) *Store {
	s := &Store{branches: make(map[string]*models.Branch, len(branches))}
	for _, b := range branches {
		s.branches[b.ID] = clone(b)
	}
	return s
}

func clone(b *models.Branch) *models.Branch {
	c := *b
	c.WorkingHours = make(map[string]string, len(b.WorkingHours))
	for k, v := range b.WorkingHours {
		c.WorkingHours[k] = v
	}
	return &c
}

func contains(field, needle string) bool {
	return strings.Contains(brand.Fold(field), brand.Fold(needle))
}

func matches(b *models.Branch, params *models.BranchListParams) bool {
	for _, word := range strings.Fields(params.Search) {
		if !contains(b.Name, word) && !contains(b.Address, word) && !contains(b.City, word) &&
			!contains(b.District, word) && !contains(b.Company, word) {
			return false
		}
	}
	if city := strings.TrimSpace(params.City); city != "" && !contains(b.City, city) {
		return false
	}
	if company := strings.TrimSpace(params.Company); company != "" && !contains(b.Company, company) {
		return false
	}
	return true
}

func (s *Store) sorted() []*models.Branch {
	all := make([]*models.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func (s *Store) ListBranches(_ context.Context, params *models.BranchListParams) ([]*models.Branch, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []*models.Branch
	for _, b := range s.sorted() {
		if matches(b, params) {
			hits = append(hits, b)
		}
	}

	page := []*models.Branch{}
	start := params.Offset()
	if start < len(hits) {
		end := start + params.Limit
		if end > len(hits) {
			end = len(hits)
		}
		for _, b := range hits[start:end] {
			page = append(page, clone(b))
		}
	}
	return page, len(hits), nil
}

func (s *Store) GetBranchByID(_ context.Context, id string) (*models.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.branches[id]
	if !ok {
		return nil, database.ErrBranchNotFound
	}
	return clone(b), nil
}

func (s *Store) CreateBranch(_ context.Context, b *models.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.branches[b.ID] = clone(b)
	return nil
}

func (s *Store) UpdateBranch(_ context.Context, id string, req *models.UpdateBranchRequest) (*models.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.branches[id]
	if !ok {
		return nil, database.ErrBranchNotFound
	}
	req.Apply(b)
	return clone(b), nil
}

func (s *Store) DeleteBranch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.branches[id]; !ok {
		return database.ErrBranchNotFound
	}
	delete(s.branches, id)
	return nil
}

func (s *Store) distinct(field func(*models.Branch) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	values := []string{}
	for _, b := range s.branches {
		v := field(b)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

func (s *Store) ListCompanies(context.Context) ([]string, error) {
	return s.distinct(func(b *models.Branch) string { return b.Company }), nil
}

func (s *Store) ListCities(context.Context) ([]string, error) {
	return s.distinct(func(b *models.Branch) string { return b.City }), nil
}

func (s *Store) GetStats(ctx context.Context) (*models.DirectoryStats, error) {
	companies, _ := s.ListCompanies(ctx)
	cities, _ := s.ListCities(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return &models.DirectoryStats{
		Branches:  len(s.branches),
		Companies: len(companies),
		Cities:    len(cities),
	}, nil
}

func (s *Store) UpsertBranchByName(_ context.Context, b *models.Branch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.branches {
		if existing.Name == b.Name {
			updated := clone(b)
			updated.ID = id
			updated.CreatedAt = existing.CreatedAt
			s.branches[id] = updated
			return false, nil
		}
	}
	s.branches[b.ID] = clone(b)
	return true, nil
}

func (s *Store) ReplaceCompanyBranches(_ context.Context, company string, branches []*models.Branch) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, b := range s.branches {
		if b.Company == company {
			delete(s.branches, id)
		}
	}
	for _, b := range branches {
		s.branches[b.ID] = clone(b)
	}
	return len(branches), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() {}

package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/cache"
	"github.com/foxxcyber/kargolojik/internal/database"
	"github.com/foxxcyber/kargolojik/internal/importer"
	"github.com/foxxcyber/kargolojik/internal/models"
)

// BranchService combines the branch store with the read cache and the sheet importer
type BranchService struct {
	store    database.BranchStore
	cache    cache.Cache
	ttl      time.Duration
	importer *importer.Importer
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewBranchService creates a BranchService. A nil cache disables caching.
func NewBranchService(store database.BranchStore, c cache.Cache, ttl time.Duration, logger *zap.Logger) *BranchService {
	if c == nil {
		c = cache.Noop{}
	}
	return &BranchService{
		store:    store,
		cache:    c,
		ttl:      ttl,
		importer: importer.New(),
		logger:   logger.Named("branches"),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Ping checks the backing store
func (s *BranchService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// List returns a page of branches
func (s *BranchService) List(ctx context.Context, params *models.BranchListParams) (*models.BranchListResponse, error) {
	params.Normalize()

	branches, total, err := s.store.ListBranches(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	return &models.BranchListResponse{
		Branches: branches,
		Total:    total,
		Page:     params.Page,
		Limit:    params.Limit,
	}, nil
}

// Get returns a single branch, or database.ErrBranchNotFound
func (s *BranchService) Get(ctx context.Context, id string) (*models.Branch, error) {
	return s.store.GetBranchByID(ctx, id)
}

// Companies returns the sorted distinct company names
func (s *BranchService) Companies(ctx context.Context) ([]string, error) {
	return cached(ctx, s, cache.KeyCompanies, s.store.ListCompanies)
}

// Cities returns the sorted distinct city names
func (s *BranchService) Cities(ctx context.Context) ([]string, error) {
	return cached(ctx, s, cache.KeyCities, s.store.ListCities)
}

// Stats returns the directory counts
func (s *BranchService) Stats(ctx context.Context) (*models.DirectoryStats, error) {
	return cached(ctx, s, cache.KeyStats, s.store.GetStats)
}

// cached serves key from the cache, loading and storing it on a miss.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *BranchService, key string, load func(context.Context) (T, error)) (T, error) {
	var value T

	found, err := s.cache.Get(ctx, key, &value)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if found {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func (s *BranchService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.DirectoryKeys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// Create stores a new branch built from req
func (s *BranchService) Create(ctx context.Context, req *models.CreateBranchRequest) (*models.Branch, error) {
	b := &models.Branch{
		ID:            s.newID(),
		Name:          strings.TrimSpace(req.Name),
		Company:       strings.TrimSpace(req.Company),
		City:          strings.TrimSpace(req.City),
		District:      strings.TrimSpace(req.District),
		Address:       strings.TrimSpace(req.Address),
		Phone:         strings.TrimSpace(req.Phone),
		WorkingHours:  req.WorkingHours,
		GoogleMapsURL: req.GoogleMapsURL,
		LogoURL:       req.LogoURL,
		SourceURL:     req.SourceURL,
		CreatedAt:     s.now().UTC(),
	}
	if b.WorkingHours == nil {
		b.WorkingHours = map[string]string{}
	}

	if err := s.store.CreateBranch(ctx, b); err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	s.invalidate(ctx)
	return b, nil
}

// Update changes the set fields of a branch
func (s *BranchService) Update(ctx context.Context, id string, req *models.UpdateBranchRequest) (*models.Branch, error) {
	b, err := s.store.UpdateBranch(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return b, nil
}

// Delete removes a branch
func (s *BranchService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBranch(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SeedSamples upserts the sample branches by name
func (s *BranchService) SeedSamples(ctx context.Context) (*models.SeedResult, error) {
	samples := SampleBranches()
	inserted := 0

	for _, b := range samples {
		b.ID = s.newID()
		b.CreatedAt = s.now().UTC()

		created, err := s.store.UpsertBranchByName(ctx, b)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", b.Name, err)
		}
		if created {
			inserted++
		}
	}
	s.invalidate(ctx)

	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("count branches: %w", err)
	}

	return &models.SeedResult{
		Message:       fmt.Sprintf("Seeded %d new branches, %d already existed", inserted, len(samples)-inserted),
		Inserted:      inserted,
		TotalBranches: stats.Branches,
	}, nil
}

// Import parses a company sheet and replaces that company's branches with it
func (s *BranchService) Import(ctx context.Context, r io.Reader, company string) (*models.ImportResult, error) {
	res, err := s.importer.Parse(r, company)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, res)
}

// ImportParsed stores an already parsed sheet
func (s *BranchService) ImportParsed(ctx context.Context, res *importer.Result) (*models.ImportResult, error) {
	return s.replace(ctx, res)
}

func (s *BranchService) replace(ctx context.Context, res *importer.Result) (*models.ImportResult, error) {
	n, err := s.store.ReplaceCompanyBranches(ctx, res.Company, res.Branches)
	if err != nil {
		return nil, fmt.Errorf("replace %s branches: %w", res.Company, err)
	}
	s.invalidate(ctx)

	s.logger.Info("company sheet imported",
		zap.String("company", res.Company),
		zap.Int("imported", n),
		zap.Int("skipped", res.Skipped),
	)
	return &models.ImportResult{Company: res.Company, Imported: n, Skipped: res.Skipped}, nil
}

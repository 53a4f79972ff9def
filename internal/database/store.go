package database

import (
	"context"
	"errors"

	"github.com/foxxcyber/kargolojik/internal/models"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
)

// BranchStore is implemented by the PostgreSQL and MongoDB backends
type BranchStore interface {
	ListBranches(ctx context.Context, params *models.BranchListParams) ([]*models.Branch, int, error)
	GetBranchByID(ctx context.Context, id string) (*models.Branch, error)
	CreateBranch(ctx context.Context, b *models.Branch) error
	UpdateBranch(ctx context.Context, id string, req *models.UpdateBranchRequest) (*models.Branch, error)
	DeleteBranch(ctx context.Context, id string) error
	ListCompanies(ctx context.Context) ([]string, error)
	ListCities(ctx context.Context) ([]string, error)
	GetStats(ctx context.Context) (*models.DirectoryStats, error)
	// UpsertBranchByName inserts b, or overwrites the branch with the same name.
	// It reports whether a new row was inserted.
	UpsertBranchByName(ctx context.Context, b *models.Branch) (bool, error)
	// ReplaceCompanyBranches deletes every branch of company and inserts branches
	ReplaceCompanyBranches(ctx context.Context, company string, branches []*models.Branch) (int, error)
	Ping(ctx context.Context) error
	Close()
}

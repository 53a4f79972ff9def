package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var branchColumns = []string{
	"id", "name", "company", "city", "district", "address", "phone",
	"working_hours", "google_maps_url", "logo_url", "source_url", "created_at",
}

// searchColumns are matched by every word of a free-text search
var searchColumns = []string{"name", "address", "city", "district", "company"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// BranchFilter builds the WHERE predicate for a branch listing.
// Every search word must appear in at least one of the text columns;
// city and company are substring matches. All comparisons ignore case.
func BranchFilter(params *models.BranchListParams) sq.And {
	where := sq.And{}

	for _, word := range strings.Fields(params.Search) {
		pattern := containsPattern(word)
		anyColumn := sq.Or{}
		for _, col := range searchColumns {
			anyColumn = append(anyColumn, sq.ILike{col: pattern})
		}
		where = append(where, anyColumn)
	}

	if city := strings.TrimSpace(params.City); city != "" {
		where = append(where, sq.ILike{"city": containsPattern(city)})
	}
	if company := strings.TrimSpace(params.Company); company != "" {
		where = append(where, sq.ILike{"company": containsPattern(company)})
	}

	return where
}

// ListBranches returns a page of branches matching params and the total match count
func (db *DB) ListBranches(ctx context.Context, params *models.BranchListParams) ([]*models.Branch, int, error) {
	where := BranchFilter(params)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("branches").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := db.Pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Branch{}, 0, nil
	}

	query, args, err := psql.Select(branchColumns...).
		From("branches").
		Where(where).
		OrderBy("name ASC", "id ASC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	branches := []*models.Branch{}
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, 0, err
		}
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return branches, total, nil
}

// GetBranchByID retrieves a branch by ID
func (db *DB) GetBranchByID(ctx context.Context, id string) (*models.Branch, error) {
	query, args, err := psql.Select(branchColumns...).From("branches").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	b, err := scanBranch(db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBranchNotFound
		}
		return nil, err
	}

	return b, nil
}

// CreateBranch inserts a new branch
func (db *DB) CreateBranch(ctx context.Context, b *models.Branch) error {
	query, args, err := insertBranch(b).ToSql()
	if err != nil {
		return err
	}
	_, err = db.Pool.Exec(ctx, query, args...)
	return err
}

// UpdateBranch applies the set fields of req to an existing branch
func (db *DB) UpdateBranch(ctx context.Context, id string, req *models.UpdateBranchRequest) (*models.Branch, error) {
	b, err := db.GetBranchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(b)

	query, args, err := psql.Update("branches").SetMap(map[string]interface{}{
		"name":            b.Name,
		"company":         b.Company,
		"city":            b.City,
		"district":        b.District,
		"address":         b.Address,
		"phone":           b.Phone,
		"working_hours":   workingHours(b),
		"google_maps_url": b.GoogleMapsURL,
		"logo_url":        b.LogoURL,
	}).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrBranchNotFound
	}

	return b, nil
}

// DeleteBranch removes a branch
func (db *DB) DeleteBranch(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM branches WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBranchNotFound
	}
	return nil
}

// ListCompanies returns the distinct non-empty company names, sorted
func (db *DB) ListCompanies(ctx context.Context) ([]string, error) {
	return db.distinct(ctx, "company")
}

// ListCities returns the distinct non-empty city names, sorted
func (db *DB) ListCities(ctx context.Context) ([]string, error) {
	return db.distinct(ctx, "city")
}

func (db *DB) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %[1]s FROM branches WHERE %[1]s <> '' ORDER BY %[1]s", column)

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// GetStats returns aggregate counts for the directory
func (db *DB) GetStats(ctx context.Context) (*models.DirectoryStats, error) {
	stats := &models.DirectoryStats{}

	err := db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT NULLIF(company, '')),
			COUNT(DISTINCT NULLIF(city, ''))
		FROM branches
	`).Scan(&stats.Branches, &stats.Companies, &stats.Cities)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// UpsertBranchByName overwrites the branch with b's name, or inserts b
func (db *DB) UpsertBranchByName(ctx context.Context, b *models.Branch) (bool, error) {
	inserted := false

	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		query, args, err := psql.Update("branches").SetMap(map[string]interface{}{
			"company":         b.Company,
			"city":            b.City,
			"district":        b.District,
			"address":         b.Address,
			"phone":           b.Phone,
			"working_hours":   workingHours(b),
			"google_maps_url": b.GoogleMapsURL,
			"logo_url":        b.LogoURL,
			"source_url":      b.SourceURL,
		}).Where(sq.Eq{"name": b.Name}).ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		query, args, err = insertBranch(b).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return err
		}
		inserted = true
		return nil
	})

	return inserted, err
}

// ReplaceCompanyBranches swaps a company's branches for a fresh import in one transaction
func (db *DB) ReplaceCompanyBranches(ctx context.Context, company string, branches []*models.Branch) (int, error) {
	var copied int64

	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, "DELETE FROM branches WHERE company = $1", company)
		if err != nil {
			return fmt.Errorf("delete existing branches: %w", err)
		}
		db.logger.Info("cleared company branches",
			zap.String("company", company),
			zap.Int64("deleted", tag.RowsAffected()),
		)

		rows := make([][]interface{}, 0, len(branches))
		for _, b := range branches {
			rows = append(rows, []interface{}{
				b.ID, b.Name, b.Company, b.City, b.District, b.Address, b.Phone,
				workingHours(b), b.GoogleMapsURL, b.LogoURL, b.SourceURL, b.CreatedAt,
			})
		}

		copied, err = tx.CopyFrom(ctx, pgx.Identifier{"branches"}, branchColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy branches: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(copied), nil
}

func insertBranch(b *models.Branch) sq.InsertBuilder {
	return psql.Insert("branches").Columns(branchColumns...).Values(
		b.ID, b.Name, b.Company, b.City, b.District, b.Address, b.Phone,
		workingHours(b), b.GoogleMapsURL, b.LogoURL, b.SourceURL, b.CreatedAt,
	)
}

func workingHours(b *models.Branch) map[string]string {
	if b.WorkingHours == nil {
		return map[string]string{}
	}
	return b.WorkingHours
}

func scanBranch(row pgx.Row) (*models.Branch, error) {
	b := &models.Branch{}
	err := row.Scan(
		&b.ID, &b.Name, &b.Company, &b.City, &b.District, &b.Address, &b.Phone,
		&b.WorkingHours, &b.GoogleMapsURL, &b.LogoURL, &b.SourceURL, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

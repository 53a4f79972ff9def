// Package mongostore keeps branches in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/database"
	"github.com/foxxcyber/kargolojik/internal/models"
)

const branchesCollection = "branches"

var _ database.BranchStore = (*Store)(nil)

// Store is a BranchStore backed by MongoDB
type Store struct {
	client   *mongo.Client
	branches *mongo.Collection
	logger   *zap.Logger
}

// branchDoc is the stored document; documents written by older importers only carry _id
type branchDoc struct {
	MongoID       primitive.ObjectID `bson:"_id,omitempty"`
	models.Branch `bson:",inline"`
}

func (d *branchDoc) toModel() *models.Branch {
	b := d.Branch
	if b.ID == "" && !d.MongoID.IsZero() {
		b.ID = d.MongoID.Hex()
	}
	if b.WorkingHours == nil {
		b.WorkingHours = map[string]string{}
	}
	return &b
}

// Connect opens a client, pings it and ensures the branch indexes
func Connect(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{
		client:   client,
		branches: client.Database(dbName).Collection(branchesCollection),
		logger:   logger.Named("mongo"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info("mongo connected", zap.String("database", dbName))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.branches.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "company", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create branch indexes: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("mongo disconnect failed", zap.Error(err))
	}
}

// Ping checks the server is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// BranchFilter builds the query document for a branch listing.
// Every search word must match one of the text fields.
func BranchFilter(params *models.BranchListParams) bson.M {
	filter := bson.M{}

	words := strings.Fields(params.Search)
	if len(words) > 0 {
		all := bson.A{}
		for _, word := range words {
			re := containsRegex(word)
			all = append(all, bson.M{"$or": bson.A{
				bson.M{"name": re},
				bson.M{"address": re},
				bson.M{"city": re},
				bson.M{"district": re},
				bson.M{"company": re},
			}})
		}
		filter["$and"] = all
	}

	if city := strings.TrimSpace(params.City); city != "" {
		filter["city"] = containsRegex(city)
	}
	if company := strings.TrimSpace(params.Company); company != "" {
		filter["company"] = containsRegex(company)
	}

	return filter
}

// branchSort orders by name, then id. _id breaks ties between documents
// that only carry _id.
var branchSort = bson.D{{Key: "name", Value: 1}, {Key: "id", Value: 1}, {Key: "_id", Value: 1}}

// IDFilter matches a branch by its id field or, for documents written by
// older importers, by an ObjectID _id with the same hex
func IDFilter(id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{"id": id}
	}
	return bson.M{"$or": bson.A{
		bson.M{"id": id},
		bson.M{"id": bson.M{"$in": bson.A{nil, ""}}, "_id": oid},
	}}
}

// ListBranches returns a page of branches matching params and the total match count
func (s *Store) ListBranches(ctx context.Context, params *models.BranchListParams) ([]*models.Branch, int, error) {
	filter := BranchFilter(params)

	total, err := s.branches.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.Branch{}, 0, nil
	}

	opts := options.Find().
		SetSort(branchSort).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit))

	cur, err := s.branches.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []branchDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	branches := make([]*models.Branch, 0, len(docs))
	for i := range docs {
		branches = append(branches, docs[i].toModel())
	}
	return branches, int(total), nil
}

// GetBranchByID looks a branch up by its id field, falling back to an ObjectID _id
func (s *Store) GetBranchByID(ctx context.Context, id string) (*models.Branch, error) {
	var doc branchDoc
	err := s.branches.FindOne(ctx, IDFilter(id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, database.ErrBranchNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

// CreateBranch inserts a new branch
func (s *Store) CreateBranch(ctx context.Context, b *models.Branch) error {
	_, err := s.branches.InsertOne(ctx, branchDoc{Branch: *b})
	return err
}

// UpdateBranch applies the set fields of req to an existing branch
func (s *Store) UpdateBranch(ctx context.Context, id string, req *models.UpdateBranchRequest) (*models.Branch, error) {
	b, err := s.GetBranchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(b)

	res, err := s.branches.UpdateOne(ctx, IDFilter(id), bson.M{"$set": bson.M{
		"name":            b.Name,
		"company":         b.Company,
		"city":            b.City,
		"district":        b.District,
		"address":         b.Address,
		"phone":           b.Phone,
		"working_hours":   b.WorkingHours,
		"google_maps_url": b.GoogleMapsURL,
		"logo_url":        b.LogoURL,
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, database.ErrBranchNotFound
	}
	return b, nil
}

// DeleteBranch removes a branch
func (s *Store) DeleteBranch(ctx context.Context, id string) error {
	res, err := s.branches.DeleteOne(ctx, IDFilter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrBranchNotFound
	}
	return nil
}

// ListCompanies returns the distinct non-empty company names, sorted
func (s *Store) ListCompanies(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "company")
}

// ListCities returns the distinct non-empty city names, sorted
func (s *Store) ListCities(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "city")
}

func (s *Store) distinct(ctx context.Context, field string) ([]string, error) {
	raw, err := s.branches.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	return nonEmptySorted(raw), nil
}

func nonEmptySorted(raw []interface{}) []string {
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok && str != "" {
			values = append(values, str)
		}
	}
	sort.Strings(values)
	return values
}

// GetStats returns aggregate counts for the directory
func (s *Store) GetStats(ctx context.Context) (*models.DirectoryStats, error) {
	count, err := s.branches.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	companies, err := s.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	cities, err := s.ListCities(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DirectoryStats{
		Branches:  int(count),
		Companies: len(companies),
		Cities:    len(cities),
	}, nil
}

// UpsertBranchByName overwrites the branch with b's name, or inserts b
func (s *Store) UpsertBranchByName(ctx context.Context, b *models.Branch) (bool, error) {
	res, err := s.branches.UpdateOne(ctx,
		bson.M{"name": b.Name},
		bson.M{
			"$set": bson.M{
				"company":         b.Company,
				"city":            b.City,
				"district":        b.District,
				"address":         b.Address,
				"phone":           b.Phone,
				"working_hours":   b.WorkingHours,
				"google_maps_url": b.GoogleMapsURL,
				"logo_url":        b.LogoURL,
				"source_url":      b.SourceURL,
			},
			"$setOnInsert": bson.M{
				"id":         b.ID,
				"created_at": b.CreatedAt,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedID != nil, nil
}

// ReplaceCompanyBranches deletes a company's branches and inserts the new set
func (s *Store) ReplaceCompanyBranches(ctx context.Context, company string, branches []*models.Branch) (int, error) {
	del, err := s.branches.DeleteMany(ctx, bson.M{"company": company})
	if err != nil {
		return 0, fmt.Errorf("delete existing branches: %w", err)
	}
	s.logger.Info("cleared company branches",
		zap.String("company", company),
		zap.Int64("deleted", del.DeletedCount),
	)

	if len(branches) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(branches))
	for _, b := range branches {
		docs = append(docs, branchDoc{Branch: *b})
	}

	res, err := s.branches.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("insert branches: %w", err)
	}
	return len(res.InsertedIDs), nil
}

package models

import (
	"time"
)

// Pagination bounds for the branch listing
const (
	DefaultBranchLimit = 20
	MaxBranchLimit     = 100
)

// Branch represents a shipping company branch location
type Branch struct {
	ID            string            `json:"id" bson:"id"`
	Name          string            `json:"name" bson:"name"`
	Company       string            `json:"company" bson:"company"`
	City          string            `json:"city" bson:"city"`
	District      string            `json:"district" bson:"district"`
	Address       string            `json:"address" bson:"address"`
	Phone         string            `json:"phone" bson:"phone"`
	WorkingHours  map[string]string `json:"working_hours" bson:"working_hours"`
	GoogleMapsURL string            `json:"google_maps_url" bson:"google_maps_url"`
	LogoURL       string            `json:"logo_url" bson:"logo_url"`
	SourceURL     string            `json:"source_url" bson:"source_url"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
}

// CreateBranchRequest is the request body for creating a branch
type CreateBranchRequest struct {
	Name          string            `json:"name" validate:"required,max=255"`
	Company       string            `json:"company" validate:"required,max=100"`
	City          string            `json:"city" validate:"max=100"`
	District      string            `json:"district" validate:"max=100"`
	Address       string            `json:"address" validate:"max=500"`
	Phone         string            `json:"phone" validate:"omitempty,max=50,tr_phone"`
	WorkingHours  map[string]string `json:"working_hours" validate:"omitempty,dive,keys,required,endkeys,max=100"`
	GoogleMapsURL string            `json:"google_maps_url" validate:"omitempty,url"`
	LogoURL       string            `json:"logo_url" validate:"omitempty,url"`
	SourceURL     string            `json:"source_url" validate:"omitempty,url"`
}

// UpdateBranchRequest is the request body for updating a branch
type UpdateBranchRequest struct {
	Name          *string           `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Company       *string           `json:"company,omitempty" validate:"omitempty,min=1,max=100"`
	City          *string           `json:"city,omitempty" validate:"omitempty,max=100"`
	District      *string           `json:"district,omitempty" validate:"omitempty,max=100"`
	Address       *string           `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone         *string           `json:"phone,omitempty" validate:"omitempty,max=50,tr_phone"`
	WorkingHours  map[string]string `json:"working_hours,omitempty"`
	GoogleMapsURL *string           `json:"google_maps_url,omitempty" validate:"omitempty,url"`
	LogoURL       *string           `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// Apply copies the set fields onto b
func (r *UpdateBranchRequest) Apply(b *Branch) {
	if r.Name != nil {
		b.Name = *r.Name
	}
	if r.Company != nil {
		b.Company = *r.Company
	}
	if r.City != nil {
		b.City = *r.City
	}
	if r.District != nil {
		b.District = *r.District
	}
	if r.Address != nil {
		b.Address = *r.Address
	}
	if r.Phone != nil {
		b.Phone = *r.Phone
	}
	if r.WorkingHours != nil {
		b.WorkingHours = r.WorkingHours
	}
	if r.GoogleMapsURL != nil {
		b.GoogleMapsURL = *r.GoogleMapsURL
	}
	if r.LogoURL != nil {
		b.LogoURL = *r.LogoURL
	}
}

// BranchListParams contains parameters for listing branches
type BranchListParams struct {
	Page    int
	Limit   int
	Search  string
	City    string
	Company string
}

// Offset is the number of rows skipped for the requested page
func (p *BranchListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Normalize clamps page and limit into the accepted range
func (p *BranchListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > MaxBranchLimit {
		p.Limit = DefaultBranchLimit
	}
}

// BranchListResponse is the wire shape of GET /api/branches
type BranchListResponse struct {
	Branches []*Branch `json:"branches"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// DirectoryStats contains aggregate counts for the directory
type DirectoryStats struct {
	Branches  int `json:"branches"`
	Companies int `json:"companies"`
	Cities    int `json:"cities"`
}

// ImportResult reports the outcome of a company sheet import
type ImportResult struct {
	Company  string `json:"company"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// SeedResult reports the outcome of seeding the sample branches
type SeedResult struct {
	Message       string `json:"message"`
	Inserted      int    `json:"inserted"`
	TotalBranches int    `json:"total_branches"`
}

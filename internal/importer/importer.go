// Package importer reads per-company branch sheets (XLSX) into branch records.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/foxxcyber/kargolojik/internal/brand"
	"github.com/foxxcyber/kargolojik/internal/models"
)

const mapsSearchURL = "https://www.google.com/maps/search/?api=1&query="

var (
	ErrEmptyWorkbook = errors.New("workbook has no rows")
	ErrNoNameColumn  = errors.New("no branch name column found in header")
	ErrNoCompany     = errors.New("company is required")
	ErrBadWorkbook   = errors.New("file is not a valid XLSX workbook")
)

// Result holds the branches read from one sheet
type Result struct {
	Company  string
	Branches []*models.Branch
	Skipped  int
	Columns  Columns
}

// Columns maps branch fields to zero-based column indexes, -1 when absent
type Columns struct {
	Name     int
	City     int
	District int
	Address  int
	Phone    int
}

// Importer parses branch sheets
type Importer struct {
	now   func() time.Time
	newID func() string
}

// New creates an Importer using the wall clock and random UUIDs
func New() *Importer {
	return &Importer{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// ParseFile opens an XLSX file from disk and parses its first sheet
func (im *Importer) ParseFile(path, company string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	return im.parse(f, company)
}

// Parse reads an XLSX workbook from r and parses its first sheet
func (im *Importer) Parse(r io.Reader, company string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWorkbook, err)
	}
	defer f.Close()

	return im.parse(f, company)
}

func (im *Importer) parse(f *excelize.File, company string) (*Result, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, ErrNoCompany
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	sheet := sheets[0]
	if idx := f.GetActiveSheetIndex(); idx >= 0 && idx < len(sheets) {
		sheet = sheets[idx]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	cols := MapColumns(rows[0])
	if cols.Name < 0 {
		return nil, ErrNoNameColumn
	}

	result := &Result{Company: company, Columns: cols}
	prefix := strings.Fields(company)[0]
	createdAt := im.now().UTC()

	for _, row := range rows[1:] {
		name := cell(row, cols.Name)
		if name == "" || name == "None" {
			result.Skipped++
			continue
		}
		if !strings.Contains(name, prefix) {
			name = company + " " + name
		}

		b := &models.Branch{
			ID:           im.newID(),
			Name:         name,
			Company:      company,
			City:         cell(row, cols.City),
			District:     cell(row, cols.District),
			Address:      cell(row, cols.Address),
			Phone:        cell(row, cols.Phone),
			WorkingHours: map[string]string{},
			LogoURL:      brand.LogoURL(company),
			CreatedAt:    createdAt,
		}
		b.GoogleMapsURL = MapsURL(b.Name, b.Address, b.City)
		result.Branches = append(result.Branches, b)
	}

	return result, nil
}

// MapColumns finds the branch columns in a header row by keyword.
// Each header cell is assigned to the first field whose keywords it contains,
// and a later column wins over an earlier one for the same field.
func MapColumns(header []string) Columns {
	cols := Columns{Name: -1, City: -1, District: -1, Address: -1, Phone: -1}

	for i, raw := range header {
		// Headers mix ASCII ("SUBE_ADI") and Turkish ("İLÇE") capitals,
		// so match against both lower-casing rules.
		h := []string{strings.ToLower(strings.TrimSpace(raw)), brand.Fold(raw)}
		switch {
		case containsAny(h, "sube_adi", "şube", "name"):
			cols.Name = i
		case containsAny(h, "sehir", "şehir", "city") || h[0] == "il" || h[1] == "il":
			cols.City = i
		case containsAny(h, "ilce", "ilçe", "district"):
			cols.District = i
		case containsAny(h, "adres", "address"):
			cols.Address = i
		case containsAny(h, "telefon_1", "telefon", "phone"):
			cols.Phone = i
		}
	}

	return cols
}

// MapsURL builds a Google Maps search link from the branch text fields
func MapsURL(name, address, city string) string {
	query := strings.TrimSpace(name + " " + address + " " + city)
	return mapsSearchURL + strings.ReplaceAll(query, " ", "+")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func containsAny(forms []string, subs ...string) bool {
	for _, s := range forms {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
	}
	return false
}

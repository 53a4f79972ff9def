package directory

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/foxxcyber/kargolojik/internal/brand"
)

// Branch is the canonical branch record used by the client side
type Branch struct {
	ID           string
	Name         string
	Company      string
	City         string
	District     string
	Address      string
	Phone        string
	WorkingHours []HoursEntry
	MapsURL      string
	LogoURL      string
}

// HoursEntry is one day group of the working hours
type HoursEntry struct {
	Day   string
	Hours string
}

// aliases maps each canonical field to the raw keys seen across backend
// revisions, in lookup order
var aliases = map[string][]string{
	"id":           {"id", "_id"},
	"name":         {"name", "branch_name"},
	"company":      {"company", "company_name"},
	"city":         {"city", "il"},
	"district":     {"district", "ilce"},
	"address":      {"address", "adres"},
	"phone":        {"phone", "phone_number", "telefon"},
	"workingHours": {"working_hours", "workingHours", "hours"},
	"mapsUrl":      {"google_maps_url", "maps_url", "mapsUrl"},
	"logoUrl":      {"logo_url", "logoUrl"},
}

type rawRecord map[string]json.RawMessage

func (r rawRecord) lookup(field string) (json.RawMessage, bool) {
	for _, key := range aliases[field] {
		if v, ok := r[key]; ok && !isNull(v) {
			return v, true
		}
	}
	return nil, false
}

func isNull(v json.RawMessage) bool {
	s := strings.TrimSpace(string(v))
	return s == "" || s == "null"
}

// text returns the first non-empty alias value of field
func (r rawRecord) text(field string) string {
	for _, key := range aliases[field] {
		v, ok := r[key]
		if !ok || isNull(v) {
			continue
		}
		if s := scalar(v); s != "" {
			return s
		}
	}
	return ""
}

// scalar renders a JSON string or number as text; other shapes are ""
func scalar(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

func (r rawRecord) id() string {
	for _, key := range aliases["id"] {
		v, ok := r[key]
		if !ok || isNull(v) {
			continue
		}
		if id := scalar(v); id != "" {
			return id
		}
		var oid struct {
			OID string `json:"$oid"`
		}
		if err := json.Unmarshal(v, &oid); err == nil && oid.OID != "" {
			return oid.OID
		}
	}
	return ""
}

func (r rawRecord) hours() []HoursEntry {
	v, ok := r.lookup("workingHours")
	if !ok {
		return nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(v, &m); err != nil || len(m) == 0 {
		return nil
	}

	rank := make(map[string]int, len(brand.DayOrder))
	for i, day := range brand.DayOrder {
		rank[day] = i
	}
	days := make([]string, 0, len(m))
	for day := range m {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		ri, iKnown := rank[days[i]]
		rj, jKnown := rank[days[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return days[i] < days[j]
		}
	})

	entries := make([]HoursEntry, len(days))
	for i, day := range days {
		entries[i] = HoursEntry{Day: day, Hours: scalar(m[day])}
	}
	return entries
}

// Normalize converts one raw backend record into a Branch.
// Missing fields default to empty values; a record without an id is rejected.
func Normalize(raw json.RawMessage) (Branch, error) {
	var r rawRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return Branch{}, err
	}
	if r == nil {
		return Branch{}, ErrMissingID
	}

	id := r.id()
	if id == "" {
		return Branch{}, ErrMissingID
	}

	return Branch{
		ID:           id,
		Name:         r.text("name"),
		Company:      r.text("company"),
		City:         r.text("city"),
		District:     r.text("district"),
		Address:      r.text("address"),
		Phone:        r.text("phone"),
		WorkingHours: r.hours(),
		MapsURL:      r.text("mapsUrl"),
		LogoURL:      r.text("logoUrl"),
	}, nil
}

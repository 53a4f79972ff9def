// Package brand holds the presentation lookups for carriers: colours, logos,
// file slugs and working-hours day labels.
package brand

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultColor is used for unknown and empty company names
const DefaultColor = "#1e88e5"

// Company describes a known carrier
type Company struct {
	Name    string
	Slug    string
	Color   string
	LogoURL string
}

var companies = []Company{
	{Name: "Aras Kargo", Slug: "aras", Color: "#e74c3c", LogoURL: "https://customer-assets.emergentagent.com/job_shipntracker/artifacts/k3zkcxdq_aras-kargo-logo-png_seeklogo-510325.png"},
	{Name: "PTT Kargo", Slug: "ptt", Color: "#f1c40f", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/60/PTT_logo.svg/512px-PTT_logo.svg.png"},
	{Name: "DHL Kargo", Slug: "dhl", Color: "#e67e22", LogoURL: "https://customer-assets.emergentagent.com/job_shipntracker/artifacts/eosc97km_dhl-logo-png_seeklogo-40800.png"},
	{Name: "Sürat Kargo", Slug: "surat", Color: "#3498db", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c9/S%C3%BCrat_Kargo_logo.svg/512px-S%C3%BCrat_Kargo_logo.svg.png"},
	{Name: "Inter Global Kargo", Slug: "inter", Color: "#9b59b6"},
	{Name: "Yurtiçi Kargo", Slug: "yurtici", Color: "#2ecc71", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0b/Yurtici_Kargo_logo.svg/512px-Yurtici_Kargo_logo.svg.png"},
	{Name: "TNT Kargo", Slug: "tnt", Color: "#ff6b00", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/90/TNT_Express_Logo.svg/512px-TNT_Express_Logo.svg.png"},
	{Name: "UPS Kargo", Slug: "ups", Color: "#6d1a36", LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/6b/United_Parcel_Service_logo_2014.svg/512px-United_Parcel_Service_logo_2014.svg.png"},
}

var turkishLower = cases.Lower(language.Turkish)

// Fold lower-cases s with Turkish rules, so "İSTANBUL" and "istanbul" compare equal
func Fold(s string) string {
	return turkishLower.String(strings.TrimSpace(s))
}

// Lookup finds a known carrier by display name, case-insensitively
func Lookup(name string) (Company, bool) {
	key := Fold(name)
	if key == "" {
		return Company{}, false
	}
	for _, c := range companies {
		if Fold(c.Name) == key {
			return c, true
		}
	}
	return Company{}, false
}

// Color returns the badge colour for a company
func Color(name string) string {
	if c, ok := Lookup(name); ok {
		return c.Color
	}
	return DefaultColor
}

// LogoURL returns the logo for a company, or "" when none is known
func LogoURL(name string) string {
	c, _ := Lookup(name)
	return c.LogoURL
}

// Slug returns the file slug for a known company. Unknown names are
// lower-cased with Turkish letters flattened and spaces replaced by dashes.
func Slug(name string) string {
	if c, ok := Lookup(name); ok {
		return c.Slug
	}
	return slugify(name)
}

// FromFileName resolves a sheet file name like "imports/yurtiçi.xlsx" to a carrier
func FromFileName(fileName string) (Company, bool) {
	base := fileName
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	// Sheets were uploaded with random prefixes such as "vf7twzgp_aras"
	if i := strings.LastIndex(base, "_"); i >= 0 {
		base = base[i+1:]
	}

	slug := slugify(base)
	for _, c := range companies {
		if c.Slug == slug {
			return c, true
		}
	}
	return Company{}, false
}

// Companies returns the known carriers sorted by name
func Companies() []Company {
	out := make([]Company, len(companies))
	copy(out, companies)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var asciiFold = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
)

func slugify(s string) string {
	s = asciiFold.Replace(Fold(s))
	return strings.Join(strings.Fields(s), "-")
}

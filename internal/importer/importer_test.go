package importer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestImporter() *Importer {
	n := 0
	return &Importer{
		now: func() time.Time { return time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC) },
		newID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	return f
}

func TestParseWorkbook(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"SUBE_ADI", "SEHIR", "ILCE", "ADRES", "TELEFON_1"},
		{"Konak Şubesi", "İzmir", "Konak", "Alsancak Mah. No: 34", "0 232 464 3456"},
		{"", "Ankara", "Çankaya", "", ""},
		{"Aras Kargo Çankaya", " Ankara ", "Çankaya", "Kızılay Mah.", ""},
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := newTestImporter().Parse(bytes.NewReader(buf.Bytes()), "Aras Kargo")
	require.NoError(t, err)

	assert.Equal(t, "Aras Kargo", res.Company)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Branches, 2)

	first := res.Branches[0]
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "Aras Kargo Konak Şubesi", first.Name)
	assert.Equal(t, "İzmir", first.City)
	assert.Equal(t, "Konak", first.District)
	assert.Equal(t, "0 232 464 3456", first.Phone)
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=Aras+Kargo+Konak+Şubesi+Alsancak+Mah.+No:+34+İzmir",
		first.GoogleMapsURL)
	assert.NotEmpty(t, first.LogoURL)
	assert.NotNil(t, first.WorkingHours)
	assert.Equal(t, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), first.CreatedAt)

	second := res.Branches[1]
	assert.Equal(t, "Aras Kargo Çankaya", second.Name, "name already carrying the company prefix is kept")
	assert.Equal(t, "Ankara", second.City)
	assert.Empty(t, second.Phone)
}

func TestParseFile(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"Şube", "Şehir", "Adres"},
		{"Moda", "İstanbul", "Moda Cad."},
	})
	path := filepath.Join(t.TempDir(), "ptt.xlsx")
	require.NoError(t, f.SaveAs(path))

	res, err := newTestImporter().ParseFile(path, "PTT Kargo")
	require.NoError(t, err)
	require.Len(t, res.Branches, 1)
	assert.Equal(t, "PTT Kargo Moda", res.Branches[0].Name)
	assert.Equal(t, -1, res.Columns.Phone)
}

func TestParseErrors(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{{"Foo", "Bar"}, {"x", "y"}})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = newTestImporter().Parse(bytes.NewReader(buf.Bytes()), "Aras Kargo")
	assert.ErrorIs(t, err, ErrNoNameColumn)

	_, err = newTestImporter().Parse(bytes.NewReader(buf.Bytes()), "  ")
	assert.ErrorIs(t, err, ErrNoCompany)

	empty, err := excelize.NewFile().WriteToBuffer()
	require.NoError(t, err)
	_, err = newTestImporter().Parse(bytes.NewReader(empty.Bytes()), "Aras Kargo")
	assert.ErrorIs(t, err, ErrEmptyWorkbook)

	_, err = newTestImporter().Parse(bytes.NewReader([]byte("not a workbook")), "Aras Kargo")
	assert.Error(t, err)
}

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   Columns
	}{
		{
			name:   "ascii headers",
			header: []string{"SUBE_ADI", "SEHIR", "ILCE", "ADRES", "TELEFON_1"},
			want:   Columns{Name: 0, City: 1, District: 2, Address: 3, Phone: 4},
		},
		{
			name:   "turkish headers",
			header: []string{"Şube Adı", "İl", "İlçe", "Adres", "Telefon"},
			want:   Columns{Name: 0, City: 1, District: 2, Address: 3, Phone: 4},
		},
		{
			name:   "english headers with gaps",
			header: []string{"id", "name", "address", "phone"},
			want:   Columns{Name: 1, City: -1, District: -1, Address: 2, Phone: 3},
		},
		{
			name:   "later column wins",
			header: []string{"telefon", "phone_2"},
			want:   Columns{Name: -1, City: -1, District: -1, Address: -1, Phone: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapColumns(tt.header))
		})
	}
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=PTT+Kargo+Moda+Moda+Cad.+İstanbul",
		MapsURL("PTT Kargo Moda", "Moda Cad.", "İstanbul"))
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=Only+Name",
		MapsURL("Only Name", "", ""))
}

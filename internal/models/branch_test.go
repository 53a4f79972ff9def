package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBranchListParamsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        BranchListParams
		wantPage  int
		wantLimit int
	}{
		{"defaults", BranchListParams{}, 1, DefaultBranchLimit},
		{"negative page", BranchListParams{Page: -3, Limit: 10}, 1, 10},
		{"limit too large", BranchListParams{Page: 2, Limit: 500}, 2, DefaultBranchLimit},
		{"max limit kept", BranchListParams{Page: 4, Limit: MaxBranchLimit}, 4, MaxBranchLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Normalize()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestBranchListParamsOffset(t *testing.T) {
	p := BranchListParams{Page: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())

	p = BranchListParams{Page: 0, Limit: 20}
	assert.Equal(t, 0, p.Offset())
}

func TestUpdateBranchRequestApply(t *testing.T) {
	b := &Branch{ID: "b1", Name: "Aras Kargo Konak", Phone: "0 232 000 0000", City: "İzmir"}
	name := "Aras Kargo Alsancak"
	phone := ""

	req := UpdateBranchRequest{Name: &name, Phone: &phone, WorkingHours: map[string]string{"weekdays": "09:00-18:00"}}
	req.Apply(b)

	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "Aras Kargo Alsancak", b.Name)
	assert.Equal(t, "", b.Phone)
	assert.Equal(t, "İzmir", b.City)
	assert.Equal(t, "09:00-18:00", b.WorkingHours["weekdays"])
}

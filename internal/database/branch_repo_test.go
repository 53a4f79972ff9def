package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/kargolojik/internal/models"
)

func TestBranchFilterEmpty(t *testing.T) {
	sql, args, err := BranchFilter(&models.BranchListParams{Search: "   "}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(1=1)", sql)
	assert.Empty(t, args)
}

func TestBranchFilterMultiWordSearch(t *testing.T) {
	sql, args, err := BranchFilter(&models.BranchListParams{Search: "aras  milas"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"((name ILIKE ? OR address ILIKE ? OR city ILIKE ? OR district ILIKE ? OR company ILIKE ?) AND "+
			"(name ILIKE ? OR address ILIKE ? OR city ILIKE ? OR district ILIKE ? OR company ILIKE ?))",
		sql)
	require.Len(t, args, 10)
	for _, a := range args[:5] {
		assert.Equal(t, "%aras%", a)
	}
	for _, a := range args[5:] {
		assert.Equal(t, "%milas%", a)
	}
}

func TestBranchFilterCompanyAndCity(t *testing.T) {
	sql, args, err := BranchFilter(&models.BranchListParams{Company: "Aras Kargo", City: "İzmir"}).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "(city ILIKE ? AND company ILIKE ?)", sql)
	assert.Equal(t, []interface{}{"%İzmir%", "%Aras Kargo%"}, args)
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%sube\_adi%`, containsPattern("sube_adi"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}

func TestInsertBranchDefaultsWorkingHours(t *testing.T) {
	sql, args, err := insertBranch(&models.Branch{ID: "b1", Name: "PTT Kargo Moda"}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO branches (id,name,company,city,district,address,phone,working_hours,")
	assert.Contains(t, sql, "$12")
	require.Len(t, args, 12)
	assert.Equal(t, map[string]string{}, args[7])
}

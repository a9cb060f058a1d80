package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/menuar/internal/docstore"
)

func TestBuildQuery(t *testing.T) {
	query, args, err := buildQuery(
		"restaurants",
		[]docstore.Predicate{docstore.Eq("restaurantId", "spice-route")},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, data FROM documents WHERE collection = $1 AND data #> $2::text[] = $3::jsonb ORDER BY id ASC",
		query)
	assert.Equal(t, []interface{}{"restaurants", []string{"restaurantId"}, `"spice-route"`}, args)
}

func TestBuildQueryNestedAndOrdering(t *testing.T) {
	query, args, err := buildQuery(
		"restaurants/r1/menuItems",
		[]docstore.Predicate{
			{Field: "pricing.basePrice", Op: docstore.OpGte, Value: 20000},
			{Field: "isAvailable", Op: docstore.OpNeq, Value: false},
		},
		[]docstore.OrderBy{{Field: "displayOrder"}, {Field: "name", Desc: true}},
	)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, data FROM documents WHERE collection = $1"+
			" AND data #> $2::text[] >= $3::jsonb"+
			" AND data #> $4::text[] IS DISTINCT FROM $5::jsonb"+
			" ORDER BY data #> $6::text[] ASC NULLS FIRST, data #> $7::text[] DESC NULLS LAST, id ASC",
		query)
	require.Len(t, args, 7)
	assert.Equal(t, []string{"pricing", "basePrice"}, args[1])
	assert.Equal(t, "20000", args[2])
	assert.Equal(t, "false", args[4])
}

func TestBuildQueryRejectsUnknownOperator(t *testing.T) {
	_, _, err := buildQuery("x", []docstore.Predicate{{Field: "a", Op: "~", Value: 1}}, nil)
	assert.Error(t, err)
}

func TestBatchCollectsPathErrors(t *testing.T) {
	b := &batch{}
	b.Set("restaurants/r1", map[string]interface{}{"name": "ok"})
	b.Delete("restaurants")
	assert.Equal(t, 1, b.Len())
	assert.ErrorIs(t, b.err, docstore.ErrInvalidPath)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSchema(t *testing.T) {
	byName, ok := LookupSchema("social-link")
	require.True(t, ok)
	byCollection, ok := LookupSchema("social-links")
	require.True(t, ok)
	assert.Same(t, byName, byCollection)

	_, ok = LookupSchema("widgets")
	assert.False(t, ok)
}

func TestEveryTieBreakEndsWithCreatedAtAndID(t *testing.T) {
	for _, model := range AllModels() {
		entity, ok := model.(Entity)
		if !ok {
			continue
		}
		keys := entity.Schema().DefaultSort()
		require.GreaterOrEqual(t, len(keys), 2)
		assert.Equal(t, SortKey{Column: "created_at"}, keys[len(keys)-2], entity.Schema().Name)
		assert.Equal(t, SortKey{Column: "id"}, keys[len(keys)-1], entity.Schema().Name)
	}
}

func TestDefaultSortStartsWithOrderForOrderedTypes(t *testing.T) {
	assert.Equal(t, SortKey{Column: "sort_order"}, SkillSchema.DefaultSort()[0])
	assert.Equal(t, SortKey{Column: "issued_at", Desc: true}, CertificationSchema.DefaultSort()[0])
}

func TestSchemaFlagsMatchModels(t *testing.T) {
	active := map[string]bool{}
	for _, model := range AllModels() {
		if entity, ok := model.(Entity); ok && entity.Schema().HasActive {
			active[entity.Schema().Name] = true
		}
	}
	assert.Equal(t, map[string]bool{"skill": true, "achievement": true, "interest": true, "social-link": true}, active)
}

func TestCoerceForcesOrderToInt(t *testing.T) {
	out, problems := PortfolioSchema.Coerce(map[string]any{
		"order":        "2",
		"is_featured":  "Yes",
		"technologies": "go|postgres",
		"completed_at": "2024-02-01",
		"title":        "Site",
	})
	require.Empty(t, problems)
	assert.Equal(t, 2, out["order"])
	assert.Equal(t, true, out["is_featured"])
	assert.Equal(t, []string{"go", "postgres"}, out["technologies"])
	assert.Equal(t, "Site", out["title"])

	_, problems = PortfolioSchema.Coerce(map[string]any{"is_featured": "sometimes"})
	assert.Contains(t, problems, "is_featured")
}

func TestColumnFor(t *testing.T) {
	assert.Equal(t, "sort_order", SkillSchema.ColumnFor("order"))
	assert.Equal(t, "name", SkillSchema.ColumnFor("name"))
}

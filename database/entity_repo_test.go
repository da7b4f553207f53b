package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type EntityRepoTestSuite struct {
	suite.Suite
	ctx    context.Context
	db     *gorm.DB
	skills *EntityRepo[models.Skill]
}

func (s *EntityRepoTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = newTestDB(s.T())
	s.skills = NewEntityRepo[models.Skill](s.db, validation.New())
}

func (s *EntityRepoTestSuite) createSkill(name string) *models.Skill {
	skill, err := s.skills.Create(s.ctx, Fields{"name": name})
	s.Require().NoError(err)
	return skill
}

func (s *EntityRepoTestSuite) orders() map[string]int {
	items, err := s.skills.All(s.ctx)
	s.Require().NoError(err)
	out := map[string]int{}
	for _, item := range items {
		out[item.Name] = item.Order
	}
	return out
}

func (s *EntityRepoTestSuite) TestCreateFillsDefaults() {
	first := s.createSkill("Go")
	second := s.createSkill("SQL")

	s.NotEqual(uuid.Nil, first.ID)
	s.Equal(0, first.Order)
	s.Equal(1, second.Order)
	s.True(first.IsActive)
	s.False(first.IsFeatured)
	s.False(first.CreatedAt.IsZero())
}

func (s *EntityRepoTestSuite) TestCreateTreatsNullAsAbsent() {
	s.createSkill("Go")

	second, err := s.skills.Create(s.ctx, Fields{"name": "SQL", "order": nil, "is_active": nil, "is_featured": nil})
	s.Require().NoError(err)
	s.Equal(1, second.Order)
	s.True(second.IsActive)
	s.False(second.IsFeatured)
}

func (s *EntityRepoTestSuite) TestCreateKeepsExplicitFlagsAndOrder() {
	skill, err := s.skills.Create(s.ctx, Fields{"name": "Go", "is_active": "No", "order": float64(5)})
	s.Require().NoError(err)
	s.False(skill.IsActive)
	s.Equal(5, skill.Order)

	stored, err := s.skills.Get(s.ctx, skill.ID)
	s.Require().NoError(err)
	s.False(stored.IsActive)
}

func (s *EntityRepoTestSuite) TestCreateIgnoresGeneratedKeys() {
	fixed := uuid.New()
	skill, err := s.skills.Create(s.ctx, Fields{"name": "Go", "id": fixed.String(), "created_at": "2000-01-01T00:00:00Z"})
	s.Require().NoError(err)
	s.NotEqual(fixed, skill.ID)
	s.True(skill.CreatedAt.After(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func (s *EntityRepoTestSuite) TestCreateRejectsInvalidInput() {
	_, err := s.skills.Create(s.ctx, Fields{"proficiency": float64(120)})
	s.Require().Error(err)
	s.True(errs.IsValidation(err))

	var apiErr *errs.ApiErr
	s.Require().ErrorAs(err, &apiErr)
	s.Contains(apiErr.Fields, "name")
	s.Contains(apiErr.Fields, "proficiency")

	_, err = s.skills.Create(s.ctx, Fields{"name": "Go", "order": float64(-1)})
	s.True(errs.IsValidation(err))

	_, err = s.skills.Create(s.ctx, Fields{"name": "Go", "is_featured": "perhaps"})
	s.True(errs.IsValidation(err))

	var count int64
	s.db.Model(&models.Skill{}).Count(&count)
	s.Zero(count)
}

func (s *EntityRepoTestSuite) TestDeletedEntityIsNotFound() {
	skill := s.createSkill("Go")
	s.Require().NoError(s.skills.Delete(s.ctx, skill.ID))

	_, err := s.skills.Get(s.ctx, skill.ID)
	s.True(errs.IsNotFound(err))

	err = s.skills.Delete(s.ctx, skill.ID)
	s.True(errs.IsNotFound(err))
}

func (s *EntityRepoTestSuite) TestUpdateIsPartial() {
	skill, err := s.skills.Create(s.ctx, Fields{
		"name":        "Go",
		"category":    "Languages",
		"proficiency": float64(80),
		"tags":        []any{"backend", "cli"},
	})
	s.Require().NoError(err)

	updated, err := s.skills.Update(s.ctx, skill.ID, Fields{"proficiency": float64(90)})
	s.Require().NoError(err)
	s.Equal(90, updated.Proficiency)
	s.Equal("Go", updated.Name)
	s.Equal("Languages", updated.Category)
	s.Equal([]string{"backend", "cli"}, []string(updated.Tags))
	s.True(updated.IsActive)
	s.Equal(skill.CreatedAt.Unix(), updated.CreatedAt.Unix())

	stored, err := s.skills.Get(s.ctx, skill.ID)
	s.Require().NoError(err)
	s.Equal(90, stored.Proficiency)
	s.Equal("Languages", stored.Category)
}

func (s *EntityRepoTestSuite) TestUpdateMissingIsNotFound() {
	_, err := s.skills.Update(s.ctx, uuid.New(), Fields{"name": "x"})
	s.True(errs.IsNotFound(err))
}

func (s *EntityRepoTestSuite) TestReorderToPermutation() {
	a, b, c := s.createSkill("A"), s.createSkill("B"), s.createSkill("C")

	s.Require().NoError(s.skills.ReorderIDs(s.ctx, []uuid.UUID{c.ID, a.ID, b.ID}))

	page, err := s.skills.List(s.ctx, Query{Sort: "order"})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 3)
	s.Equal([]uuid.UUID{c.ID, a.ID, b.ID}, []uuid.UUID{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID})
}

func (s *EntityRepoTestSuite) TestReorderIsAllOrNothing() {
	a, b := s.createSkill("A"), s.createSkill("B")
	missing := uuid.New()

	err := s.skills.Reorder(s.ctx, []OrderAssignment{{ID: a.ID, Order: 1}, {ID: missing, Order: 0}})
	s.Require().Error(err)
	s.True(errs.IsNotFound(err))
	s.Contains(err.Error(), missing.String())
	s.Equal(map[string]int{"A": 0, "B": 1}, s.orders())

	err = s.skills.Reorder(s.ctx, []OrderAssignment{{ID: a.ID, Order: 1}, {ID: a.ID, Order: 0}})
	s.True(errs.IsValidation(err))

	err = s.skills.Reorder(s.ctx, []OrderAssignment{{ID: b.ID, Order: -2}})
	s.True(errs.IsValidation(err))
	s.Equal(map[string]int{"A": 0, "B": 1}, s.orders())
}

func (s *EntityRepoTestSuite) TestDeleteShiftsLaterOrders() {
	s.createSkill("A")
	b := s.createSkill("B")
	s.createSkill("C")
	s.createSkill("D")

	s.Require().NoError(s.skills.Delete(s.ctx, b.ID))
	s.Equal(map[string]int{"A": 0, "C": 1, "D": 2}, s.orders())
}

func (s *EntityRepoTestSuite) TestDeleteIfExistsIsIdempotent() {
	skill := s.createSkill("A")

	deleted, err := s.skills.DeleteIfExists(s.ctx, skill.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.skills.DeleteIfExists(s.ctx, skill.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *EntityRepoTestSuite) TestCompactClosesGaps() {
	for i, name := range []string{"A", "B", "C"} {
		_, err := s.skills.Create(s.ctx, Fields{"name": name, "order": float64((i + 1) * 10)})
		s.Require().NoError(err)
	}

	moved, err := s.skills.Compact(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, moved)
	s.Equal(map[string]int{"A": 0, "B": 1, "C": 2}, s.orders())

	moved, err = s.skills.Compact(s.ctx)
	s.Require().NoError(err)
	s.Zero(moved)
}

func (s *EntityRepoTestSuite) TestListFiltersAndSearch() {
	_, err := s.skills.Create(s.ctx, Fields{"name": "Go", "category": "Languages"})
	s.Require().NoError(err)
	_, err = s.skills.Create(s.ctx, Fields{"name": "PostgreSQL", "category": "Databases"})
	s.Require().NoError(err)
	_, err = s.skills.Create(s.ctx, Fields{"name": "Rust", "category": "Languages", "is_active": false})
	s.Require().NoError(err)

	page, err := s.skills.List(s.ctx, Query{Filters: map[string]string{"category": "Languages", "is_active": "yes"}})
	s.Require().NoError(err)
	s.Equal(int64(1), page.Total)
	s.Equal("Go", page.Items[0].Name)

	page, err = s.skills.List(s.ctx, Query{Search: "GRES"})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("PostgreSQL", page.Items[0].Name)

	page, err = s.skills.List(s.ctx, Query{Sort: "-name", PerPage: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), page.Total)
	s.Equal(2, page.TotalPages)
	s.Equal([]string{"Rust", "PostgreSQL"}, []string{page.Items[0].Name, page.Items[1].Name})

	_, err = s.skills.List(s.ctx, Query{Filters: map[string]string{"icon": "x"}})
	s.True(errs.IsValidation(err))

	_, err = s.skills.List(s.ctx, Query{Sort: "icon"})
	s.True(errs.IsValidation(err))
}

func (s *EntityRepoTestSuite) TestSearchTreatsWildcardsLiterally() {
	s.createSkill("100% Go")
	s.createSkill("Go")

	page, err := s.skills.List(s.ctx, Query{Search: "%"})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("100% Go", page.Items[0].Name)
}

func (s *EntityRepoTestSuite) TestToggleAndSetActive() {
	skill := s.createSkill("Go")

	toggled, err := s.skills.ToggleFeatured(s.ctx, skill.ID)
	s.Require().NoError(err)
	s.True(toggled.IsFeatured)

	toggled, err = s.skills.ToggleActive(s.ctx, skill.ID)
	s.Require().NoError(err)
	s.False(toggled.IsActive)

	changed, err := s.skills.SetActive(s.ctx, skill.ID, true)
	s.Require().NoError(err)
	s.True(changed)

	changed, err = s.skills.SetActive(s.ctx, skill.ID, true)
	s.Require().NoError(err)
	s.False(changed)

	_, err = s.skills.ToggleFeatured(s.ctx, uuid.New())
	s.True(errs.IsNotFound(err))
}

func TestEntityRepoTestSuite(t *testing.T) {
	suite.Run(t, new(EntityRepoTestSuite))
}

func TestToggleRejectedWithoutFlag(t *testing.T) {
	db := newTestDB(t)
	languages := NewEntityRepo[models.Language](db, validation.New())
	lang, err := languages.Create(context.Background(), Fields{"name": "English"})
	require.NoError(t, err)

	_, err = languages.ToggleFeatured(context.Background(), lang.ID)
	assert.True(t, errs.IsUnsupportedOperation(err))

	_, err = languages.ToggleActive(context.Background(), lang.ID)
	assert.True(t, errs.IsUnsupportedOperation(err))

	assert.True(t, errs.IsUnsupportedOperation(languages.ReorderIDs(context.Background(), []uuid.UUID{lang.ID})))
}

func TestLanguageNameIsUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	languages := NewEntityRepo[models.Language](db, validation.New())

	english, err := languages.Create(ctx, Fields{"name": "English"})
	require.NoError(t, err)

	_, err = languages.Create(ctx, Fields{"name": "english"})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	_, err = languages.Update(ctx, english.ID, Fields{"name": "ENGLISH", "proficiency": "native"})
	assert.NoError(t, err, "a row never conflicts with itself")
}

func TestExperienceCurrentClearsEndDate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	experiences := NewEntityRepo[models.Experience](db, validation.New())

	exp, err := experiences.Create(ctx, Fields{
		"company":    "Acme",
		"position":   "Engineer",
		"start_date": "2020-01-01",
		"end_date":   "2021-06-30",
	})
	require.NoError(t, err)
	require.NotNil(t, exp.EndDate)

	updated, err := experiences.Update(ctx, exp.ID, Fields{"is_current": true})
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)

	stored, err := experiences.Get(ctx, exp.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EndDate)
	assert.True(t, stored.IsCurrent)
	assert.Equal(t, "2020-01-01", time.Time(stored.StartDate).Format(models.DateLayout))

	_, err = experiences.Update(ctx, exp.ID, Fields{"is_current": false, "end_date": "2019-01-01"})
	assert.True(t, errs.IsValidation(err))
}

func TestDefaultSortUsesTieBreak(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	portfolios := NewEntityRepo[models.Portfolio](db, validation.New())

	for _, fields := range []Fields{
		{"title": "Old", "order": float64(0), "completed_at": "2020-01-01"},
		{"title": "New", "order": float64(0), "completed_at": "2023-01-01"},
		{"title": "Beta", "order": float64(0), "completed_at": "2023-01-01"},
	} {
		_, err := portfolios.Create(ctx, fields)
		require.NoError(t, err)
	}

	items, err := portfolios.All(ctx)
	require.NoError(t, err)
	var titles []string
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"Beta", "New", "Old"}, titles)
}

func TestNullDatesSortLastInBothDirections(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	portfolios := NewEntityRepo[models.Portfolio](db, validation.New())

	for _, fields := range []Fields{
		{"title": "Undated", "order": float64(0)},
		{"title": "Old", "order": float64(0), "completed_at": "2020-01-01"},
		{"title": "New", "order": float64(0), "completed_at": "2023-01-01"},
	} {
		_, err := portfolios.Create(ctx, fields)
		require.NoError(t, err)
	}

	titles := func(items []models.Portfolio) []string {
		out := []string{}
		for _, item := range items {
			out = append(out, item.Title)
		}
		return out
	}

	items, err := portfolios.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Old", "Undated"}, titles(items))

	page, err := portfolios.List(ctx, Query{Sort: "completed_at"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Old", "New", "Undated"}, titles(page.Items))

	page, err = portfolios.List(ctx, Query{Sort: "-completed_at"})
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Old", "Undated"}, titles(page.Items))
}

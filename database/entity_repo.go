package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Fields is loosely typed input for create and update: a decoded JSON body or an import row.
type Fields map[string]any

// Validator is the validation collaborator consulted before every write.
type Validator interface {
	Struct(value any) error
}

// Query narrows, orders and pages a List call. Filters hold raw values and are
// coerced by the schema's declared kinds.
type Query struct {
	Filters map[string]string
	Search  string
	Sort    string
	Page    int
	PerPage int
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// EntityRepo is the store for one content type, driven by its schema.
type EntityRepo[T models.Entity] struct {
	db        *gorm.DB
	schema    *models.Schema
	validator Validator
}

func NewEntityRepo[T models.Entity](db *gorm.DB, validator Validator) *EntityRepo[T] {
	var zero T
	return &EntityRepo[T]{db: db, schema: zero.Schema(), validator: validator}
}

func (r *EntityRepo[T]) Schema() *models.Schema {
	return r.schema
}

func (r *EntityRepo[T]) model() *T {
	return new(T)
}

// Create fills schema defaults and the next order, validates, enforces uniqueness and inserts.
func (r *EntityRepo[T]) Create(ctx context.Context, fields Fields) (*T, error) {
	input, err := r.prepare(fields)
	if err != nil {
		return nil, err
	}
	// A null value counts as absent so defaults and the next order still apply.
	for key, value := range input {
		if value == nil {
			delete(input, key)
		}
	}

	var created T
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range r.schema.Defaults {
			if _, ok := input[key]; !ok {
				input[key] = value
			}
		}
		if r.schema.Ordered {
			if _, ok := input["order"]; !ok {
				next, err := r.nextOrder(tx)
				if err != nil {
					return err
				}
				input["order"] = next
			}
		}

		if err := decodeInto(&created, input); err != nil {
			return err
		}
		if err := r.check(tx, &created); err != nil {
			return err
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", r.schema.Label, err)
	}
	return &created, nil
}

// Update merges the supplied fields over the stored row; omitted fields keep their values.
func (r *EntityRepo[T]) Update(ctx context.Context, id uuid.UUID, fields Fields) (*T, error) {
	input, err := r.prepare(fields)
	if err != nil {
		return nil, err
	}

	var item T
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			return err
		}
		if err := decodeInto(&item, input); err != nil {
			return err
		}
		if err := r.check(tx, &item); err != nil {
			return err
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", r.schema.Label, err)
	}
	return &item, nil
}

// Delete removes the row and closes the gap it leaves in the order sequence.
func (r *EntityRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := r.DeleteIfExists(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewNotFound(r.schema.Label)
	}
	return nil
}

// DeleteIfExists is Delete without the not-found error, for idempotent batch use.
func (r *EntityRepo[T]) DeleteIfExists(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item T
		err := tx.Where("id = ?", id).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(r.model())
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0

		if ordered, ok := any(item).(models.Ordered); ok && deleted {
			return r.shiftAfterDeletion(tx, ordered.SortOrder())
		}
		return nil
	})
	if err != nil {
		return false, errs.NewDatabaseError("delete", r.schema.Label, err)
	}
	return deleted, nil
}

func (r *EntityRepo[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, errs.NewDatabaseError("get", r.schema.Label, err)
	}
	return &item, nil
}

// All returns every row in default order, for export.
func (r *EntityRepo[T]) All(ctx context.Context) ([]T, error) {
	items := []T{}
	tx := r.db.WithContext(ctx).Model(r.model())
	for _, key := range r.schema.DefaultSort() {
		tx = tx.Order(orderBy(key))
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, errs.NewDatabaseError("list", r.schema.Label, err)
	}
	return items, nil
}

// List applies declared filters, substring search, sorting and pagination.
func (r *EntityRepo[T]) List(ctx context.Context, query Query) (Page[T], error) {
	page := Page[T]{Items: []T{}, Page: query.Page, PerPage: query.PerPage}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 {
		page.PerPage = DefaultPerPage
	}
	if page.PerPage > MaxPerPage {
		page.PerPage = MaxPerPage
	}

	tx, err := r.filtered(r.db.WithContext(ctx).Model(r.model()), query)
	if err != nil {
		return page, err
	}
	sorts, err := r.sortKeys(query.Sort)
	if err != nil {
		return page, err
	}

	if err := tx.Count(&page.Total).Error; err != nil {
		return page, errs.NewDatabaseError("count", r.schema.Label, err)
	}
	for _, key := range sorts {
		tx = tx.Order(orderBy(key))
	}
	if err := tx.Offset((page.Page - 1) * page.PerPage).Limit(page.PerPage).Find(&page.Items).Error; err != nil {
		return page, errs.NewDatabaseError("list", r.schema.Label, err)
	}
	page.TotalPages = int(math.Ceil(float64(page.Total) / float64(page.PerPage)))
	return page, nil
}

// ToggleFeatured flips is_featured. Types without the flag reject the call.
func (r *EntityRepo[T]) ToggleFeatured(ctx context.Context, id uuid.UUID) (*T, error) {
	if !r.schema.HasFeatured {
		return nil, errs.NewUnsupportedOperationError("toggle featured", r.schema.Name)
	}
	return r.toggle(ctx, id, "is_featured")
}

// ToggleActive flips is_active. Types without the flag reject the call.
func (r *EntityRepo[T]) ToggleActive(ctx context.Context, id uuid.UUID) (*T, error) {
	if !r.schema.HasActive {
		return nil, errs.NewUnsupportedOperationError("toggle active", r.schema.Name)
	}
	return r.toggle(ctx, id, "is_active")
}

func (r *EntityRepo[T]) toggle(ctx context.Context, id uuid.UUID, column string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(r.model()).Where("id = ?", id).Update(column, gorm.Expr("NOT "+column))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound(r.schema.Label)
		}
		return tx.Where("id = ?", id).First(&item).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("toggle "+column+" on", r.schema.Label, err)
	}
	return &item, nil
}

// SetActive sets is_active and reports whether the stored value changed.
func (r *EntityRepo[T]) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	if !r.schema.HasActive {
		return false, errs.NewUnsupportedOperationError("set active", r.schema.Name)
	}
	result := r.db.WithContext(ctx).Model(r.model()).
		Where("id = ? AND is_active <> ?", id, active).
		Update("is_active", active)
	if result.Error != nil {
		return false, errs.NewDatabaseError("update", r.schema.Label, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// prepare drops generated keys and coerces values to their declared kinds.
func (r *EntityRepo[T]) prepare(fields Fields) (map[string]any, error) {
	input := make(map[string]any, len(fields))
	for key, value := range fields {
		switch key {
		case "id", "created_at", "updated_at":
			continue
		}
		input[key] = value
	}

	coerced, problems := r.schema.Coerce(input)
	if len(problems) > 0 {
		return nil, errs.NewValidationError(problems)
	}
	return coerced, nil
}

// check runs every write-time rule against the decoded entity, in the order callers see them.
func (r *EntityRepo[T]) check(tx *gorm.DB, item *T) error {
	if normalizer, ok := any(item).(models.Normalizer); ok {
		normalizer.Normalize()
	}
	if r.validator != nil {
		if err := r.validator.Struct(item); err != nil {
			return err
		}
	}
	if ordered, ok := any(*item).(models.Ordered); ok && ordered.SortOrder() < 0 {
		return errs.NewValidationError(map[string]string{"order": "must not be negative"})
	}
	return r.checkUnique(tx, *item)
}

func (r *EntityRepo[T]) checkUnique(tx *gorm.DB, item T) error {
	if len(r.schema.Unique) == 0 {
		return nil
	}
	values, err := toMap(item)
	if err != nil {
		return err
	}
	for _, key := range r.schema.Unique {
		value, _ := values[key].(string)
		column := r.schema.ColumnFor(key)

		var count int64
		err := tx.Model(r.model()).
			Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", column), value).
			Where("id <> ?", item.GetID()).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.NewUniqueConstraintViolationError(r.schema.Name, key, nil)
		}
	}
	return nil
}

func (r *EntityRepo[T]) filtered(tx *gorm.DB, query Query) (*gorm.DB, error) {
	problems := map[string]string{}
	for key, raw := range query.Filters {
		kind, ok := r.schema.Filterable[key]
		if !ok {
			problems[key] = "is not a filterable field"
			continue
		}
		value, err := models.CoerceValue(kind, raw)
		if err != nil {
			problems[key] = err.Error()
			continue
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: r.schema.ColumnFor(key)}, Value: value})
	}
	if len(problems) > 0 {
		return nil, errs.NewValidationError(problems)
	}

	if search := strings.TrimSpace(query.Search); search != "" && len(r.schema.Searchable) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		conditions := make([]string, 0, len(r.schema.Searchable))
		args := make([]any, 0, len(r.schema.Searchable))
		for _, key := range r.schema.Searchable {
			conditions = append(conditions, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '\\'", r.schema.ColumnFor(key)))
			args = append(args, pattern)
		}
		tx = tx.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}
	return tx, nil
}

// sortKeys resolves "field" or "-field" to a full, deterministic ordering.
func (r *EntityRepo[T]) sortKeys(sort string) ([]models.SortKey, error) {
	defaults := r.schema.DefaultSort()
	sort = strings.TrimSpace(sort)
	if sort == "" {
		return defaults, nil
	}

	desc := strings.HasPrefix(sort, "-")
	key := strings.TrimPrefix(sort, "-")
	if !r.schema.CanSortBy(key) {
		return nil, errs.NewValidationError(map[string]string{"sort": fmt.Sprintf("cannot sort by %q", key)})
	}

	first := models.SortKey{Column: r.schema.ColumnFor(key), Desc: desc}
	keys := []models.SortKey{first}
	for _, k := range defaults {
		if k.Column != first.Column {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// orderBy pins NULLs last in both directions; Postgres and SQLite disagree
// on the default. Column names come from the schema allowlist, so the raw
// expression never carries client text.
func orderBy(key models.SortKey) clause.OrderByColumn {
	expr := key.Column
	if key.Desc {
		expr += " DESC"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: expr + " NULLS LAST", Raw: true}}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// decodeInto overlays input onto dst through its JSON tags. Keys absent from
// input leave dst untouched, which is what makes Update a partial merge.
func decodeInto(dst any, input map[string]any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return errs.NewMalformedPayloadError("entity", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return errs.NewValidationError(map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()})
		}
		return errs.NewValidationError(map[string]string{"_": err.Error()})
	}
	return nil
}

// toMap renders an entity as its JSON field map.
func toMap(item any) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	return values, nil
}

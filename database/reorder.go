package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// OrderAssignment moves one row to a new position.
type OrderAssignment struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

// Reorder applies every assignment or none of them.
func (r *EntityRepo[T]) Reorder(ctx context.Context, assignments []OrderAssignment) error {
	if !r.schema.Ordered {
		return errs.NewUnsupportedOperationError("reorder", r.schema.Name)
	}
	if len(assignments) == 0 {
		return errs.NewValidationError(map[string]string{"items": "is required"})
	}

	problems := map[string]string{}
	ids := make([]uuid.UUID, 0, len(assignments))
	seen := make(map[uuid.UUID]bool, len(assignments))
	for i, a := range assignments {
		key := fmt.Sprintf("items[%d]", i)
		if seen[a.ID] {
			problems[key] = fmt.Sprintf("duplicate id %s", a.ID)
		}
		if a.Order < 0 {
			problems[key] = "order must not be negative"
		}
		seen[a.ID] = true
		ids = append(ids, a.ID)
	}
	if len(problems) > 0 {
		return errs.NewValidationError(problems)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []uuid.UUID
		if err := tx.Model(r.model()).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		if missing := missingIDs(ids, found); len(missing) > 0 {
			notFound := errs.NewNotFound(r.schema.Label)
			notFound.Details = "unknown ids: " + strings.Join(missing, ", ")
			return notFound
		}

		for _, a := range assignments {
			if err := tx.Model(r.model()).Where("id = ?", a.ID).Update("sort_order", a.Order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("reorder", r.schema.Label, err)
	}
	return nil
}

// ReorderIDs assigns 0..n-1 following the given id sequence.
func (r *EntityRepo[T]) ReorderIDs(ctx context.Context, ids []uuid.UUID) error {
	assignments := make([]OrderAssignment, len(ids))
	for i, id := range ids {
		assignments[i] = OrderAssignment{ID: id, Order: i}
	}
	return r.Reorder(ctx, assignments)
}

// shiftAfterDeletion pulls every row after the deleted position up by one.
func (r *EntityRepo[T]) shiftAfterDeletion(tx *gorm.DB, deletedOrder int) error {
	return tx.Model(r.model()).
		Where("sort_order > ?", deletedOrder).
		Update("sort_order", gorm.Expr("sort_order - 1")).Error
}

// Compact renumbers the collection 0..n-1 in its current sort order and
// returns how many rows moved.
func (r *EntityRepo[T]) Compact(ctx context.Context) (int, error) {
	if !r.schema.Ordered {
		return 0, errs.NewUnsupportedOperationError("compact", r.schema.Name)
	}

	moved := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type row struct {
			ID        uuid.UUID
			SortOrder int
		}
		var rows []row
		q := tx.Model(r.model()).Select("id", "sort_order")
		for _, key := range r.schema.DefaultSort() {
			q = q.Order(orderBy(key))
		}
		if err := q.Scan(&rows).Error; err != nil {
			return err
		}

		for i, current := range rows {
			if current.SortOrder == i {
				continue
			}
			if err := tx.Model(r.model()).Where("id = ?", current.ID).Update("sort_order", i).Error; err != nil {
				return err
			}
			moved++
		}
		return nil
	})
	if err != nil {
		return 0, errs.NewDatabaseError("compact", r.schema.Label, err)
	}
	return moved, nil
}

func (r *EntityRepo[T]) nextOrder(tx *gorm.DB) (int, error) {
	var next int
	err := tx.Model(r.model()).Select("COALESCE(MAX(sort_order), -1) + 1").Scan(&next).Error
	return next, err
}

func missingIDs(want, found []uuid.UUID) []string {
	present := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	var missing []string
	for _, id := range want {
		if !present[id] {
			missing = append(missing, id.String())
		}
	}
	return missing
}

package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Store is the type-erased view of an EntityRepo used where the content type is
// only known at run time: collection routes, bulk actions and import/export.
type Store interface {
	Schema() *models.Schema
	Create(ctx context.Context, fields Fields) (any, error)
	Update(ctx context.Context, id uuid.UUID, fields Fields) (any, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteIfExists(ctx context.Context, id uuid.UUID) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (any, error)
	List(ctx context.Context, query Query) (any, error)
	All(ctx context.Context) ([]any, error)
	ToggleFeatured(ctx context.Context, id uuid.UUID) (any, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (any, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
	Reorder(ctx context.Context, assignments []OrderAssignment) error
	ReorderIDs(ctx context.Context, ids []uuid.UUID) error
	Compact(ctx context.Context) (int, error)
}

type erasedStore[T models.Entity] struct {
	repo *EntityRepo[T]
}

// Erase wraps a typed repo as a Store.
func Erase[T models.Entity](repo *EntityRepo[T]) Store {
	return erasedStore[T]{repo: repo}
}

func (s erasedStore[T]) Schema() *models.Schema {
	return s.repo.Schema()
}

func (s erasedStore[T]) Create(ctx context.Context, fields Fields) (any, error) {
	return nilIfErr(s.repo.Create(ctx, fields))
}

func (s erasedStore[T]) Update(ctx context.Context, id uuid.UUID, fields Fields) (any, error) {
	return nilIfErr(s.repo.Update(ctx, id, fields))
}

func (s erasedStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s erasedStore[T]) DeleteIfExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.DeleteIfExists(ctx, id)
}

func (s erasedStore[T]) Get(ctx context.Context, id uuid.UUID) (any, error) {
	return nilIfErr(s.repo.Get(ctx, id))
}

func (s erasedStore[T]) List(ctx context.Context, query Query) (any, error) {
	page, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s erasedStore[T]) All(ctx context.Context) ([]any, error) {
	items, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out, nil
}

func (s erasedStore[T]) ToggleFeatured(ctx context.Context, id uuid.UUID) (any, error) {
	return nilIfErr(s.repo.ToggleFeatured(ctx, id))
}

func (s erasedStore[T]) ToggleActive(ctx context.Context, id uuid.UUID) (any, error) {
	return nilIfErr(s.repo.ToggleActive(ctx, id))
}

func (s erasedStore[T]) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	return s.repo.SetActive(ctx, id, active)
}

func (s erasedStore[T]) Reorder(ctx context.Context, assignments []OrderAssignment) error {
	return s.repo.Reorder(ctx, assignments)
}

func (s erasedStore[T]) ReorderIDs(ctx context.Context, ids []uuid.UUID) error {
	return s.repo.ReorderIDs(ctx, ids)
}

func (s erasedStore[T]) Compact(ctx context.Context) (int, error) {
	return s.repo.Compact(ctx)
}

// nilIfErr keeps a typed nil pointer from turning into a non-nil interface.
func nilIfErr[T any](item *T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Stores lists every content store in a stable order.
func (d Database) Stores() []Store {
	return []Store{
		Erase(d.portfolioRepo),
		Erase(d.experienceRepo),
		Erase(d.skillRepo),
		Erase(d.achievementRepo),
		Erase(d.certificationRepo),
		Erase(d.languageRepo),
		Erase(d.interestRepo),
		Erase(d.socialLinkRepo),
	}
}

// Store finds a content store by entity type or collection name.
func (d Database) Store(name string) (Store, bool) {
	schema, ok := models.LookupSchema(name)
	if !ok {
		return nil, false
	}
	for _, store := range d.Stores() {
		if store.Schema() == schema {
			return store, true
		}
	}
	return nil, false
}

package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type ProfileRepo struct {
	db        *gorm.DB
	validator Validator
}

func NewProfileRepo(db *gorm.DB, validator Validator) *ProfileRepo {
	return &ProfileRepo{db: db, validator: validator}
}

// Get returns the site owner's profile, or NotFound before one is saved.
func (r *ProfileRepo) Get(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Order("created_at").First(&profile).Error; err != nil {
		return nil, errs.NewDatabaseError("get", "Profile", err)
	}
	return &profile, nil
}

// Update merges fields into the profile, creating the row on first use.
func (r *ProfileRepo) Update(ctx context.Context, fields Fields) (*models.Profile, error) {
	input := make(map[string]any, len(fields))
	for key, value := range fields {
		switch key {
		case "id", "created_at", "updated_at", "photo_path", "cv_path":
			continue
		}
		input[key] = value
	}
	return r.mutate(ctx, func(profile *models.Profile) error {
		if err := decodeInto(profile, input); err != nil {
			return err
		}
		if r.validator != nil {
			return r.validator.Struct(profile)
		}
		return nil
	})
}

// SetPhotoPath stores a new photo path and returns the path it replaced.
func (r *ProfileRepo) SetPhotoPath(ctx context.Context, path string) (string, error) {
	var previous string
	_, err := r.mutate(ctx, func(profile *models.Profile) error {
		previous, profile.PhotoPath = profile.PhotoPath, path
		return nil
	})
	return previous, err
}

// SetCVPath stores a new CV path and returns the path it replaced.
func (r *ProfileRepo) SetCVPath(ctx context.Context, path string) (string, error) {
	var previous string
	_, err := r.mutate(ctx, func(profile *models.Profile) error {
		previous, profile.CVPath = profile.CVPath, path
		return nil
	})
	return previous, err
}

func (r *ProfileRepo) mutate(ctx context.Context, change func(*models.Profile) error) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("created_at").First(&profile).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := change(&profile); err != nil {
			return err
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, errs.NewDatabaseError("update", "Profile", err)
	}
	return &profile, nil
}

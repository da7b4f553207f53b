package database

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const messageLabel = "Message"

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

// MessageQuery filters the admin inbox.
type MessageQuery struct {
	Status  models.MessageStatus
	Search  string
	Page    int
	PerPage int
}

func (r *MessageRepo) Add(ctx context.Context, msg *models.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return errs.NewDatabaseError("create", messageLabel, err)
	}
	return nil
}

func (r *MessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error; err != nil {
		return nil, errs.NewDatabaseError("get", messageLabel, err)
	}
	return &msg, nil
}

// Transition loads the message, applies change and saves it when change reports
// a modification. Everything happens in one transaction.
func (r *MessageRepo) Transition(ctx context.Context, id uuid.UUID, change func(*models.ContactMessage) (bool, error)) (*models.ContactMessage, bool, error) {
	var msg models.ContactMessage
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&msg).Error; err != nil {
			return err
		}
		var err error
		if changed, err = change(&msg); err != nil || !changed {
			return err
		}
		return tx.Save(&msg).Error
	})
	if err != nil {
		return nil, false, errs.NewDatabaseError("update", messageLabel, err)
	}
	return &msg, changed, nil
}

// Delete reports whether a row was removed.
func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ContactMessage{})
	if result.Error != nil {
		return false, errs.NewDatabaseError("delete", messageLabel, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// List returns newest messages first.
func (r *MessageRepo) List(ctx context.Context, query MessageQuery) (Page[models.ContactMessage], error) {
	page := Page[models.ContactMessage]{Items: []models.ContactMessage{}, Page: query.Page, PerPage: query.PerPage}
	if page.Page < 1 {
		page.Page = 1
	}
	if page.PerPage < 1 {
		page.PerPage = DefaultPerPage
	}
	if page.PerPage > MaxPerPage {
		page.PerPage = MaxPerPage
	}

	tx := r.db.WithContext(ctx).Model(&models.ContactMessage{})
	if query.Status != "" {
		if !query.Status.Valid() {
			return page, errs.NewValidationError(map[string]string{"status": fmt.Sprintf("unknown status %q", query.Status)})
		}
		tx = tx.Where("status = ?", query.Status)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		tx = tx.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(subject) LIKE ? ESCAPE '\' OR LOWER(body) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern)
	}

	if err := tx.Count(&page.Total).Error; err != nil {
		return page, errs.NewDatabaseError("count", messageLabel, err)
	}
	err := tx.Order("created_at DESC").Order("id").
		Offset((page.Page - 1) * page.PerPage).Limit(page.PerPage).
		Find(&page.Items).Error
	if err != nil {
		return page, errs.NewDatabaseError("list", messageLabel, err)
	}
	page.TotalPages = int(math.Ceil(float64(page.Total) / float64(page.PerPage)))
	return page, nil
}

// StatusCounts returns the number of messages per status, every status present.
func (r *MessageRepo) StatusCounts(ctx context.Context) (map[models.MessageStatus]int64, error) {
	var rows []struct {
		Status models.MessageStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errs.NewDatabaseError("count", messageLabel, err)
	}

	counts := make(map[models.MessageStatus]int64, len(models.MessageStatuses))
	for _, status := range models.MessageStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

func TestMessageRepoTransition(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestDB(t))

	msg := models.NewContactMessage("Ada", "ada@example.com", "Hi", "hello there")
	require.NoError(t, repo.Add(ctx, msg))

	now := time.Now()
	read, changed, err := repo.Transition(ctx, msg.ID, func(m *models.ContactMessage) (bool, error) {
		return m.MarkRead(now), nil
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.StatusRead, read.Status)

	_, changed, err = repo.Transition(ctx, msg.ID, func(m *models.ContactMessage) (bool, error) {
		return m.MarkRead(now), nil
	})
	require.NoError(t, err)
	assert.False(t, changed)

	stored, err := repo.FindByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRead, stored.Status)
	require.NotNil(t, stored.ReadAt)

	_, _, err = repo.Transition(ctx, uuid.New(), func(m *models.ContactMessage) (bool, error) { return true, nil })
	assert.True(t, errs.IsNotFound(err))
}

func TestMessageRepoListAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(newTestDB(t))

	for _, name := range []string{"Ada", "Grace", "Linus"} {
		require.NoError(t, repo.Add(ctx, models.NewContactMessage(name, "x@example.com", "", "about "+name)))
	}
	page, err := repo.List(ctx, MessageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)

	_, _, err = repo.Transition(ctx, page.Items[0].ID, func(m *models.ContactMessage) (bool, error) {
		return m.Archive(time.Now()), nil
	})
	require.NoError(t, err)

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.MessageStatus]int64{
		models.StatusNew:      2,
		models.StatusRead:     0,
		models.StatusReplied:  0,
		models.StatusArchived: 1,
	}, counts)

	page, err = repo.List(ctx, MessageQuery{Status: models.StatusNew, Search: "grace"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Grace", page.Items[0].Name)

	_, err = repo.List(ctx, MessageQuery{Status: "spam"})
	assert.True(t, errs.IsValidation(err))

	deleted, err := repo.Delete(ctx, page.Items[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.FindByID(ctx, page.Items[0].ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestProfileRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepo(newTestDB(t), nil)

	_, err := repo.Get(ctx)
	assert.True(t, errs.IsNotFound(err))

	profile, err := repo.Update(ctx, Fields{"full_name": "Ada Lovelace", "headline": "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.FullName)

	previous, err := repo.SetPhotoPath(ctx, "profile/photo-1.jpg")
	require.NoError(t, err)
	assert.Empty(t, previous)

	previous, err = repo.SetPhotoPath(ctx, "profile/photo-2.jpg")
	require.NoError(t, err)
	assert.Equal(t, "profile/photo-1.jpg", previous)

	profile, err = repo.Update(ctx, Fields{"bio": "Hello", "photo_path": "../../etc/passwd"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
	assert.Equal(t, "Hello", profile.Bio)
	assert.Equal(t, "profile/photo-2.jpg", profile.PhotoPath)

	var count int64
	repo.db.Model(&models.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGormEventLog(t *testing.T) {
	ctx := context.Background()
	events := NewGormEventLog(newTestDB(t))
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	add := func(eventType, page, ip string, at time.Time) {
		require.NoError(t, events.Append(ctx, &models.AnalyticsEvent{EventType: eventType, Page: page, IPAddress: ip, CreatedAt: at}))
	}
	add(models.EventPageView, "/", "10.0.0.1", day.Add(time.Hour))
	add(models.EventPageView, "/", "10.0.0.1", day.Add(2*time.Hour))
	add(models.EventPageView, "/projects", "10.0.0.2", day.Add(3*time.Hour))
	add(models.EventCVDownload, "", "10.0.0.2", day.Add(4*time.Hour))
	add(models.EventPageView, "/", "10.0.0.3", day.Add(48*time.Hour))

	end := day.Add(24 * time.Hour)
	count, err := events.Count(ctx, models.EventPageView, day, end)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	visitors, err := events.CountDistinctIPs(ctx, models.EventPageView, day, end)
	require.NoError(t, err)
	assert.Equal(t, int64(2), visitors)

	stamps, err := events.Timestamps(ctx, models.EventPageView, day, end)
	require.NoError(t, err)
	assert.Len(t, stamps, 3)

	pages, err := events.TopPages(ctx, models.EventPageView, day, end, 10)
	require.NoError(t, err)
	assert.Equal(t, []PageCount{{Page: "/", Count: 2}, {Page: "/projects", Count: 1}}, pages)

	recent, err := events.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "10.0.0.3", recent[0].IPAddress)
}

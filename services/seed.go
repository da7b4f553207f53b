package services

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Seeder fills an empty database with plausible content for local development.
type Seeder struct {
	db database.Database
}

func NewSeeder(db database.Database, seed int64) *Seeder {
	_ = gofakeit.Seed(seed)
	return &Seeder{db: db}
}

// SeedCounts controls how much is generated.
type SeedCounts struct {
	Items    int
	Messages int
	Events   int
}

func (s *Seeder) Seed(ctx context.Context, counts SeedCounts) error {
	for _, store := range s.db.Stores() {
		schema := store.Schema()
		for i := 0; i < counts.Items; i++ {
			if _, err := store.Create(ctx, fakeFields(schema.Name, i)); err != nil {
				return fmt.Errorf("failed to seed %s: %w", schema.Collection, err)
			}
		}
		log.Info().Str("collection", schema.Collection).Int("count", counts.Items).Msg("Seeded collection")
	}

	statuses := models.MessageStatuses
	for i := 0; i < counts.Messages; i++ {
		msg := models.NewContactMessage(gofakeit.Name(), gofakeit.Email(), gofakeit.HipsterSentence(), fakeParagraph())
		msg.IPAddress = gofakeit.IPv4Address()
		msg.UserAgent = gofakeit.UserAgent()
		now := time.Now()
		switch statuses[i%len(statuses)] {
		case models.StatusRead:
			msg.MarkRead(now)
		case models.StatusReplied:
			_ = msg.MarkReplied(gofakeit.HipsterSentence(), now)
		case models.StatusArchived:
			msg.Archive(now)
		}
		if err := s.db.MessageRepo().Add(ctx, msg); err != nil {
			return fmt.Errorf("failed to seed messages: %w", err)
		}
	}
	log.Info().Int("count", counts.Messages).Msg("Seeded messages")

	eventTypes := []string{models.EventPageView, models.EventPageView, models.EventPageView, models.EventProjectView, models.EventCVDownload}
	pages := []string{"/", "/projects", "/experience", "/skills", "/contact"}
	for i := 0; i < counts.Events; i++ {
		event := &models.AnalyticsEvent{
			EventType: eventTypes[i%len(eventTypes)],
			Page:      gofakeit.RandomString(pages),
			IPAddress: gofakeit.IPv4Address(),
			UserAgent: gofakeit.UserAgent(),
			CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, 0, -30), time.Now()),
		}
		if err := s.db.EventLog().Append(ctx, event); err != nil {
			return fmt.Errorf("failed to seed analytics events: %w", err)
		}
	}
	log.Info().Int("count", counts.Events).Msg("Seeded analytics events")
	return nil
}

func fakeParagraph() string {
	return gofakeit.HipsterSentence() + " " + gofakeit.HipsterSentence() + " " + gofakeit.HipsterSentence()
}

func fakeDate(yearsBack int) string {
	return gofakeit.DateRange(time.Now().AddDate(-yearsBack, 0, 0), time.Now()).Format(models.DateLayout)
}

func fakeFields(entity string, i int) database.Fields {
	switch entity {
	case "portfolio":
		return database.Fields{
			"title":        gofakeit.AppName(),
			"description":  fakeParagraph(),
			"category":     gofakeit.RandomString([]string{"Web", "Mobile", "Data", "Tooling"}),
			"technologies": []any{gofakeit.ProgrammingLanguage(), gofakeit.ProgrammingLanguage()},
			"project_url":  gofakeit.URL(),
			"completed_at": fakeDate(4),
			"is_featured":  i%3 == 0,
		}
	case "experience":
		return database.Fields{
			"company":     gofakeit.Company(),
			"position":    gofakeit.JobTitle(),
			"location":    gofakeit.City(),
			"description": fakeParagraph(),
			"start_date":  fakeDate(10),
			"is_current":  i == 0,
		}
	case "skill":
		return database.Fields{
			"name":        fmt.Sprintf("%s %d", gofakeit.ProgrammingLanguage(), i),
			"category":    gofakeit.RandomString([]string{"Languages", "Databases", "Infrastructure"}),
			"proficiency": gofakeit.Number(30, 100),
			"is_featured": i%2 == 0,
		}
	case "achievement":
		return database.Fields{
			"title":       gofakeit.HipsterSentence(),
			"issuer":      gofakeit.Company(),
			"achieved_at": fakeDate(8),
		}
	case "certification":
		return database.Fields{
			"name":          gofakeit.HipsterSentence(),
			"issuer":        gofakeit.Company(),
			"issued_at":     fakeDate(5),
			"credential_id": gofakeit.UUID(),
		}
	case "language":
		return database.Fields{
			"name":        fmt.Sprintf("%s %d", gofakeit.Language(), i),
			"proficiency": gofakeit.RandomString([]string{"native", "fluent", "advanced", "intermediate", "basic"}),
		}
	case "interest":
		return database.Fields{
			"name":        gofakeit.Hobby(),
			"description": gofakeit.HipsterSentence(),
		}
	case "social-link":
		return database.Fields{
			"platform": gofakeit.RandomString([]string{"GitHub", "LinkedIn", "Mastodon", "Website"}),
			"url":      gofakeit.URL(),
		}
	default:
		return database.Fields{}
	}
}

package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type Database struct {
	db *gorm.DB

	portfolioRepo     *EntityRepo[models.Portfolio]
	experienceRepo    *EntityRepo[models.Experience]
	skillRepo         *EntityRepo[models.Skill]
	achievementRepo   *EntityRepo[models.Achievement]
	certificationRepo *EntityRepo[models.Certification]
	languageRepo      *EntityRepo[models.Language]
	interestRepo      *EntityRepo[models.Interest]
	socialLinkRepo    *EntityRepo[models.SocialLink]
	messageRepo       *MessageRepo
	profileRepo       *ProfileRepo
	eventLog          EventLog
}

// New initializes a new Database struct with each repository using a shared GORM database instance.
// A nil eventLog keeps analytics in the same database.
func New(db *gorm.DB, validator Validator, eventLog EventLog) Database {
	if eventLog == nil {
		eventLog = NewGormEventLog(db)
	}
	return Database{
		db:                db,
		portfolioRepo:     NewEntityRepo[models.Portfolio](db, validator),
		experienceRepo:    NewEntityRepo[models.Experience](db, validator),
		skillRepo:         NewEntityRepo[models.Skill](db, validator),
		achievementRepo:   NewEntityRepo[models.Achievement](db, validator),
		certificationRepo: NewEntityRepo[models.Certification](db, validator),
		languageRepo:      NewEntityRepo[models.Language](db, validator),
		interestRepo:      NewEntityRepo[models.Interest](db, validator),
		socialLinkRepo:    NewEntityRepo[models.SocialLink](db, validator),
		messageRepo:       NewMessageRepo(db),
		profileRepo:       NewProfileRepo(db, validator),
		eventLog:          eventLog,
	}
}

// Accessor methods for each repository

func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) PortfolioRepo() *EntityRepo[models.Portfolio] {
	return d.portfolioRepo
}

func (d Database) ExperienceRepo() *EntityRepo[models.Experience] {
	return d.experienceRepo
}

func (d Database) SkillRepo() *EntityRepo[models.Skill] {
	return d.skillRepo
}

func (d Database) AchievementRepo() *EntityRepo[models.Achievement] {
	return d.achievementRepo
}

func (d Database) CertificationRepo() *EntityRepo[models.Certification] {
	return d.certificationRepo
}

func (d Database) LanguageRepo() *EntityRepo[models.Language] {
	return d.languageRepo
}

func (d Database) InterestRepo() *EntityRepo[models.Interest] {
	return d.interestRepo
}

func (d Database) SocialLinkRepo() *EntityRepo[models.SocialLink] {
	return d.socialLinkRepo
}

func (d Database) MessageRepo() *MessageRepo {
	return d.messageRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) EventLog() EventLog {
	return d.eventLog
}

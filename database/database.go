package database

import (
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
)

// Domain errors surfaced by the repositories.
var (
	ErrDuplicateSlug      = errors.New("slug already exists")
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrCategoryNotFound   = errors.New("skill category not found")
)

type Database struct {
	userRepo          *UserRepo
	projectRepo       *ProjectRepo
	skillCategoryRepo *SkillCategoryRepo
	skillRepo         *SkillRepo
	contactRepo       *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:          NewUserRepo(db),
		projectRepo:       NewProjectRepo(db),
		skillCategoryRepo: NewSkillCategoryRepo(db),
		skillRepo:         NewSkillRepo(db),
		contactRepo:       NewContactRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) SkillCategoryRepo() *SkillCategoryRepo {
	return d.skillCategoryRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// Connect opens the primary postgres database and, when a replica DSN is
// configured, routes reads to it through dbresolver.
func Connect(cfg config.Config) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseReplicaURL != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(cfg.DatabaseReplicaURL)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.SkillCategory{},
		&models.Skill{},
		&models.ContactSubmission{},
	)
}

package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/config"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = Open(cfg.DSN())
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Open returns a GORM handle that translates driver errors such as unique
// violations into gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

type foreignKey struct {
	table      string
	name       string
	column     string
	references string
}

// Report rows go away with the person who filed them or the post they point at.
var foreignKeys = []foreignKey{
	{"local_users", "fk_local_users_person", "person_id", "persons(id)"},
	{"posts", "fk_posts_creator", "creator_id", "persons(id)"},
	{"posts", "fk_posts_community", "community_id", "communities(id)"},
	{"post_aggregates", "fk_post_aggregates_post", "post_id", "posts(id)"},
	{"community_actions", "fk_community_actions_person", "person_id", "persons(id)"},
	{"community_actions", "fk_community_actions_community", "community_id", "communities(id)"},
	{"post_actions", "fk_post_actions_person", "person_id", "persons(id)"},
	{"post_actions", "fk_post_actions_post", "post_id", "posts(id)"},
	{"person_actions", "fk_person_actions_person", "person_id", "persons(id)"},
	{"person_actions", "fk_person_actions_target", "target_id", "persons(id)"},
	{"post_reports", "fk_post_reports_creator", "creator_id", "persons(id)"},
	{"post_reports", "fk_post_reports_post", "post_id", "posts(id)"},
}

// Migrate runs AutoMigrate for every model and adds the cascading foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Person{},
		&models.LocalUser{},
		&models.Community{},
		&models.Post{},
		&models.PostAggregates{},
		&models.CommunityAction{},
		&models.PostAction{},
		&models.PersonAction{},
		&models.PostReport{},
		&models.SystemLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, fk := range foreignKeys {
		if db.Migrator().HasConstraint(fk.table, fk.name) {
			continue
		}
		stmt := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s ON DELETE CASCADE",
			fk.table, fk.name, fk.column, fk.references,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", fk.name, err)
		}
	}

	// Deleting the resolver clears resolver_id and keeps the report.
	if !db.Migrator().HasConstraint("post_reports", "fk_post_reports_resolver") {
		if err := db.Exec("ALTER TABLE post_reports ADD CONSTRAINT fk_post_reports_resolver FOREIGN KEY (resolver_id) REFERENCES persons(id) ON DELETE SET NULL").Error; err != nil {
			return fmt.Errorf("add constraint fk_post_reports_resolver: %w", err)
		}
	}
	return nil
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Package testdb opens the PostgreSQL database used by integration tests and
// seeds the rows report views join against.
package testdb

import (
	"os"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/modqueue/internal/database"
	"github.com/ahmetcoskunkizilkaya/modqueue/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Open connects to TEST_DATABASE_DSN and migrates it, skipping the test when unset.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func suffix() string {
	return uuid.NewString()[:8]
}

// Person inserts a person and removes it, with everything cascading from it, after the test.
func Person(t *testing.T, db *gorm.DB, name string) models.Person {
	t.Helper()
	p := models.Person{Name: name + "_" + suffix(), Local: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create person: %v", err)
	}
	t.Cleanup(func() { db.Delete(&models.Person{}, "id = ?", p.ID) })
	return p
}

func Admin(t *testing.T, db *gorm.DB, person models.Person) {
	t.Helper()
	if err := db.Create(&models.LocalUser{PersonID: person.ID, Admin: true}).Error; err != nil {
		t.Fatalf("create local user: %v", err)
	}
}

func Community(t *testing.T, db *gorm.DB, name string) models.Community {
	t.Helper()
	c := models.Community{Name: name + "_" + suffix(), Title: name}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create community: %v", err)
	}
	t.Cleanup(func() { db.Delete(&models.Community{}, "id = ?", c.ID) })
	return c
}

func Moderator(t *testing.T, db *gorm.DB, person models.Person, community models.Community) {
	t.Helper()
	now := time.Now()
	edge := models.CommunityAction{PersonID: person.ID, CommunityID: community.ID, BecameModerator: &now}
	if err := db.Create(&edge).Error; err != nil {
		t.Fatalf("create moderator: %v", err)
	}
}

func Post(t *testing.T, db *gorm.DB, name string, creator models.Person, community models.Community) models.Post {
	t.Helper()
	p := models.Post{Name: name, CreatorID: creator.ID, CommunityID: community.ID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Report files a report whose published time is set explicitly so ordering is deterministic.
func Report(t *testing.T, db *gorm.DB, creator models.Person, post models.Post, reason string, published time.Time) models.PostReport {
	t.Helper()
	r := models.PostReport{
		CreatorID:        creator.ID,
		PostID:           post.ID,
		OriginalPostName: "Orig post",
		Reason:           reason,
		Published:        published,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create report: %v", err)
	}
	return r
}

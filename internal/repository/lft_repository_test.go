package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// setupLFTTestDB creates an in-memory SQLite database for testing.
func setupLFTTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(
		&models.User{},
		&models.LFTPost{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func createTestPost(t *testing.T, repo *LFTRepository, authorID uint, game, region string) *models.LFTPost {
	t.Helper()

	post := &models.LFTPost{
		AuthorID:  authorID,
		Game:      game,
		Region:    region,
		Rank:      "Gold II",
		PlayStyle: "entry",
		IsActive:  true,
	}
	if err := repo.Create(post); err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}

func TestListActiveAuthorIDsRegionSubstring(t *testing.T) {
	db := setupLFTTestDB(t)
	repo := NewLFTRepository(db)

	createTestPost(t, repo, 1, "Valorant", "EU West")
	createTestPost(t, repo, 2, "Valorant", "euw")
	createTestPost(t, repo, 3, "Valorant", "NA East")
	createTestPost(t, repo, 4, "League of Legends", "EU West")

	ids, err := repo.ListActiveAuthorIDs("Valorant", "eu w")
	if err != nil {
		t.Fatalf("ListActiveAuthorIDs: %v", err)
	}
	// Case-insensitive substring: "EU West" contains "eu w"; "euw" does not.
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("ids = %v, want [1]", ids)
	}
}

func TestListActiveAuthorIDsIgnoresInactive(t *testing.T) {
	db := setupLFTTestDB(t)
	repo := NewLFTRepository(db)

	active := createTestPost(t, repo, 1, "Valorant", "EUW")
	stale := createTestPost(t, repo, 2, "Valorant", "EUW")
	stale.IsActive = false
	if err := db.Save(stale).Error; err != nil {
		t.Fatalf("deactivate post: %v", err)
	}

	ids, err := repo.ListActiveAuthorIDs("Valorant", "EUW")
	if err != nil {
		t.Fatalf("ListActiveAuthorIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != active.AuthorID {
		t.Errorf("ids = %v, want only the active author", ids)
	}
}

func TestGetActiveByAuthorLatest(t *testing.T) {
	db := setupLFTTestDB(t)
	repo := NewLFTRepository(db)

	createTestPost(t, repo, 1, "Valorant", "EUW")
	newer := createTestPost(t, repo, 1, "valorant", "NA")

	got, err := repo.GetActiveByAuthor(1, "VALORANT")
	if err != nil {
		t.Fatalf("GetActiveByAuthor: %v", err)
	}
	if got == nil || got.ID != newer.ID {
		t.Errorf("got %+v, want the newest matching post", got)
	}

	none, err := repo.GetActiveByAuthor(99, "Valorant")
	if err != nil {
		t.Fatalf("GetActiveByAuthor absent: %v", err)
	}
	if none != nil {
		t.Errorf("got %+v, want nil for an author with no posts", none)
	}
}

func TestDeactivateOlderThan(t *testing.T) {
	db := setupLFTTestDB(t)
	repo := NewLFTRepository(db)

	old := createTestPost(t, repo, 1, "Valorant", "EUW")
	db.Model(old).Update("created_at", time.Now().AddDate(0, 0, -30))
	fresh := createTestPost(t, repo, 2, "Valorant", "EUW")

	count, err := repo.DeactivateOlderThan(time.Now().AddDate(0, 0, -14))
	if err != nil {
		t.Fatalf("DeactivateOlderThan: %v", err)
	}
	if count != 1 {
		t.Errorf("deactivated = %d, want 1", count)
	}

	ids, err := repo.ListActiveAuthorIDs("Valorant", "EUW")
	if err != nil {
		t.Fatalf("ListActiveAuthorIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != fresh.AuthorID {
		t.Errorf("active ids = %v, want only the fresh post's author", ids)
	}
}

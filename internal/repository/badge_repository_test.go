package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vinverse/gamerlink-engine/internal/models"
)

// setupBadgeTestDB creates an in-memory SQLite database for testing.
func setupBadgeTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Enable foreign key constraints (SQLite default is off)
	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(
		&models.User{},
		&models.Badge{},
		&models.UserBadge{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

// createTestBadge creates a test badge in the database.
func createTestBadge(t *testing.T, repo *BadgeRepository, key, name string) *models.Badge {
	t.Helper()

	badge := &models.Badge{
		Key:  key,
		Name: name,
		Type: models.BadgeTypeStreak,
	}
	if err := repo.Create(badge); err != nil {
		t.Fatalf("Failed to create test badge: %v", err)
	}
	return badge
}

func TestGetByKey(t *testing.T) {
	repo := NewBadgeRepository(setupBadgeTestDB(t))
	created := createTestBadge(t, repo, models.BadgeStreak7, "Week Warrior")

	got, err := repo.GetByKey(models.BadgeStreak7)
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if got.ID != created.ID || got.Name != "Week Warrior" {
		t.Errorf("got %+v, want created badge", got)
	}

	if _, err := repo.GetByKey("nope"); err == nil {
		t.Error("GetByKey with unknown key should fail")
	}
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	repo := NewBadgeRepository(setupBadgeTestDB(t))
	catalog := []models.Badge{
		{Key: models.BadgeStreak7, Name: "Week Warrior", Type: models.BadgeTypeStreak},
		{Key: models.BadgeFirstLogin, Name: "First Steps", Type: models.BadgeTypeAchievement},
	}

	if err := repo.SeedCatalog(catalog); err != nil {
		t.Fatalf("first SeedCatalog: %v", err)
	}
	// Second seed with a changed name must not duplicate or overwrite.
	catalog[0].Name = "Renamed"
	if err := repo.SeedCatalog(catalog); err != nil {
		t.Fatalf("second SeedCatalog: %v", err)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("catalog has %d entries, want 2", len(all))
	}
	got, _ := repo.GetByKey(models.BadgeStreak7)
	if got.Name != "Week Warrior" {
		t.Errorf("existing badge name = %q, want untouched original", got.Name)
	}
}

func TestAwardBadgeIsIdempotent(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)
	badge := createTestBadge(t, repo, models.BadgeStreak7, "Week Warrior")
	user := createTestUser(t, NewUserRepository(db), "shadow", 0)

	if err := repo.AwardBadge(user.ID, badge.ID); err != nil {
		t.Fatalf("first AwardBadge: %v", err)
	}
	if err := repo.AwardBadge(user.ID, badge.ID); err != nil {
		t.Fatalf("second AwardBadge: %v", err)
	}

	count, err := repo.GetUserBadgeCount(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadgeCount: %v", err)
	}
	if count != 1 {
		t.Errorf("badge count = %d, want 1", count)
	}
}

func TestGetUserBadgesPreloadsDetails(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)
	badge := createTestBadge(t, repo, models.BadgeStreak30, "Monthly Master")
	user := createTestUser(t, NewUserRepository(db), "shadow", 0)

	if err := repo.AwardBadge(user.ID, badge.ID); err != nil {
		t.Fatalf("AwardBadge: %v", err)
	}

	earned, err := repo.GetUserBadges(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadges: %v", err)
	}
	if len(earned) != 1 {
		t.Fatalf("got %d badges, want 1", len(earned))
	}
	if earned[0].Badge.Key != models.BadgeStreak30 {
		t.Errorf("preloaded badge key = %q, want %q", earned[0].Badge.Key, models.BadgeStreak30)
	}
}

func TestGetBadgeHoldersCount(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := NewBadgeRepository(db)
	userRepo := NewUserRepository(db)
	badge := createTestBadge(t, repo, models.BadgeStreak7, "Week Warrior")

	for _, name := range []string{"a", "b", "c"} {
		user := createTestUser(t, userRepo, name, 0)
		if err := repo.AwardBadge(user.ID, badge.ID); err != nil {
			t.Fatalf("AwardBadge: %v", err)
		}
	}

	count, err := repo.GetBadgeHoldersCount(badge.ID)
	if err != nil {
		t.Fatalf("GetBadgeHoldersCount: %v", err)
	}
	if count != 3 {
		t.Errorf("holders = %d, want 3", count)
	}
}

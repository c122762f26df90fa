package services_test

import (
	"testing"
	"time"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/atakanuzun/showfolio-backend/internal/testutil"
	"gorm.io/gorm"
)

func setXP(t *testing.T, db *gorm.DB, user *models.User, total int, flagged bool) {
	t.Helper()
	err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"total_xp":    total,
		"flagged_bot": flagged,
	}).Error
	if err != nil {
		t.Fatalf("set xp: %v", err)
	}
}

func TestRecomputeRanksAndExclusions(t *testing.T) {
	db := testutil.OpenTestDB(t)
	lb := services.NewLeaderboardService(db)

	flagged := testutil.CreateUser(t, db, "flagged")
	ranked := testutil.CreateUser(t, db, "ranked")
	zero := testutil.CreateUser(t, db, "zero")
	setXP(t, db, flagged, 100, true)
	setXP(t, db, ranked, 50, false)
	setXP(t, db, zero, 0, false)

	if err := lb.Recompute(); err != nil {
		t.Fatalf("Recompute error: %v", err)
	}

	var gotFlagged, gotRanked, gotZero models.User
	db.First(&gotFlagged, "id = ?", flagged.ID)
	db.First(&gotRanked, "id = ?", ranked.ID)
	db.First(&gotZero, "id = ?", zero.ID)

	if gotFlagged.LeaderboardRank != nil {
		t.Fatalf("flagged rank=%v, want nil", *gotFlagged.LeaderboardRank)
	}
	if gotZero.LeaderboardRank != nil {
		t.Fatalf("zero-xp rank=%v, want nil", *gotZero.LeaderboardRank)
	}
	if gotRanked.LeaderboardRank == nil || *gotRanked.LeaderboardRank != 1 {
		t.Fatalf("ranked rank=%v, want 1", gotRanked.LeaderboardRank)
	}
	if !gotRanked.Top100 {
		t.Fatal("rank 1 should be top 100")
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	lb := services.NewLeaderboardService(db)

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	setXP(t, db, a, 30, false)
	setXP(t, db, b, 20, false)

	for i := 0; i < 2; i++ {
		if err := lb.Recompute(); err != nil {
			t.Fatalf("Recompute run %d: %v", i+1, err)
		}
	}

	var gotA, gotB models.User
	db.First(&gotA, "id = ?", a.ID)
	db.First(&gotB, "id = ?", b.ID)
	if gotA.LeaderboardRank == nil || *gotA.LeaderboardRank != 1 {
		t.Fatalf("a rank=%v, want 1", gotA.LeaderboardRank)
	}
	if gotB.LeaderboardRank == nil || *gotB.LeaderboardRank != 2 {
		t.Fatalf("b rank=%v, want 2", gotB.LeaderboardRank)
	}
}

func TestRecomputeTieBreaksByAge(t *testing.T) {
	db := testutil.OpenTestDB(t)
	lb := services.NewLeaderboardService(db)

	older := testutil.CreateUser(t, db, "older")
	newer := testutil.CreateUser(t, db, "newer")
	db.Model(&models.User{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().Add(-48*time.Hour))
	setXP(t, db, older, 40, false)
	setXP(t, db, newer, 40, false)

	if err := lb.Recompute(); err != nil {
		t.Fatalf("Recompute error: %v", err)
	}

	var gotOlder, gotNewer models.User
	db.First(&gotOlder, "id = ?", older.ID)
	db.First(&gotNewer, "id = ?", newer.ID)
	if gotOlder.LeaderboardRank == nil || *gotOlder.LeaderboardRank != 1 {
		t.Fatalf("older rank=%v, want 1 on tie", gotOlder.LeaderboardRank)
	}
	if gotNewer.LeaderboardRank == nil || *gotNewer.LeaderboardRank != 2 {
		t.Fatalf("newer rank=%v, want 2 on tie", gotNewer.LeaderboardRank)
	}
}

func TestRecomputeClearsStaleRank(t *testing.T) {
	db := testutil.OpenTestDB(t)
	lb := services.NewLeaderboardService(db)

	user := testutil.CreateUser(t, db, "faller")
	setXP(t, db, user, 10, false)
	if err := lb.Recompute(); err != nil {
		t.Fatalf("Recompute error: %v", err)
	}

	// Account gets flagged between passes.
	setXP(t, db, user, 10, true)
	if err := lb.Recompute(); err != nil {
		t.Fatalf("Recompute error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.LeaderboardRank != nil || got.Top100 {
		t.Fatalf("rank=%v top100=%v, want cleared", got.LeaderboardRank, got.Top100)
	}
}

func TestTopReturnsRankedOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	lb := services.NewLeaderboardService(db)

	a := testutil.CreateUser(t, db, "first")
	b := testutil.CreateUser(t, db, "second")
	setXP(t, db, a, 100, false)
	setXP(t, db, b, 60, false)
	if err := lb.Recompute(); err != nil {
		t.Fatalf("Recompute error: %v", err)
	}

	users, total, err := lb.Top(10)
	if err != nil {
		t.Fatalf("Top error: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("total=%d len=%d, want 2/2", total, len(users))
	}
	if users[0].Handle != "first" || users[1].Handle != "second" {
		t.Fatalf("order = %s, %s", users[0].Handle, users[1].Handle)
	}
}

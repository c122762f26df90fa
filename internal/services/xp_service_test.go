package services_test

import (
	"errors"
	"testing"

	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/atakanuzun/showfolio-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		total int
		want  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{39, 2},
		{40, 3},
		{89, 3},
		{90, 4},
		{1000, 11},
	}
	for _, c := range cases {
		if got := services.LevelForXP(c.total); got != c.want {
			t.Errorf("LevelForXP(%d) = %d, want %d", c.total, got, c.want)
		}
	}
}

func TestAwardUpdatesTotalAndLedger(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	user := testutil.CreateUser(t, db, "alice")

	if err := xp.Award(db, user.ID, 15, models.ReasonProjectPublished, "project", "p1"); err != nil {
		t.Fatalf("Award error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.TotalXP != 15 || got.Level != services.LevelForXP(15) {
		t.Fatalf("total=%d level=%d, want 15/%d", got.TotalXP, got.Level, services.LevelForXP(15))
	}
	if got.LastAwardedAt == nil {
		t.Fatal("last_awarded_at not stamped")
	}

	var events []models.XPEvent
	db.Find(&events, "user_id = ?", user.ID)
	if len(events) != 1 || events[0].Delta != 15 {
		t.Fatalf("ledger = %+v, want one event with delta 15", events)
	}
}

func TestAwardClampsAtZero(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	user := testutil.CreateUser(t, db, "bob")

	if err := xp.Award(db, user.ID, 3, models.ReasonReviewWritten, "review", "r1"); err != nil {
		t.Fatalf("Award error: %v", err)
	}
	if err := xp.Award(db, user.ID, -10, models.ReasonReviewReconciled, "review", "r1"); err != nil {
		t.Fatalf("Award error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.TotalXP != 0 {
		t.Fatalf("total=%d, want 0 after clamped decrement", got.TotalXP)
	}

	// The ledger records the effective delta so sums match the total.
	var sum int
	db.Model(&models.XPEvent{}).Where("user_id = ?", user.ID).Select("SUM(delta)").Scan(&sum)
	if sum != 0 {
		t.Fatalf("ledger sum=%d, want 0", sum)
	}
}

func TestAwardSkipsFlaggedAccount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	user := testutil.CreateUser(t, db, "flagged")
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("flagged_bot", true)

	if err := xp.Award(db, user.ID, 10, models.ReasonProjectPublished, "project", "p1"); err != nil {
		t.Fatalf("Award error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.TotalXP != 0 {
		t.Fatalf("total=%d, want 0 for flagged account", got.TotalXP)
	}
}

func TestAwardUnknownAccount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)

	err := xp.Award(db, uuid.New(), 10, models.ReasonProjectPublished, "project", "p1")
	if !errors.Is(err, services.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestProjectPublishedFirstThenRepeat(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	user := testutil.CreateUser(t, db, "creator")

	if err := xp.ProjectPublished(db, user.ID, uuid.New()); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := xp.ProjectPublished(db, user.ID, uuid.New()); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.TotalXP != services.PointsFirstPublish+services.PointsRepublish {
		t.Fatalf("total=%d, want %d", got.TotalXP, services.PointsFirstPublish+services.PointsRepublish)
	}
}

func TestReviewPostedSplitsAwards(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "author")

	if err := xp.ReviewPosted(db, owner.ID, &author.ID, true, uuid.New()); err != nil {
		t.Fatalf("ReviewPosted error: %v", err)
	}

	var gotOwner, gotAuthor models.User
	db.First(&gotOwner, "id = ?", owner.ID)
	db.First(&gotAuthor, "id = ?", author.ID)
	if gotOwner.TotalXP != services.PointsReviewReceived {
		t.Fatalf("owner total=%d, want %d", gotOwner.TotalXP, services.PointsReviewReceived)
	}
	want := services.PointsReviewWritten + services.PointsReviewPublicBonus
	if gotAuthor.TotalXP != want {
		t.Fatalf("author total=%d, want %d", gotAuthor.TotalXP, want)
	}
}

func TestReviewPostedAnonymousAuthor(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	owner := testutil.CreateUser(t, db, "owner")

	if err := xp.ReviewPosted(db, owner.ID, nil, false, uuid.New()); err != nil {
		t.Fatalf("ReviewPosted error: %v", err)
	}

	var gotOwner models.User
	db.First(&gotOwner, "id = ?", owner.ID)
	if gotOwner.TotalXP != services.PointsReviewReceived {
		t.Fatalf("owner total=%d, want %d", gotOwner.TotalXP, services.PointsReviewReceived)
	}
}

func TestReconcileReviewVisibilityToggle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "author")
	reviewID := uuid.New()

	// Posted with public identity: 3 + 2.
	if err := xp.ReviewPosted(db, owner.ID, &author.ID, true, reviewID); err != nil {
		t.Fatalf("ReviewPosted error: %v", err)
	}

	// Author hides identity: bonus comes back.
	if err := xp.ReconcileReviewAuthorXP(db, reviewID, &author.ID, true, &author.ID, false); err != nil {
		t.Fatalf("reconcile to hidden: %v", err)
	}
	var got models.User
	db.First(&got, "id = ?", author.ID)
	if got.TotalXP != services.PointsReviewWritten {
		t.Fatalf("total=%d after hiding, want %d", got.TotalXP, services.PointsReviewWritten)
	}

	// Saving the same state again changes nothing.
	if err := xp.ReconcileReviewAuthorXP(db, reviewID, &author.ID, false, &author.ID, false); err != nil {
		t.Fatalf("reconcile repeat: %v", err)
	}
	db.First(&got, "id = ?", author.ID)
	if got.TotalXP != services.PointsReviewWritten {
		t.Fatalf("total=%d after no-op reconcile, want %d", got.TotalXP, services.PointsReviewWritten)
	}

	// Back to public: bonus granted again, exactly once.
	if err := xp.ReconcileReviewAuthorXP(db, reviewID, &author.ID, false, &author.ID, true); err != nil {
		t.Fatalf("reconcile to public: %v", err)
	}
	db.First(&got, "id = ?", author.ID)
	want := services.PointsReviewWritten + services.PointsReviewPublicBonus
	if got.TotalXP != want {
		t.Fatalf("total=%d after re-showing, want %d", got.TotalXP, want)
	}
}

func TestReconcileReviewAuthorRemoved(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "author")
	reviewID := uuid.New()

	if err := xp.ReviewPosted(db, owner.ID, &author.ID, true, reviewID); err != nil {
		t.Fatalf("ReviewPosted error: %v", err)
	}

	// The review no longer credits this author at all.
	if err := xp.ReconcileReviewAuthorXP(db, reviewID, &author.ID, true, nil, false); err != nil {
		t.Fatalf("reconcile error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", author.ID)
	if got.TotalXP != 0 {
		t.Fatalf("total=%d, want 0 after credit revoked", got.TotalXP)
	}
}

func TestReconcileFeedbackVisibility(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	author := testutil.CreateUser(t, db, "author")
	feedbackID := uuid.New()

	if err := xp.FeedbackPosted(db, author.ID, false, feedbackID); err != nil {
		t.Fatalf("FeedbackPosted error: %v", err)
	}

	if err := xp.ReconcileFeedbackAuthorXP(db, feedbackID, author.ID, true); err != nil {
		t.Fatalf("reconcile error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", author.ID)
	want := services.PointsFeedbackPosted + services.PointsFeedbackPublicBonus
	if got.TotalXP != want {
		t.Fatalf("total=%d, want %d", got.TotalXP, want)
	}
}

func TestReactionPostedOncePerReaction(t *testing.T) {
	db := testutil.OpenTestDB(t)
	xp := services.NewXPService(db)
	owner := testutil.CreateUser(t, db, "owner")
	reactor := testutil.CreateUser(t, db, "reactor")
	reactionID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := xp.ReactionPosted(db, owner.ID, &reactor.ID, reactionID); err != nil {
			t.Fatalf("ReactionPosted error: %v", err)
		}
	}

	var gotOwner, gotReactor models.User
	db.First(&gotOwner, "id = ?", owner.ID)
	db.First(&gotReactor, "id = ?", reactor.ID)
	if gotOwner.TotalXP != services.PointsReactionReceived {
		t.Fatalf("owner total=%d, want %d", gotOwner.TotalXP, services.PointsReactionReceived)
	}
	if gotReactor.TotalXP != services.PointsIdeaValidated {
		t.Fatalf("reactor total=%d, want %d", gotReactor.TotalXP, services.PointsIdeaValidated)
	}
}

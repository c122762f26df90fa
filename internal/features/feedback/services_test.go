package feedback_test

import (
	"errors"
	"testing"

	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/features/feedback"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/atakanuzun/showfolio-backend/internal/testutil"
	"gorm.io/gorm"
)

func newFeedbackService(t *testing.T, db *gorm.DB) *feedback.FeedbackService {
	t.Helper()
	xp := services.NewXPService(db)
	susp := services.NewSuspicionService(db, &config.Config{BotFlagThreshold: 50})
	mod := services.NewModerationService(db, susp)
	return feedback.NewFeedbackService(db, xp, mod)
}

func TestCreateFeedbackAwardsAuthor(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedbackService(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "helper")
	project := testutil.CreateProject(t, db, owner.ID, "app", true)

	fb, err := svc.Create(author.ID, project.ID, &feedback.CreateFeedbackRequest{
		Body: "Consider adding keyboard shortcuts.",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !fb.IdentityPublic {
		t.Fatal("identity should default to the author's profile setting (public)")
	}

	var got models.User
	db.First(&got, "id = ?", author.ID)
	want := services.PointsFeedbackPosted + services.PointsFeedbackPublicBonus
	if got.TotalXP != want {
		t.Fatalf("total=%d, want %d", got.TotalXP, want)
	}
}

func TestCreateFeedbackRespectsProfileDefault(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedbackService(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "shy")
	db.Model(&models.User{}).Where("id = ?", author.ID).Update("default_feedback_public", false)
	project := testutil.CreateProject(t, db, owner.ID, "app", true)

	fb, err := svc.Create(author.ID, project.ID, &feedback.CreateFeedbackRequest{Body: "tip"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if fb.IdentityPublic {
		t.Fatal("identity should follow the hidden profile default")
	}

	var got models.User
	db.First(&got, "id = ?", author.ID)
	if got.TotalXP != services.PointsFeedbackPosted {
		t.Fatalf("total=%d, want %d without public bonus", got.TotalXP, services.PointsFeedbackPosted)
	}
}

func TestCreateFeedbackRejectsDraft(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedbackService(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "helper")
	project := testutil.CreateProject(t, db, owner.ID, "draft", false)

	_, err := svc.Create(author.ID, project.ID, &feedback.CreateFeedbackRequest{Body: "x"})
	if !errors.Is(err, projects.ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestUpdateFeedbackVisibilityToggleReconciles(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedbackService(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "toggler")
	project := testutil.CreateProject(t, db, owner.ID, "app", true)

	fb, err := svc.Create(author.ID, project.ID, &feedback.CreateFeedbackRequest{Body: "idea"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	hidden := false
	if _, err := svc.Update(author.ID, fb.ID, &feedback.UpdateFeedbackRequest{IdentityPublic: &hidden}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	var got models.User
	db.First(&got, "id = ?", author.ID)
	if got.TotalXP != services.PointsFeedbackPosted {
		t.Fatalf("total=%d, want %d after hiding", got.TotalXP, services.PointsFeedbackPosted)
	}

	public := true
	if _, err := svc.Update(author.ID, fb.ID, &feedback.UpdateFeedbackRequest{IdentityPublic: &public}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	db.First(&got, "id = ?", author.ID)
	want := services.PointsFeedbackPosted + services.PointsFeedbackPublicBonus
	if got.TotalXP != want {
		t.Fatalf("total=%d, want %d after re-showing", got.TotalXP, want)
	}
}

func TestUpdateFeedbackAuthorOnly(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedbackService(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "author")
	stranger := testutil.CreateUser(t, db, "stranger")
	project := testutil.CreateProject(t, db, owner.ID, "app", true)

	fb, _ := svc.Create(author.ID, project.ID, &feedback.CreateFeedbackRequest{Body: "note"})

	body := "hijacked"
	if _, err := svc.Update(stranger.ID, fb.ID, &feedback.UpdateFeedbackRequest{Body: &body}); !errors.Is(err, feedback.ErrFeedbackNotFound) {
		t.Fatalf("err = %v, want ErrFeedbackNotFound", err)
	}
}

func TestDeleteFeedbackKeepsPoints(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newFeedbackService(t, db)
	owner := testutil.CreateUser(t, db, "owner")
	author := testutil.CreateUser(t, db, "author")
	project := testutil.CreateProject(t, db, owner.ID, "app", true)

	fb, _ := svc.Create(author.ID, project.ID, &feedback.CreateFeedbackRequest{Body: "note"})
	if err := svc.Delete(author.ID, fb.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", author.ID)
	want := services.PointsFeedbackPosted + services.PointsFeedbackPublicBonus
	if got.TotalXP != want {
		t.Fatalf("total=%d, want %d kept after delete", got.TotalXP, want)
	}

	list, total, err := svc.ListForProject(project.ID, 10, 0)
	if err != nil || total != 0 || len(list) != 0 {
		t.Fatalf("list=%d total=%d err=%v, want empty", len(list), total, err)
	}
}

package projects_test

import (
	"errors"
	"testing"

	"github.com/atakanuzun/showfolio-backend/internal/actor"
	"github.com/atakanuzun/showfolio-backend/internal/config"
	"github.com/atakanuzun/showfolio-backend/internal/features/projects"
	"github.com/atakanuzun/showfolio-backend/internal/models"
	"github.com/atakanuzun/showfolio-backend/internal/services"
	"github.com/atakanuzun/showfolio-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newProjectService(t *testing.T, db *gorm.DB) *projects.ProjectService {
	t.Helper()
	xp := services.NewXPService(db)
	susp := services.NewSuspicionService(db, &config.Config{BotFlagThreshold: 50})
	return projects.NewProjectService(db, xp, susp)
}

func TestCreateStartsAsDraft(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	project, err := svc.Create(owner.ID, &projects.CreateProjectRequest{
		Name: "My Cool App", Category: "web", Summary: "demo",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if project.Published {
		t.Fatal("new project should be a draft")
	}
	if project.Slug != "my-cool-app" {
		t.Fatalf("slug=%s, want my-cool-app", project.Slug)
	}
}

func TestCreateUniqueSlugs(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	first, err := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "Notes", Category: "web"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	second, err := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "Notes", Category: "web"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if first.Slug != "notes" || second.Slug != "notes-2" {
		t.Fatalf("slugs = %s, %s", first.Slug, second.Slug)
	}
}

func TestCreateRejectsBadCategory(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	_, err := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "X App", Category: "blockchain"})
	if !errors.Is(err, projects.ErrInvalidCategory) {
		t.Fatalf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestPublishAwardsAndStickyCreatorFlag(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	first, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "One", Category: "web"})
	second, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "Two", Category: "web"})

	if _, err := svc.Publish(owner.ID, first.ID); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if _, err := svc.Publish(owner.ID, second.ID); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", owner.ID)
	want := services.PointsFirstPublish + services.PointsRepublish
	if got.TotalXP != want {
		t.Fatalf("total=%d, want %d (50 first, 10 after)", got.TotalXP, want)
	}
	if !got.IsCreator {
		t.Fatal("creator flag not set on first publish")
	}
}

func TestPublishTwiceIsNoOp(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	project, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "One", Category: "web"})
	if _, err := svc.Publish(owner.ID, project.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := svc.Publish(owner.ID, project.ID); err != nil {
		t.Fatalf("repeat publish: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", owner.ID)
	if got.TotalXP != services.PointsFirstPublish {
		t.Fatalf("total=%d, want %d for single effective publish", got.TotalXP, services.PointsFirstPublish)
	}
}

func TestRepublishCycleAwardsAgain(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	project, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "One", Category: "web"})
	svc.Publish(owner.ID, project.ID)
	svc.Unpublish(owner.ID, project.ID)
	if _, err := svc.Publish(owner.ID, project.ID); err != nil {
		t.Fatalf("republish: %v", err)
	}

	var got models.User
	db.First(&got, "id = ?", owner.ID)
	want := services.PointsFirstPublish + services.PointsRepublish
	if got.TotalXP != want {
		t.Fatalf("total=%d, want %d after unpublish/republish", got.TotalXP, want)
	}
}

func TestPublishNotOwner(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")
	other := testutil.CreateUser(t, db, "other")

	project, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "One", Category: "web"})
	if _, err := svc.Publish(other.ID, project.ID); !errors.Is(err, projects.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	project, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "Secret", Category: "web"})

	if _, err := svc.GetBySlug(project.Slug, actor.Anonymous("some-session-token")); !errors.Is(err, projects.ErrProjectNotFound) {
		t.Fatalf("err = %v, want not found for stranger", err)
	}
	if _, err := svc.GetBySlug(project.Slug, actor.Identified(owner.ID)); err != nil {
		t.Fatalf("owner should see own draft: %v", err)
	}
}

func TestDemoViewOncePerActor(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")
	project := testutil.CreateProject(t, db, owner.ID, "demo", true)

	viewer := actor.Anonymous("viewer-session-token")
	for i := 0; i < 3; i++ {
		if err := svc.RecordDemoView(viewer, project.ID); err != nil {
			t.Fatalf("RecordDemoView %d: %v", i, err)
		}
	}

	var got models.User
	db.First(&got, "id = ?", owner.ID)
	if got.TotalXP != services.PointsDemoViewed {
		t.Fatalf("total=%d, want %d for one distinct viewer", got.TotalXP, services.PointsDemoViewed)
	}

	// A second distinct viewer earns one more point.
	if err := svc.RecordDemoView(actor.Anonymous("another-session-token"), project.ID); err != nil {
		t.Fatalf("RecordDemoView error: %v", err)
	}
	db.First(&got, "id = ?", owner.ID)
	if got.TotalXP != 2*services.PointsDemoViewed {
		t.Fatalf("total=%d, want %d", got.TotalXP, 2*services.PointsDemoViewed)
	}
}

func TestDemoViewSkipsOwner(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")
	project := testutil.CreateProject(t, db, owner.ID, "demo", true)

	if err := svc.RecordDemoView(actor.Identified(owner.ID), project.ID); err != nil {
		t.Fatalf("RecordDemoView error: %v", err)
	}

	var views int64
	db.Model(&projects.DemoView{}).Count(&views)
	if views != 0 {
		t.Fatalf("views=%d, want 0 for owner's own view", views)
	}
}

func TestUpdateKeepsSlugOnRename(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	project, _ := svc.Create(owner.ID, &projects.CreateProjectRequest{Name: "Old Name", Category: "web"})
	name := "Brand New Name"
	if _, err := svc.Update(owner.ID, project.ID, &projects.UpdateProjectRequest{Name: &name}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	var got projects.Project
	db.First(&got, "id = ?", project.ID)
	if got.Name != name || got.Slug != "old-name" {
		t.Fatalf("name=%s slug=%s, want rename with stable slug", got.Name, got.Slug)
	}
}

func TestDeleteUnknownProject(t *testing.T) {
	db := testutil.OpenTestDB(t)
	svc := newProjectService(t, db)
	owner := testutil.CreateUser(t, db, "maker")

	if err := svc.Delete(owner.ID, uuid.New()); !errors.Is(err, projects.ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

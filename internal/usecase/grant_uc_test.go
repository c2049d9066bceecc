//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"member-grants-platform/internal/domain"
	"member-grants-platform/internal/domain/model"
	"member-grants-platform/internal/usecase"
)

type grantFixture struct {
	grants *MockGrantRepo
	apps   *MockApplicationRepo
	users  *MockUserRepo
	admins *MockAdminRepo
	uc     usecase.GrantUseCase
}

func newGrantFixture(t *testing.T) *grantFixture {
	t.Helper()
	f := &grantFixture{
		grants: NewMockGrantRepo(),
		apps:   NewMockApplicationRepo(),
		users:  NewMockUserRepo(),
		admins: NewMockAdminRepo(),
	}
	f.uc = usecase.NewGrantUseCase(f.grants, f.apps, f.users, f.admins, newTestLogger())
	return f
}

func (f *grantFixture) seed(t *testing.T, deadline time.Time) (*model.User, *model.Grant, *model.Admin) {
	t.Helper()
	ctx := context.Background()
	user, err := model.NewUser("user-1", "jane@example.com", "hash", "Jane")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	_ = f.users.Save(ctx, nil, user)
	grant, err := model.NewGrant("grant-1", "Community Fund", 500000, deadline)
	if err != nil {
		t.Fatalf("NewGrant: %v", err)
	}
	_ = f.grants.Save(ctx, nil, grant)
	admin, err := model.NewAdmin("admin-1", "staff@example.com", "Sam", "reviewer")
	if err != nil {
		t.Fatalf("NewAdmin: %v", err)
	}
	_ = f.admins.Save(ctx, nil, admin)
	return user, grant, admin
}

func TestGrantUC_Application(t *testing.T) {
	ctx := context.Background()
	open := time.Now().AddDate(0, 1, 0)

	t.Run("drafting, documents, submission", func(t *testing.T) {
		// Arrange
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)

		// Act
		app, err := f.uc.CreateApplication(ctx, user.ID, grant.ID)
		if err != nil {
			t.Fatalf("CreateApplication: %v", err)
		}
		if app.Status != model.ApplicationStatusDraft {
			t.Fatalf("status = %s, want draft", app.Status)
		}
		if app.SubmittedAt != nil {
			t.Error("SubmittedAt must be nil on a draft")
		}

		if _, err := f.uc.SaveDocuments(ctx, app.ID, `["budget.pdf","proposal.pdf"]`, nil); err != nil {
			t.Fatalf("SaveDocuments: %v", err)
		}
		submitted, err := f.uc.SubmitApplication(ctx, app.ID)

		// Assert
		if err != nil {
			t.Fatalf("SubmitApplication: %v", err)
		}
		if submitted.Status != model.ApplicationStatusSubmitted {
			t.Errorf("status = %s, want submitted", submitted.Status)
		}
		if submitted.SubmittedAt == nil {
			t.Error("SubmittedAt must be stamped on submission")
		}
	})

	t.Run("submission without documents is rejected", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)
		app, _ := f.uc.CreateApplication(ctx, user.ID, grant.ID)

		_, err := f.uc.SubmitApplication(ctx, app.ID)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("err = %v, want validation failure", err)
		}
	})

	t.Run("submission past the deadline is rejected", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, time.Now().AddDate(0, 0, -1))
		app, _ := f.uc.CreateApplication(ctx, user.ID, grant.ID)
		_, _ = f.uc.SaveDocuments(ctx, app.ID, `["budget.pdf"]`, nil)

		_, err := f.uc.SubmitApplication(ctx, app.ID)
		if !errors.Is(err, domain.ErrDeadlinePassed) {
			t.Errorf("err = %v, want ErrDeadlinePassed", err)
		}
	})

	t.Run("submitted application cannot be submitted again", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)
		app, _ := f.uc.CreateApplication(ctx, user.ID, grant.ID)
		_, _ = f.uc.SaveDocuments(ctx, app.ID, `["budget.pdf"]`, nil)
		first, err := f.uc.SubmitApplication(ctx, app.ID)
		if err != nil {
			t.Fatalf("first submission: %v", err)
		}

		_, err = f.uc.SubmitApplication(ctx, app.ID)
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("err = %v, want ErrInvalidStateTransition", err)
		}
		after, _ := f.apps.FindByID(ctx, nil, app.ID)
		if !after.SubmittedAt.Equal(*first.SubmittedAt) {
			t.Error("SubmittedAt must not move on a replayed submission")
		}
	})

	t.Run("documents are frozen after submission", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)
		app, _ := f.uc.CreateApplication(ctx, user.ID, grant.ID)
		_, _ = f.uc.SaveDocuments(ctx, app.ID, `["budget.pdf"]`, nil)
		if _, err := f.uc.SubmitApplication(ctx, app.ID); err != nil {
			t.Fatalf("submit: %v", err)
		}

		_, err := f.uc.SaveDocuments(ctx, app.ID, `["other.pdf"]`, nil)
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("err = %v, want ErrInvalidStateTransition", err)
		}
	})

	t.Run("the same user may apply to the same grant twice", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)

		if _, err := f.uc.CreateApplication(ctx, user.ID, grant.ID); err != nil {
			t.Fatalf("first application: %v", err)
		}
		if _, err := f.uc.CreateApplication(ctx, user.ID, grant.ID); err != nil {
			t.Fatalf("second application: %v", err)
		}
		apps, _ := f.apps.ListByUser(ctx, nil, user.ID)
		if len(apps) != 2 {
			t.Errorf("applications = %d, want 2", len(apps))
		}
	})

	t.Run("unknown user or grant is rejected", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)

		if _, err := f.uc.CreateApplication(ctx, "ghost", grant.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound for unknown user", err)
		}
		if _, err := f.uc.CreateApplication(ctx, user.ID, "ghost"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound for unknown grant", err)
		}
	})
}

func TestGrantUC_Review(t *testing.T) {
	ctx := context.Background()
	open := time.Now().AddDate(0, 1, 0)

	submitApp := func(t *testing.T, f *grantFixture, user *model.User, grant *model.Grant) *model.UserGrantApplication {
		t.Helper()
		app, err := f.uc.CreateApplication(ctx, user.ID, grant.ID)
		if err != nil {
			t.Fatalf("CreateApplication: %v", err)
		}
		if _, err := f.uc.SaveDocuments(ctx, app.ID, `["budget.pdf"]`, nil); err != nil {
			t.Fatalf("SaveDocuments: %v", err)
		}
		app, err = f.uc.SubmitApplication(ctx, app.ID)
		if err != nil {
			t.Fatalf("SubmitApplication: %v", err)
		}
		return app
	}

	t.Run("review pipeline to approval", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, admin := f.seed(t, open)
		app := submitApp(t, f, user, grant)

		under, err := f.uc.StartReview(ctx, admin.ID, app.ID)
		if err != nil {
			t.Fatalf("StartReview: %v", err)
		}
		if under.Status != model.ApplicationStatusUnderReview {
			t.Fatalf("status = %s, want under_review", under.Status)
		}

		notes := "strong proposal"
		approved, err := f.uc.ReviewApplication(ctx, admin.ID, app.ID, usecase.DecisionApproved, &notes)
		if err != nil {
			t.Fatalf("ReviewApplication: %v", err)
		}
		if approved.Status != model.ApplicationStatusApproved {
			t.Errorf("status = %s, want approved", approved.Status)
		}
		if approved.Notes == nil || *approved.Notes != notes {
			t.Error("expected reviewer notes on the application")
		}
	})

	t.Run("direct rejection from submitted", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, admin := f.seed(t, open)
		app := submitApp(t, f, user, grant)

		rejected, err := f.uc.ReviewApplication(ctx, admin.ID, app.ID, usecase.DecisionRejected, nil)
		if err != nil {
			t.Fatalf("ReviewApplication: %v", err)
		}
		if rejected.Status != model.ApplicationStatusRejected {
			t.Errorf("status = %s, want rejected", rejected.Status)
		}
	})

	t.Run("terminal application cannot be reviewed again", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, admin := f.seed(t, open)
		app := submitApp(t, f, user, grant)
		if _, err := f.uc.ReviewApplication(ctx, admin.ID, app.ID, usecase.DecisionApproved, nil); err != nil {
			t.Fatalf("approve: %v", err)
		}

		_, err := f.uc.ReviewApplication(ctx, admin.ID, app.ID, usecase.DecisionRejected, nil)
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("err = %v, want ErrInvalidStateTransition", err)
		}
	})

	t.Run("draft cannot enter review", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, admin := f.seed(t, open)
		app, _ := f.uc.CreateApplication(ctx, user.ID, grant.ID)

		_, err := f.uc.StartReview(ctx, admin.ID, app.ID)
		if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("err = %v, want ErrInvalidStateTransition", err)
		}
	})

	t.Run("unknown reviewer is rejected", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, _ := f.seed(t, open)
		app := submitApp(t, f, user, grant)

		_, err := f.uc.StartReview(ctx, "ghost", app.ID)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("malformed decision is rejected", func(t *testing.T) {
		f := newGrantFixture(t)
		user, grant, admin := f.seed(t, open)
		app := submitApp(t, f, user, grant)

		_, err := f.uc.ReviewApplication(ctx, admin.ID, app.ID, usecase.ApplicationDecision("maybe"), nil)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("err = %v, want validation failure", err)
		}
	})
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

func registerClient(t *testing.T, deps Deps, u models.User) {
	t.Helper()
	err := repository.NewUserRepo(deps.Root).Create(context.Background(), models.StoredUser{User: u, PasswordHash: "x"})
	require.NoError(t, err)
}

func TestReviewApprovalFeedsOverallProgress(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	registerClient(t, deps, testClient)
	tracker := NewTracker(deps, testClient)
	admin := NewAdminService(deps)

	_, err := tracker.RecordUpload(ctx, "passport", pdf("passport.pdf", 1024))
	require.NoError(t, err)
	_, err = tracker.RecordUpload(ctx, "birth-certificate", pdf("birth.pdf", 1024))
	require.NoError(t, err)

	overall, err := tracker.OverallProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, overall)

	pending, err := admin.Reviews(ctx, ReviewFilter{Status: models.ReviewPending})
	require.NoError(t, err)
	require.Len(t, pending, 2)

	var passportReview, birthReview string
	for _, r := range pending {
		switch r.DocumentID {
		case "passport":
			passportReview = r.ID
		case "birth-certificate":
			birthReview = r.ID
		}
	}

	rev, err := admin.Approve(ctx, passportReview, "")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewApproved, rev.Status)
	assert.NotEmpty(t, rev.DecidedAt)

	status, err := tracker.Status(ctx, "passport")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
	overall, err = tracker.OverallProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, overall)

	_, err = admin.Reject(ctx, birthReview, "blurry scan")
	require.NoError(t, err)
	status, err = tracker.Status(ctx, "birth-certificate")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequiresRevision, status)

	acts, err := admin.Activity(ctx)
	require.NoError(t, err)
	require.Len(t, acts, 2)
	assert.Equal(t, "Document rejected: Birth Certificate", acts[0].Message)
	assert.Equal(t, "times", acts[0].Icon)
	assert.Equal(t, "check", acts[1].Icon)

	_, err = admin.Approve(ctx, "missing", "")
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.True(t, NotFound(err))
}

func TestDecidedReviewCannotBeDecidedAgain(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	registerClient(t, deps, testClient)
	tracker := NewTracker(deps, testClient)
	admin := NewAdminService(deps)

	_, err := tracker.RecordUpload(ctx, "passport", pdf("v1.pdf", 1024))
	require.NoError(t, err)
	pending, err := admin.Reviews(ctx, ReviewFilter{Status: models.ReviewPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	first := pending[0].ID
	_, err = admin.Reject(ctx, first, "blurry")
	require.NoError(t, err)

	_, err = tracker.RecordUpload(ctx, "passport", pdf("v2.pdf", 1024))
	require.NoError(t, err)

	_, err = admin.Approve(ctx, first, "")
	require.ErrorIs(t, err, repository.ErrReviewDecided)
	_, err = admin.Reject(ctx, first, "")
	require.ErrorIs(t, err, repository.ErrReviewDecided)

	status, err := tracker.Status(ctx, "passport")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUploaded, status)

	pending, err = admin.Reviews(ctx, ReviewFilter{Status: models.ReviewPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "v2.pdf", pending[0].FileName)

	_, err = admin.Approve(ctx, pending[0].ID, "")
	require.NoError(t, err)
	status, err = tracker.Status(ctx, "passport")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
}

func TestReviewFilter(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	other := models.User{ID: "client-2", Name: "Ben Other", AccountType: models.RoleClient}
	_, err := NewTracker(deps, testClient).RecordUpload(ctx, "passport", pdf("p.pdf", 10))
	require.NoError(t, err)
	_, err = NewTracker(deps, other).RecordUpload(ctx, "passport", pdf("p.pdf", 10))
	require.NoError(t, err)

	admin := NewAdminService(deps)
	all, err := admin.Reviews(ctx, ReviewFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ben, err := admin.Reviews(ctx, ReviewFilter{Client: "ben"})
	require.NoError(t, err)
	require.Len(t, ben, 1)
	assert.Equal(t, "client-2", ben[0].ClientID)

	approved, err := admin.Reviews(ctx, ReviewFilter{Status: models.ReviewApproved})
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestApplicationLifecycle(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	registerClient(t, deps, testClient)
	dash := NewDashboardService(deps, testClient)
	admin := NewAdminService(deps)

	_, err := dash.StartApplication(ctx, "canada", "no-such-visa")
	assert.True(t, NotFound(err))

	app, err := dash.StartApplication(ctx, "canada", "express-entry")
	require.NoError(t, err)
	assert.Equal(t, models.AppDocumentCollection, app.Status)

	again, err := dash.StartApplication(ctx, "canada", "express-entry")
	require.NoError(t, err)
	assert.Equal(t, app.ID, again.ID)

	_, err = admin.UpdateApplication(ctx, app.ID, "Teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = admin.UpdateApplication(ctx, "missing", models.AppInReview)
	assert.ErrorIs(t, err, ErrAppNotFound)

	view, err := admin.UpdateApplication(ctx, app.ID, models.AppInReview)
	require.NoError(t, err)
	assert.Equal(t, models.AppInReview, view.Status)
	assert.Equal(t, "Canada", view.CountryName)
	assert.Equal(t, "Await Review", view.NextStep)

	d, err := dash.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AppInReview, d.Status.Status)
	assert.Equal(t, "Await Review", d.Status.NextStep)
	require.Len(t, d.Timeline, 5)
	assert.Equal(t, models.TimelineCompleted, d.Timeline[0].Status)
	assert.Equal(t, "check", d.Timeline[0].Icon)
	assert.Equal(t, models.TimelineActive, d.Timeline[1].Status)
	assert.Equal(t, "clock", d.Timeline[1].Icon)
	assert.Equal(t, "circle", d.Timeline[2].Icon)

	clients, err := admin.Clients(ctx, ClientFilter{Country: "can"})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, models.AppInReview, clients[0].Status)

	clients, err = admin.Clients(ctx, ClientFilter{Search: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, clients)

	ad, err := admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ad.Stats.ActiveClients)
	assert.Equal(t, 0, ad.Stats.OverdueTasks)
	assert.Equal(t, StatusCount{Status: models.AppInReview, Count: 1}, ad.StatusOverview[0])

	_, err = admin.UpdateApplication(ctx, app.ID, models.AppApproved)
	require.NoError(t, err)
	reports, err := admin.Reports(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, reports.SuccessRate)
	require.Len(t, reports.CountryDistribution, 3)
	for _, share := range reports.CountryDistribution {
		if share.Country == "Canada" {
			assert.Equal(t, 100, share.Percentage)
		} else {
			assert.Equal(t, 0, share.Percentage)
		}
	}

	ad, err = admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ad.Stats.CompletedThisMonth)
}

func TestDefaultDashboard(t *testing.T) {
	deps, _ := newTestDeps(t)
	d, err := NewDashboardService(deps, testClient).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultApplicationStatus(), d.Status)
	assert.Nil(t, d.Application)
	assert.Empty(t, d.Timeline)
	assert.Empty(t, d.Activities)

	r, err := NewAdminService(deps).Reports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, r.SuccessRate)
}

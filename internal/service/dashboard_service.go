package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

// ActivityView is an activity with its icon resolved.
type ActivityView struct {
	models.Activity
	Icon string `json:"icon"`
}

type TimelineView struct {
	models.TimelineItem
	Icon string `json:"icon"`
}

// ClientDashboard is everything the client dashboard page shows.
type ClientDashboard struct {
	User        models.User              `json:"user"`
	Status      models.ApplicationStatus `json:"applicationStatus"`
	Application *models.Application      `json:"application"`
	Timeline    []TimelineView           `json:"timeline"`
	Activities  []ActivityView           `json:"recentActivities"`
}

// DashboardService serves one client's dashboard.
type DashboardService struct {
	client    models.User
	deps      Deps
	dashboard *repository.DashboardRepo
	activity  *repository.ActivityRepo
	apps      *repository.ApplicationRepo
	tracker   *Tracker
}

func NewDashboardService(d Deps, client models.User) *DashboardService {
	cs := repository.ClientStore(d.Root, client.ID)
	return &DashboardService{
		client:    client,
		deps:      d,
		dashboard: repository.NewDashboardRepo(cs),
		activity:  repository.NewClientActivityRepo(cs),
		apps:      repository.NewApplicationRepo(d.Root),
		tracker:   NewTracker(d, client),
	}
}

// Dashboard returns the stored application status, or the default one,
// with its progress taken from the approved uploads.
func (s *DashboardService) Dashboard(ctx context.Context) (*ClientDashboard, error) {
	st, err := s.dashboard.ApplicationStatus(ctx)
	if err != nil {
		return nil, err
	}
	if st.Progress, err = s.tracker.OverallProgress(ctx); err != nil {
		return nil, err
	}
	app, err := s.apps.FindByClient(ctx, s.client.ID)
	if err != nil {
		return nil, err
	}
	timeline, err := s.Timeline(ctx)
	if err != nil {
		return nil, err
	}
	acts, err := s.Activity(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientDashboard{
		User:        s.client,
		Status:      st,
		Application: app,
		Timeline:    timeline,
		Activities:  acts,
	}, nil
}

func (s *DashboardService) Timeline(ctx context.Context) ([]TimelineView, error) {
	items, err := s.dashboard.Timeline(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TimelineView, 0, len(items))
	for _, it := range items {
		views = append(views, TimelineView{TimelineItem: it, Icon: models.TimelineIcon(it.Status)})
	}
	return views, nil
}

// Activity returns the recent activity ring, newest first.
func (s *DashboardService) Activity(ctx context.Context) ([]ActivityView, error) {
	return activityViews(s.activity.List(ctx))
}

func activityViews(list []models.Activity, err error) ([]ActivityView, error) {
	if err != nil {
		return nil, err
	}
	views := make([]ActivityView, 0, len(list))
	for _, a := range list {
		views = append(views, ActivityView{Activity: a, Icon: a.Type.Icon()})
	}
	return views, nil
}

// StartApplication opens the client's application for a visa type. A
// client has one application; choosing another visa type restarts it.
func (s *DashboardService) StartApplication(ctx context.Context, country, visaType string) (*models.Application, error) {
	vt, ok := s.deps.Catalog.Requirements(country, visaType)
	if !ok {
		return nil, fmt.Errorf("visa type %s/%s: %w", country, visaType, ErrNotFound)
	}

	ts := now()
	app := models.Application{
		ID:        uuid.NewString(),
		ClientID:  s.client.ID,
		Client:    s.client.Name,
		Country:   country,
		VisaType:  visaType,
		Status:    models.AppDocumentCollection,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	existing, err := s.apps.FindByClient(ctx, s.client.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Country == country && existing.VisaType == visaType {
			return existing, nil
		}
		app.ID = existing.ID
	}
	if err := s.apps.Upsert(ctx, app); err != nil {
		return nil, err
	}
	if err := syncClientStatus(ctx, s.dashboard, s.tracker, app.Status); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Application started: %s %s", s.deps.Catalog.CountryName(country), vt.Name)
	if err := s.activity.Add(ctx, models.Activity{Type: models.ActivitySubmission, Message: msg, Timestamp: ts}); err != nil {
		log.Printf("Warning: dashboard: activity for client %s: %v", s.client.ID, err)
	}
	return &app, nil
}

// syncClientStatus writes the client's applicationStatus and timeline for
// an application status.
func syncClientStatus(ctx context.Context, dash *repository.DashboardRepo, t *Tracker, status string) error {
	progress, err := t.OverallProgress(ctx)
	if err != nil {
		return err
	}
	st := models.ApplicationStatus{Status: status, Progress: progress, NextStep: models.NextStep(status)}
	if err := dash.SetApplicationStatus(ctx, st); err != nil {
		return err
	}
	return dash.SetTimeline(ctx, models.BuildTimeline(status))
}

package service

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

// SenderAdmin signs replies in the admin message log.
const SenderAdmin = "Admin"

// ReviewFilter narrows the review queue. Empty fields match everything;
// Client matches a substring of the client name, case-insensitively.
type ReviewFilter struct {
	Status models.ReviewStatus
	Client string
}

// ClientFilter narrows the client list. Search matches name or email.
type ClientFilter struct {
	Search  string
	Status  string
	Country string
}

// ClientSummary is one row of the admin client table.
type ClientSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Country   string `json:"country"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	CreatedAt string `json:"createdAt"`
}

// ApplicationView is an application with the client-facing progress.
type ApplicationView struct {
	models.Application
	CountryName  string `json:"countryName"`
	VisaTypeName string `json:"visaTypeName"`
	Progress     int    `json:"progress"`
	NextStep     string `json:"nextStep"`
}

type Stats struct {
	ActiveClients      int `json:"activeClients"`
	PendingReviews     int `json:"pendingReviews"`
	CompletedThisMonth int `json:"completedThisMonth"`
	OverdueTasks       int `json:"overdueTasks"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type AdminDashboard struct {
	Stats          Stats          `json:"stats"`
	StatusOverview []StatusCount  `json:"statusOverview"`
	Activities     []ActivityView `json:"recentActivities"`
}

type CountryShare struct {
	Country    string `json:"country"`
	Percentage int    `json:"percentage"`
}

type Reports struct {
	SuccessRate           int            `json:"successRate"`
	AverageProcessingDays int            `json:"averageProcessingDays"`
	CountryDistribution   []CountryShare `json:"countryDistribution"`
}

// overviewStatuses are the application statuses the dashboard charts.
var overviewStatuses = []string{models.AppInReview, models.AppDocumentCollection, models.AppReadyForSubmission}

// AdminService is the legal team's view across all clients.
type AdminService struct {
	deps     Deps
	users    *repository.UserRepo
	reviews  *repository.ReviewRepo
	apps     *repository.ApplicationRepo
	messages *repository.AdminMessageRepo
	activity *repository.ActivityRepo
}

func NewAdminService(d Deps) *AdminService {
	return &AdminService{
		deps:     d,
		users:    repository.NewUserRepo(d.Root),
		reviews:  repository.NewReviewRepo(d.Root),
		apps:     repository.NewApplicationRepo(d.Root),
		messages: repository.NewAdminMessageRepo(d.Root),
		activity: repository.NewAdminActivityRepo(d.Root),
	}
}

func (s *AdminService) Reviews(ctx context.Context, f ReviewFilter) ([]models.Review, error) {
	list, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}
	client := strings.ToLower(f.Client)
	out := make([]models.Review, 0, len(list))
	for _, r := range list {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if client != "" && !strings.Contains(strings.ToLower(r.Client), client) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Approve marks a review approved and the client's document approved.
func (s *AdminService) Approve(ctx context.Context, reviewID, note string) (*models.Review, error) {
	return s.decide(ctx, reviewID, models.ReviewApproved, note)
}

// Reject marks a review rejected and the client's document as requiring
// revision.
func (s *AdminService) Reject(ctx context.Context, reviewID, note string) (*models.Review, error) {
	return s.decide(ctx, reviewID, models.ReviewRejected, note)
}

func (s *AdminService) decide(ctx context.Context, reviewID string, decision models.ReviewStatus, note string) (*models.Review, error) {
	rev, err := s.reviews.Decide(ctx, reviewID, decision, strings.TrimSpace(note), now())
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, ErrReviewNotFound
	}
	s.deps.Metrics.ReviewDecision(string(decision))

	client, err := s.clientUser(ctx, rev.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &models.User{ID: rev.ClientID, Name: rev.Client, AccountType: models.RoleClient}
	}

	status, typ, verb := models.StatusApproved, models.ActivityApproval, "approved"
	if decision == models.ReviewRejected {
		status, typ, verb = models.StatusRequiresRevision, models.ActivityRejection, "rejected"
	}
	ok, err := NewTracker(s.deps, *client).SetStatus(ctx, rev.DocumentID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Printf("Warning: review %s: client %s no longer has document %s", rev.ID, rev.ClientID, rev.DocumentID)
	}

	msg := fmt.Sprintf("Document %s: %s", verb, rev.Title)
	s.logActivity(ctx, typ, msg)
	clientActs := repository.NewClientActivityRepo(repository.ClientStore(s.deps.Root, rev.ClientID))
	if err := clientActs.Add(ctx, models.Activity{Type: typ, Message: msg, Timestamp: rev.DecidedAt}); err != nil {
		log.Printf("Warning: review %s: client activity: %v", rev.ID, err)
	}
	return rev, nil
}

// clientUser returns the stored client, or nil when no such client exists.
func (s *AdminService) clientUser(ctx context.Context, id string) (*models.User, error) {
	stored, err := s.users.FindByID(ctx, id)
	if err != nil || stored == nil || stored.AccountType != models.RoleClient {
		return nil, err
	}
	return &stored.User, nil
}

func (s *AdminService) Applications(ctx context.Context) ([]ApplicationView, error) {
	list, err := s.apps.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ApplicationView, 0, len(list))
	for _, app := range list {
		v, err := s.applicationView(ctx, app)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *AdminService) applicationView(ctx context.Context, app models.Application) (ApplicationView, error) {
	progress, err := s.progressOf(ctx, app.ClientID, app.Client)
	if err != nil {
		return ApplicationView{}, err
	}
	v := ApplicationView{
		Application: app,
		CountryName: s.deps.Catalog.CountryName(app.Country),
		Progress:    progress,
		NextStep:    models.NextStep(app.Status),
	}
	if vt, ok := s.deps.Catalog.Requirements(app.Country, app.VisaType); ok {
		v.VisaTypeName = vt.Name
	}
	return v, nil
}

func (s *AdminService) progressOf(ctx context.Context, clientID, name string) (int, error) {
	t := NewTracker(s.deps, models.User{ID: clientID, Name: name, AccountType: models.RoleClient})
	return t.OverallProgress(ctx)
}

// UpdateApplication moves an application to status and refreshes the
// client's dashboard status and timeline.
func (s *AdminService) UpdateApplication(ctx context.Context, appID, status string) (*ApplicationView, error) {
	if !models.ValidApplicationStatus(status) {
		return nil, ErrInvalidStatus
	}
	app, err := s.apps.SetStatus(ctx, appID, status, now())
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrAppNotFound
	}

	client := models.User{ID: app.ClientID, Name: app.Client, AccountType: models.RoleClient}
	dash := repository.NewDashboardRepo(repository.ClientStore(s.deps.Root, app.ClientID))
	if err := syncClientStatus(ctx, dash, NewTracker(s.deps, client), status); err != nil {
		return nil, err
	}
	s.logActivity(ctx, models.ActivityReview, fmt.Sprintf("Application of %s moved to %s", app.Client, status))

	v, err := s.applicationView(ctx, *app)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Clients lists registered clients with their application state.
func (s *AdminService) Clients(ctx context.Context, f ClientFilter) ([]ClientSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, err
	}
	byClient := make(map[string]models.Application, len(apps))
	for _, a := range apps {
		byClient[a.ClientID] = a
	}

	search := strings.ToLower(f.Search)
	status := strings.ToLower(f.Status)
	country := strings.ToLower(f.Country)
	out := []ClientSummary{}
	for _, u := range users {
		if u.AccountType != models.RoleClient {
			continue
		}
		c := ClientSummary{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Status:    models.DefaultApplicationStatus().Status,
			CreatedAt: u.CreatedAt,
		}
		if app, ok := byClient[u.ID]; ok {
			c.Country = s.deps.Catalog.CountryName(app.Country)
			c.Status = app.Status
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		if status != "" && !strings.Contains(strings.ToLower(c.Status), status) {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(c.Country), country) {
			continue
		}
		if c.Progress, err = s.progressOf(ctx, u.ID, u.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Dashboard gathers the admin overview. Overdue tasks are not tracked and
// are always zero.
func (s *AdminService) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, err
	}
	acts, err := s.Activity(ctx)
	if err != nil {
		return nil, err
	}

	var st Stats
	for _, u := range users {
		if u.AccountType == models.RoleClient {
			st.ActiveClients++
		}
	}
	for _, r := range reviews {
		if r.Status == models.ReviewPending {
			st.PendingReviews++
		}
	}
	month := time.Now().UTC().Format("2006-01")
	counts := map[string]int{}
	for _, a := range apps {
		counts[a.Status]++
		if a.Status == models.AppApproved && strings.HasPrefix(a.UpdatedAt, month) {
			st.CompletedThisMonth++
		}
	}
	overview := make([]StatusCount, 0, len(overviewStatuses))
	for _, status := range overviewStatuses {
		overview = append(overview, StatusCount{Status: status, Count: counts[status]})
	}
	return &AdminDashboard{Stats: st, StatusOverview: overview, Activities: acts}, nil
}

// Reports computes the success rate over decided applications, the mean
// days from start to decision, and the share of applications per country.
func (s *AdminService) Reports(ctx context.Context) (*Reports, error) {
	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, err
	}

	var approved, decided int
	var days []float64
	perCountry := map[string]int{}
	for _, a := range apps {
		perCountry[a.Country]++
		if a.Status != models.AppApproved && a.Status != models.AppRejected {
			continue
		}
		decided++
		if a.Status == models.AppApproved {
			approved++
		}
		start, err1 := time.Parse(time.RFC3339, a.CreatedAt)
		end, err2 := time.Parse(time.RFC3339, a.UpdatedAt)
		if err1 == nil && err2 == nil {
			days = append(days, end.Sub(start).Hours()/24)
		}
	}

	r := &Reports{}
	if decided > 0 {
		r.SuccessRate = percent(approved, decided)
	}
	if len(days) > 0 {
		var sum float64
		for _, d := range days {
			sum += d
		}
		r.AverageProcessingDays = int(math.Round(sum / float64(len(days))))
	}
	for _, c := range s.deps.Catalog.Countries() {
		share := CountryShare{Country: c.Name}
		if len(apps) > 0 {
			share.Percentage = percent(perCountry[c.Key], len(apps))
		}
		r.CountryDistribution = append(r.CountryDistribution, share)
	}
	return r, nil
}

func percent(n, total int) int {
	return int(math.Round(float64(n) * 100 / float64(total)))
}

// Reply sends a message from the legal team into a client's thread.
func (s *AdminService) Reply(ctx context.Context, clientID, text string) (*models.AdminMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	client, err := s.clientUser(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	ts := now()
	am := models.AdminMessage{ID: uuid.NewString(), ClientID: clientID, Sender: SenderAdmin, Message: text, Timestamp: ts}
	if err := s.messages.Append(ctx, am); err != nil {
		return nil, err
	}
	thread := repository.NewThreadRepo(repository.ClientStore(s.deps.Root, clientID))
	err = thread.Prepend(ctx, models.Message{
		ID:        am.ID,
		Sender:    SenderTeam,
		Message:   text,
		Timestamp: ts,
		Type:      models.MessageReceived,
	})
	if err != nil {
		return nil, err
	}

	comm := models.Communication{
		ClientID:    clientID,
		Client:      client.Name,
		LastMessage: text,
		LastSender:  SenderAdmin,
		Timestamp:   ts,
	}
	if err := s.messages.Touch(ctx, comm, false); err != nil {
		log.Printf("Warning: reply to %s: communications: %v", clientID, err)
	}
	s.logActivity(ctx, models.ActivityMessage, "Message sent to client")
	return &am, nil
}

// Communications lists client threads, most recent first.
func (s *AdminService) Communications(ctx context.Context) ([]models.Communication, error) {
	list, err := s.messages.Communications(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(list, func(a, b models.Communication) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return list, nil
}

// Activity returns the admin activity ring, newest first.
func (s *AdminService) Activity(ctx context.Context) ([]ActivityView, error) {
	return activityViews(s.activity.List(ctx))
}

func (s *AdminService) logActivity(ctx context.Context, typ models.ActivityType, msg string) {
	if err := s.activity.Add(ctx, models.Activity{Type: typ, Message: msg, Timestamp: now()}); err != nil {
		log.Printf("Warning: admin activity: %v", err)
	}
}

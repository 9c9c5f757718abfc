package service

import (
	"context"
	"strings"

	"github.com/roshil-6/TONIO-SENORA/internal/catalog"
	"github.com/roshil-6/TONIO-SENORA/internal/models"
	"github.com/roshil-6/TONIO-SENORA/internal/repository"
)

// CountryPlaceholder is shown when no known country is selected.
const CountryPlaceholder = "Select a country to view requirements"

// Row actions.
const (
	ActionUpload  = "upload"
	ActionReplace = "replace"
	ActionView    = "view"
)

type CountryOption struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type VisaTypeCard struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	DocumentCount int    `json:"documentCount"`
}

type CountryView struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	Placeholder string         `json:"placeholder,omitempty"`
	VisaTypes   []VisaTypeCard `json:"visaTypes"`
}

type DocumentRow struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Required    bool          `json:"required"`
	Status      models.Status `json:"status"`
	StatusLabel string        `json:"statusLabel"`
	StatusClass string        `json:"statusClass"`
	FileName    string        `json:"fileName,omitempty"`
	Actions     []string      `json:"actions"`
}

type CategoryView struct {
	Key           string        `json:"key"`
	Name          string        `json:"name"`
	RequiredCount int           `json:"requiredCount"`
	OptionalCount int           `json:"optionalCount"`
	Progress      Progress      `json:"progress"`
	Documents     []DocumentRow `json:"documents"`
}

type VisaTypeView struct {
	Country         string         `json:"country"`
	CountryName     string         `json:"countryName"`
	Key             string         `json:"key"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	TotalDocuments  int            `json:"totalDocuments"`
	RequiredCount   int            `json:"requiredCount"`
	OptionalCount   int            `json:"optionalCount"`
	OverallProgress int            `json:"overallProgress"`
	Categories      []CategoryView `json:"categories"`
}

// ChecklistService composes the catalog with one client's tracker.
type ChecklistService struct {
	catalog   *catalog.Catalog
	tracker   *Tracker
	dashboard *repository.DashboardRepo
}

func NewChecklistService(d Deps, client models.User) *ChecklistService {
	return &ChecklistService{
		catalog:   d.Catalog,
		tracker:   NewTracker(d, client),
		dashboard: repository.NewDashboardRepo(repository.ClientStore(d.Root, client.ID)),
	}
}

// Tracker is the tracker the views read.
func (s *ChecklistService) Tracker() *Tracker { return s.tracker }

func (s *ChecklistService) Countries() []CountryOption {
	countries := s.catalog.Countries()
	out := make([]CountryOption, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountryOption{Key: c.Key, Name: c.Name})
	}
	return out
}

// Country lists the visa types of a country as cards. An unknown country
// yields the placeholder view.
func (s *ChecklistService) Country(key string) CountryView {
	country, ok := s.catalog.Country(key)
	if !ok {
		return CountryView{Key: key, Name: s.catalog.CountryName(key), Placeholder: CountryPlaceholder, VisaTypes: []VisaTypeCard{}}
	}
	view := CountryView{Key: country.Key, Name: country.Name, VisaTypes: make([]VisaTypeCard, 0, len(country.VisaTypes))}
	for _, v := range country.VisaTypes {
		view.VisaTypes = append(view.VisaTypes, VisaTypeCard{
			Key:           v.Key,
			Name:          v.Name,
			Description:   v.Description,
			DocumentCount: v.TotalDocumentCount(),
		})
	}
	return view
}

// VisaType renders the checklist of one visa type with the client's upload
// state. It returns nil when the country or visa type is unknown.
func (s *ChecklistService) VisaType(ctx context.Context, country, visaType string) (*VisaTypeView, error) {
	v, ok := s.catalog.Requirements(country, visaType)
	if !ok {
		return nil, nil
	}
	records, err := s.tracker.Records(ctx)
	if err != nil {
		return nil, err
	}

	view := &VisaTypeView{
		Country:         country,
		CountryName:     s.catalog.CountryName(country),
		Key:             v.Key,
		Name:            v.Name,
		Description:     v.Description,
		TotalDocuments:  v.TotalDocumentCount(),
		RequiredCount:   v.RequiredCount(),
		OptionalCount:   v.OptionalCount(),
		OverallProgress: overallProgress(records),
		Categories:      make([]CategoryView, 0, len(v.Categories)),
	}
	for _, g := range v.Categories {
		cv := CategoryView{
			Key:           g.Key,
			Name:          g.Name,
			RequiredCount: g.RequiredCount(),
			OptionalCount: g.OptionalCount(),
			Progress:      categoryProgress(records, g),
			Documents:     make([]DocumentRow, 0, len(g.Documents)),
		}
		for _, d := range g.Documents {
			cv.Documents = append(cv.Documents, documentRow(d, records))
		}
		view.Categories = append(view.Categories, cv)
	}
	return view, nil
}

func documentRow(d catalog.Document, records map[string]models.UploadRecord) DocumentRow {
	status := models.StatusNotUploaded
	fileName := ""
	if rec, ok := records[d.ID]; ok {
		status = rec.Status
		fileName = rec.Name
	}
	row := DocumentRow{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Required:    d.Required,
		Status:      models.Status(status.Class()),
		StatusLabel: status.Label(),
		StatusClass: status.Class(),
		FileName:    fileName,
		Actions:     []string{ActionUpload},
	}
	if status == models.StatusUploaded {
		row.Actions = append(row.Actions, ActionReplace, ActionView)
	}
	return row
}

// ToggleItem ticks or unticks a manual checklist item of a country.
func (s *ChecklistService) ToggleItem(ctx context.Context, country, item string, done bool) error {
	item = strings.TrimSpace(item)
	if country == "" || item == "" {
		return ErrMissingFields
	}
	return s.dashboard.SetChecklistItem(ctx, country, item, done)
}

// ItemProgress is ticked items over items ever toggled for country.
func (s *ChecklistService) ItemProgress(ctx context.Context, country string) (Progress, error) {
	items, err := s.dashboard.Checklist(ctx, country)
	if err != nil {
		return Progress{}, err
	}
	done := 0
	for _, v := range items {
		if v {
			done++
		}
	}
	return newProgress(done, len(items)), nil
}

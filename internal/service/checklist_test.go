package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshil-6/TONIO-SENORA/internal/models"
)

func TestChecklist_Countries(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := NewChecklistService(deps, testClient)

	assert.Equal(t, []CountryOption{
		{Key: "australia", Name: "Australia"},
		{Key: "canada", Name: "Canada"},
		{Key: "newzealand", Name: "New Zealand"},
	}, s.Countries())
}

func TestChecklist_CountryView(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := NewChecklistService(deps, testClient)

	view := s.Country("canada")
	assert.Empty(t, view.Placeholder)
	require.Len(t, view.VisaTypes, 2)
	assert.Equal(t, VisaTypeCard{
		Key:           "express-entry",
		Name:          "Express Entry/PNP",
		Description:   "Express Entry system for skilled immigrants",
		DocumentCount: 19,
	}, view.VisaTypes[0])

	unknown := s.Country("atlantis")
	assert.Equal(t, CountryPlaceholder, unknown.Placeholder)
	assert.Empty(t, unknown.VisaTypes)
}

func TestChecklist_UnknownVisaType(t *testing.T) {
	deps, _ := newTestDeps(t)
	view, err := NewChecklistService(deps, testClient).VisaType(context.Background(), "canada", "skilled-migrant")
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestChecklist_VisaTypeGolden(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	s := NewChecklistService(deps, testClient)

	_, err := s.Tracker().RecordUpload(ctx, "nzqa-assessment", pdf("nzqa.pdf", 2048))
	require.NoError(t, err)
	_, err = s.Tracker().RecordUpload(ctx, "degree-certificates", pdf("degrees.pdf", 4096))
	require.NoError(t, err)
	_, err = s.Tracker().SetStatus(ctx, "degree-certificates", models.StatusApproved)
	require.NoError(t, err)

	view, err := s.VisaType(ctx, "newzealand", "skilled-migrant")
	require.NoError(t, err)
	require.NotNil(t, view)

	out, err := json.MarshalIndent(view, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "checklist_newzealand_skilled-migrant", out)
}

func TestChecklist_ItemProgress(t *testing.T) {
	ctx := context.Background()
	deps, _ := newTestDeps(t)
	s := NewChecklistService(deps, testClient)

	p, err := s.ItemProgress(ctx, "australia")
	require.NoError(t, err)
	assert.Equal(t, Progress{}, p)

	require.NoError(t, s.ToggleItem(ctx, "australia", "Passport copy", true))
	require.NoError(t, s.ToggleItem(ctx, "australia", "Police check", true))
	require.NoError(t, s.ToggleItem(ctx, "australia", "Medical", false))
	require.NoError(t, s.ToggleItem(ctx, "australia", "Police check", false))

	p, err = s.ItemProgress(ctx, "australia")
	require.NoError(t, err)
	assert.Equal(t, Progress{Completed: 1, Total: 3, Percentage: 33}, p)

	assert.ErrorIs(t, s.ToggleItem(ctx, "australia", "  ", true), ErrMissingFields)
}

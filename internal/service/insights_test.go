package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-server/internal/domain"
)

// timelineStub serves a canned timeline; insights only read it.
type timelineStub struct {
	domain.KnowledgeStore
	items []domain.TimelineItem
}

func (s *timelineStub) ListTimeline(context.Context, string) ([]domain.TimelineItem, error) {
	return s.items, nil
}

func timelineItem(drugID string, antibiotic bool, missed int) domain.TimelineItem {
	return domain.TimelineItem{
		TimelineEntry: domain.TimelineEntry{
			UserID:    "u1",
			DrugID:    drugID,
			StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Confirmed: true,
		},
		IsAntibiotic: antibiotic,
		MissedDoses:  missed,
	}
}

func insightTypes(insights []domain.Insight) []string {
	types := make([]string, 0, len(insights))
	for _, in := range insights {
		types = append(types, in.Type)
	}
	return types
}

func TestInsights_EmptyTimeline(t *testing.T) {
	svc := NewInsightService(&timelineStub{}, testLogger())

	insights, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "info", insights[0].Type)
	assert.Equal(t, domain.GREEN, insights[0].Level)
}

func TestInsights_Affirmation(t *testing.T) {
	st := &timelineStub{items: []domain.TimelineItem{
		timelineItem("D01", false, 0),
		timelineItem("D08", false, 0),
	}}
	svc := NewInsightService(st, testLogger())

	insights, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "affirmation", insights[0].Type)
	assert.Equal(t, domain.GREEN, insights[0].Level)
}

func TestInsights_Polypharmacy(t *testing.T) {
	st := &timelineStub{items: []domain.TimelineItem{
		timelineItem("D01", false, 0),
		timelineItem("D03", false, 0),
		timelineItem("D06", false, 0),
		timelineItem("D07", false, 0),
		timelineItem("D08", false, 0),
	}}
	svc := NewInsightService(st, testLogger())

	insights, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, insightTypes(insights), "polypharmacy")
}

func TestInsights_MissedAntibioticOutranksGeneralAdherence(t *testing.T) {
	st := &timelineStub{items: []domain.TimelineItem{
		timelineItem("D02", true, 3),
		timelineItem("D01", false, 2),
	}}
	svc := NewInsightService(st, testLogger())

	insights, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)

	types := insightTypes(insights)
	assert.Contains(t, types, "antibiotic_adherence")
	assert.NotContains(t, types, "adherence")
	assert.NotContains(t, types, "affirmation")

	for _, in := range insights {
		if in.Type == "antibiotic_adherence" {
			assert.Equal(t, domain.RED, in.Level)
		}
	}
}

func TestInsights_GeneralAdherence(t *testing.T) {
	st := &timelineStub{items: []domain.TimelineItem{
		timelineItem("D07", false, 2),
		timelineItem("D08", false, 1),
	}}
	svc := NewInsightService(st, testLogger())

	insights, err := svc.Insights(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, insightTypes(insights), "adherence")
}

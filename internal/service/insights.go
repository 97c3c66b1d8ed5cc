package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// Insight rule thresholds. Derived from the timeline only; insights are
// behavioral observations, never diagnoses.
const (
	polypharmacyThreshold  = 5
	adherenceMissThreshold = 3
)

// InsightService derives behavioral findings from a user's medicine
// timeline: polypharmacy load, antibiotic adherence, overall habits.
type InsightService struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewInsightService creates the insight service.
func NewInsightService(store domain.KnowledgeStore, logger *logrus.Logger) *InsightService {
	return &InsightService{
		store: store,
		log:   logger,
	}
}

// Insights computes the findings for one user. An empty timeline yields
// a single informational insight rather than an empty list.
func (s *InsightService) Insights(ctx context.Context, userID string) ([]domain.Insight, error) {
	if userID == "" {
		userID = DefaultUserID
	}

	items, err := s.store.ListTimeline(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return []domain.Insight{{
			Type:    "info",
			Title:   "No medicines logged yet",
			Message: "Confirm a medicine to start building your timeline and receive adherence insights.",
			Level:   domain.GREEN,
		}}, nil
	}

	var insights []domain.Insight

	if len(items) >= polypharmacyThreshold {
		insights = append(insights, domain.Insight{
			Type:    "polypharmacy",
			Title:   "Several medicines in use",
			Message: fmt.Sprintf("You have %d medicines on your timeline. Ask your pharmacist for a combined review.", len(items)),
			Level:   domain.YELLOW,
		})
	}

	totalMissed := 0
	antibioticMissed := false
	for _, item := range items {
		totalMissed += item.MissedDoses
		if item.IsAntibiotic && item.MissedDoses >= 2 {
			antibioticMissed = true
		}
	}

	if antibioticMissed {
		insights = append(insights, domain.Insight{
			Type:    "antibiotic_adherence",
			Title:   "Missed antibiotic doses",
			Message: "An antibiotic course has repeated missed doses. Incomplete courses drive antimicrobial resistance; finish the course as prescribed.",
			Level:   domain.RED,
		})
	} else if totalMissed >= adherenceMissThreshold {
		insights = append(insights, domain.Insight{
			Type:    "adherence",
			Title:   "Doses being missed",
			Message: fmt.Sprintf("%d doses missed across your medicines. A fixed daily routine or reminders can help.", totalMissed),
			Level:   domain.YELLOW,
		})
	}

	if len(insights) == 0 {
		insights = append(insights, domain.Insight{
			Type:    "affirmation",
			Title:   "On track",
			Message: "No adherence concerns found on your timeline. Keep taking your medicines as prescribed.",
			Level:   domain.GREEN,
		})
	}

	return insights, nil
}

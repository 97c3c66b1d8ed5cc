package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// DefaultUserID is the timeline owner used when the caller does not
// identify one. There is no account system; the default keeps the
// single-user deployment case simple.
const DefaultUserID = "default"

// TimelineService records confirmed medicine-start events and serves a
// user's history. Entries are append-only: this service never mutates
// or deletes them.
type TimelineService struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewTimelineService creates the timeline service.
func NewTimelineService(store domain.KnowledgeStore, logger *logrus.Logger) *TimelineService {
	return &TimelineService{
		store: store,
		log:   logger,
	}
}

// RecordConfirmedMedicine appends a confirmed start event. An empty
// user id falls back to DefaultUserID and a zero start date to today.
// The drug is resolved first so an unknown identifier is rejected
// before anything is written.
func (s *TimelineService) RecordConfirmedMedicine(ctx context.Context, userID, drugID string, startDate time.Time) (*domain.TimelineEntry, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	if startDate.IsZero() {
		startDate = time.Now().UTC().Truncate(24 * time.Hour)
	}

	drug, err := s.store.GetDrug(ctx, drugID)
	if err != nil {
		return nil, err
	}

	id, err := s.store.InsertTimelineEntry(ctx, userID, drugID, startDate)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"timeline_id": id,
		"user_id":     userID,
		"drug_id":     drugID,
	}).Info("Medicine confirmed on timeline")

	return &domain.TimelineEntry{
		ID:        id,
		UserID:    userID,
		DrugID:    drugID,
		DrugName:  drug.Molecule,
		StartDate: startDate,
		Confirmed: true,
	}, nil
}

// History returns a user's timeline, most recent start date first.
func (s *TimelineService) History(ctx context.Context, userID string) ([]domain.TimelineItem, error) {
	if userID == "" {
		userID = DefaultUserID
	}
	return s.store.ListTimeline(ctx, userID)
}

package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// AMRMonitorService is the standalone stewardship view: one drug, one
// missed-dose count, the resulting stewardship flags. It reuses the
// stewardship evaluator so the answer always matches what a full
// assessment would report for the same inputs.
type AMRMonitorService struct {
	store       domain.KnowledgeStore
	stewardship *StewardshipEvaluator
	log         *logrus.Logger
}

// NewAMRMonitorService creates the monitor service.
func NewAMRMonitorService(store domain.KnowledgeStore, logger *logrus.Logger) *AMRMonitorService {
	return &AMRMonitorService{
		store:       store,
		stewardship: NewStewardshipEvaluator(store, logger),
		log:         logger,
	}
}

// Check evaluates stewardship for one drug.
func (s *AMRMonitorService) Check(ctx context.Context, drugID string, missedDoses int) (*domain.AMRStatus, error) {
	drug, err := s.store.GetDrug(ctx, drugID)
	if err != nil {
		return nil, err
	}

	// resistance monitoring only applies to antibiotics
	if !drug.IsAntibiotic {
		return &domain.AMRStatus{
			Drug:         drug.Molecule,
			IsAntibiotic: false,
			RiskLevel:    domain.GREEN,
			MissedDoses:  missedDoses,
			Message:      drug.Molecule + " is not an antibiotic; no resistance monitoring is needed",
			Disclaimer:   domain.Disclaimer,
		}, nil
	}

	req := &domain.AssessmentRequest{
		DrugIDs:     []string{drugID},
		MissedDoses: map[string]int{drugID: missedDoses},
	}
	flags, err := s.stewardship.Evaluate(ctx, drugID, req)
	if err != nil {
		return nil, err
	}

	level := domain.GREEN
	message := ""
	for _, f := range flags {
		level = domain.MaxLevel(level, f.Level)
		if f.Type == domain.FlagAMR {
			message = f.Message
		}
	}

	return &domain.AMRStatus{
		Drug:         drug.Molecule,
		IsAntibiotic: drug.IsAntibiotic,
		RiskLevel:    level,
		MissedDoses:  missedDoses,
		Message:      message,
		Flags:        flags,
		Disclaimer:   domain.Disclaimer,
	}, nil
}

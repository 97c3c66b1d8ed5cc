package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// InteractionChecker flags drug-drug interactions across a set of
// drugs. Unlike the per-drug evaluators it works on unordered pairs:
// each distinct pair is looked up exactly once regardless of input
// order or duplicate identifiers, and a stored rule matches whichever
// way round the pair was recorded.
type InteractionChecker struct {
	store domain.KnowledgeStore
	log   *logrus.Logger
}

// NewInteractionChecker creates the interaction checker.
func NewInteractionChecker(store domain.KnowledgeStore, logger *logrus.Logger) *InteractionChecker {
	return &InteractionChecker{
		store: store,
		log:   logger,
	}
}

// Check returns one flag per stored interaction rule across all
// distinct pairs in drugIDs, in pair-formation order.
func (c *InteractionChecker) Check(ctx context.Context, drugIDs []string) ([]domain.RiskFlag, error) {
	unique := dedupeInOrder(drugIDs)

	var flags []domain.RiskFlag
	seen := make(map[string]struct{})

	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			a, b := unique[i], unique[j]
			key := domain.PairKey(a, b)
			if _, done := seen[key]; done {
				continue
			}
			seen[key] = struct{}{}

			rows, err := c.store.ListInteractions(ctx, a, b)
			if err != nil {
				return nil, err
			}
			for _, row := range rows {
				flags = append(flags, domain.RiskFlag{
					Type:      domain.FlagInteraction,
					Level:     domain.InteractionLevel(row.Severity),
					DrugA:     a,
					DrugB:     b,
					Severity:  row.Severity,
					Mechanism: row.Mechanism,
					Message:   row.Message,
					Sources:   []string{row.Source},
				})
			}
		}
	}

	c.log.WithFields(logrus.Fields{
		"drugs": len(unique),
		"pairs": len(seen),
		"flags": len(flags),
	}).Debug("Interaction check completed")

	return flags, nil
}

// dedupeInOrder removes duplicate identifiers keeping first occurrence.
func dedupeInOrder(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

package service

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/medguard-server/internal/domain"
)

// ProfileService serves the explainability view of a drug: everything
// the store knows about it, every claim with its source. The profile
// reports reference data verbatim, including elderly-caution text the
// evaluators would exempt; its job is transparency, not risk
// computation.
//
// Reference data is static per deployment, so profiles are cached
// aggressively.
type ProfileService struct {
	store domain.KnowledgeStore
	cache domain.ProfileCache
	log   *logrus.Logger
}

// NewProfileService creates the explainability service.
func NewProfileService(store domain.KnowledgeStore, cache domain.ProfileCache, logger *logrus.Logger) *ProfileService {
	return &ProfileService{
		store: store,
		cache: cache,
		log:   logger,
	}
}

// Explain returns the full sourced profile of one drug. An unknown
// identifier surfaces as ErrNotFound, never as an empty profile.
func (s *ProfileService) Explain(ctx context.Context, drugID string) (*domain.DrugProfile, error) {
	if profile, ok := s.cache.Get(ctx, drugID); ok {
		s.log.WithField("drug_id", drugID).Debug("Profile cache hit")
		return profile, nil
	}

	drug, err := s.store.GetDrug(ctx, drugID)
	if err != nil {
		return nil, err
	}

	brands, err := s.store.ListBrands(ctx, drugID)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListAdverseReactionLinks(ctx, drugID)
	if err != nil {
		return nil, err
	}
	reactions := make([]domain.ReactionDetail, 0, len(links))
	for _, link := range links {
		reactions = append(reactions, domain.ReactionDetail{
			Symptom:   link.Symptom,
			Severity:  link.Severity,
			Frequency: link.Frequency,
			RiskLevel: link.Level,
			Advice:    link.Advice,
			Source:    link.Source,
		})
	}
	// most severe first, storage order breaks ties
	sort.SliceStable(reactions, func(i, j int) bool {
		return reactions[i].RiskLevel.Priority() > reactions[j].RiskLevel.Priority()
	})

	rules, err := s.store.ListFoodAlcoholRules(ctx, drugID, "")
	if err != nil {
		return nil, err
	}

	evidence, err := s.store.ListEvidence(ctx, drugID)
	if err != nil {
		return nil, err
	}

	profile := &domain.DrugProfile{
		DrugID:           drug.ID,
		Molecule:         drug.Molecule,
		Class:            drug.Class,
		CommonUse:        drug.CommonUse,
		IsAntibiotic:     drug.IsAntibiotic,
		AWaReCategory:    drug.AWaReCategory,
		Brands:           brands,
		AdverseReactions: reactions,
		FoodAlcoholRules: rules,
		Evidence:         evidence,
		ElderlyCaution:   drug.ElderlyCaution,
		AlcoholWarning:   drug.AlcoholWarning,
		Disclaimer:       domain.Disclaimer,
	}

	s.cache.Set(ctx, drugID, profile)
	return profile, nil
}

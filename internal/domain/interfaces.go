package domain

import (
	"context"
	"time"
)

// KnowledgeStore is the read side of the reference dataset plus the
// single timeline write path. All reads are bounded reference-data
// lookups; query failures surface as ErrStoreUnavailable and missing
// drugs as ErrNotFound.
type KnowledgeStore interface {
	// GetDrug looks a drug up by identifier. Returns ErrNotFound when absent.
	GetDrug(ctx context.Context, drugID string) (*Drug, error)

	// ListDrugs returns the full catalog with brand names attached.
	ListDrugs(ctx context.Context) ([]DrugWithBrands, error)

	// ListAdverseReactionLinks returns every sourced (reaction, level,
	// advice) claim for a drug, in storage order.
	ListAdverseReactionLinks(ctx context.Context, drugID string) ([]AdverseReactionLink, error)

	// ListFoodAlcoholRules returns a drug's food/alcohol rules. An empty
	// trigger returns all rules; a non-empty trigger filters
	// case-insensitively.
	ListFoodAlcoholRules(ctx context.Context, drugID, trigger string) ([]FoodAlcoholRule, error)

	// ListInteractions returns interaction rows for the unordered pair
	// {a, b}, matching either storage order.
	ListInteractions(ctx context.Context, a, b string) ([]Interaction, error)

	// ListMisuseRules returns every stewardship rule stored under the
	// given condition key.
	ListMisuseRules(ctx context.Context, condition string) ([]MisuseRule, error)

	// GetAMRRecord returns a drug's AMR classification, or ErrNotFound
	// when the drug has no recorded tier (which is not an error for
	// evaluation: absent record means no flag).
	GetAMRRecord(ctx context.Context, drugID string) (*AMRRecord, error)

	// ListEvidence returns all evidence citations attached to an entity id.
	ListEvidence(ctx context.Context, entityID string) ([]EvidenceCitation, error)

	// ListBrands returns a drug's known brand names.
	ListBrands(ctx context.Context, drugID string) ([]string, error)

	// InsertTimelineEntry atomically inserts a confirmed medicine-start
	// event and returns its generated identifier.
	InsertTimelineEntry(ctx context.Context, userID, drugID string, startDate time.Time) (int64, error)

	// ListTimeline returns a user's timeline entries joined with drug
	// metadata, most recent start date first.
	ListTimeline(ctx context.Context, userID string) ([]TimelineItem, error)

	// TableStats returns row counts per reference table, for operability.
	TableStats(ctx context.Context) (map[string]int, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close releases the underlying connection(s).
	Close() error
}

// RiskEvaluator is the uniform contract shared by the five evaluators:
// one drug identifier plus request context in, zero or more flags out.
// Evaluators are pure reads; they fail only when a store query fails,
// and such a failure aborts the whole assessment.
type RiskEvaluator interface {
	// Kind identifies the evaluator's flag type for ordering and logs.
	Kind() FlagType

	// Applies reports whether the evaluator runs at all for this drug
	// under this request context. A skipped evaluator must not execute
	// with default semantics: alcohol flags require explicit declaration.
	Applies(drugID string, req *AssessmentRequest) bool

	// Evaluate produces the evaluator's flags for one drug.
	Evaluate(ctx context.Context, drugID string, req *AssessmentRequest) ([]RiskFlag, error)
}

// ProfileCache caches explainability profiles. Reference data is static
// per deployment, so cached profiles never go stale within a process
// lifetime; implementations may still expire entries.
type ProfileCache interface {
	Get(ctx context.Context, drugID string) (*DrugProfile, bool)
	Set(ctx context.Context, drugID string, profile *DrugProfile)
}

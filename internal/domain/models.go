package domain

import (
	"time"
)

// Drug is an immutable reference entity owned by the knowledge store.
type Drug struct {
	ID             string `json:"drug_id"`
	Molecule       string `json:"molecule"`
	Class          string `json:"class"`
	CommonUse      string `json:"common_use"`
	IsAntibiotic   bool   `json:"is_antibiotic"`
	AWaReCategory  string `json:"who_aware_category,omitempty"`
	ElderlyCaution string `json:"elderly_caution,omitempty"`
	AlcoholWarning string `json:"alcohol_warning,omitempty"`
	Source         string `json:"source,omitempty"`
}

// DrugWithBrands pairs a drug with its known brand names for catalog listings.
type DrugWithBrands struct {
	Drug
	Brands []string `json:"brands"`
}

// AdverseReactionLink is one sourced (drug, reaction) claim with its own
// risk level and advice. A drug may carry the same reaction via several
// sources; the rows are deliberately kept distinct.
type AdverseReactionLink struct {
	DrugID      string    `json:"drug_id"`
	ReactionID  string    `json:"reaction_id"`
	Symptom     string    `json:"symptom"`
	Severity    string    `json:"severity"`
	Frequency   string    `json:"frequency,omitempty"`
	IsEmergency bool      `json:"is_emergency"`
	Level       RiskLevel `json:"level"`
	Advice      string    `json:"advice,omitempty"`
	Source      string    `json:"source"`
}

// Interaction is a stored drug-drug interaction row. Storage may record
// the pair in either order; lookups must match both.
type Interaction struct {
	DrugA     string `json:"drug_a"`
	DrugB     string `json:"drug_b"`
	Severity  string `json:"severity"`
	Mechanism string `json:"mechanism,omitempty"`
	Message   string `json:"message"`
	Source    string `json:"source"`
}

// FoodAlcoholRule ties a drug to a trigger substance such as alcohol.
type FoodAlcoholRule struct {
	DrugID  string    `json:"drug_id"`
	Trigger string    `json:"trigger"`
	Level   RiskLevel `json:"risk_level"`
	Message string    `json:"message"`
	Source  string    `json:"source"`
}

// MisuseRule is a stewardship rule keyed by a condition string such as
// "missed_doses >= 2". Rules are reference data, not code, so new ones
// can be added without redeploying logic.
type MisuseRule struct {
	Condition string    `json:"condition"`
	Level     RiskLevel `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
}

// AMRRecord is a drug's antimicrobial-resistance classification.
type AMRRecord struct {
	DrugID        string  `json:"drug_id"`
	Tier          AMRTier `json:"amr_risk"`
	Message       string  `json:"message"`
	AWaReCategory string  `json:"who_aware_category"`
	Source        string  `json:"source"`
}

// EvidenceCitation links a claim about an entity to a named, attributed
// source with a URL.
type EvidenceCitation struct {
	EntityID   string `json:"entity_id"`
	SourceName string `json:"source_name"`
	URL        string `json:"url"`
}

// RiskFlag is the atomic output unit of an evaluator. Flags are
// transient: created per request, never persisted.
type RiskFlag struct {
	Type        FlagType  `json:"type"`
	Level       RiskLevel `json:"level"`
	Drug        string    `json:"drug,omitempty"`
	DrugA       string    `json:"drug_a,omitempty"`
	DrugB       string    `json:"drug_b,omitempty"`
	Symptom     string    `json:"symptom,omitempty"`
	Severity    string    `json:"severity,omitempty"`
	Advice      string    `json:"advice,omitempty"`
	Message     string    `json:"message,omitempty"`
	Mechanism   string    `json:"mechanism,omitempty"`
	Trigger     string    `json:"trigger,omitempty"`
	AWaRe       string    `json:"aware_category,omitempty"`
	MissedDoses int       `json:"missed,omitempty"`
	IsEmergency bool      `json:"is_emergency,omitempty"`
	Sources     []string  `json:"sources"`
}

// AssessmentRequest carries the drug identifier set and optional context
// for one risk assessment. A zero UserAge means "not supplied"; alcohol
// evaluation requires an explicit ReportAlcohol=true; a drug is checked
// for missed doses only when it has an entry in MissedDoses (an explicit
// zero still runs the AMR tier check).
type AssessmentRequest struct {
	DrugIDs       []string       `json:"drug_ids"`
	UserAge       int            `json:"user_age,omitempty"`
	ReportAlcohol bool           `json:"report_alcohol,omitempty"`
	MissedDoses   map[string]int `json:"missed_doses,omitempty"`
}

// RiskAssessment is the merged result of all evaluators for one request.
// The source list has set semantics in insertion order.
type RiskAssessment struct {
	RiskLevel        RiskLevel  `json:"risk_level"`
	Flags            []RiskFlag `json:"flags"`
	ClinicalAnalysis string     `json:"clinical_analysis"`
	Sources          []string   `json:"sources"`
	Disclaimer       string     `json:"disclaimer"`
}

// ReactionDetail is one adverse-reaction row of an explainability profile.
type ReactionDetail struct {
	Symptom   string    `json:"symptom"`
	Severity  string    `json:"severity"`
	Frequency string    `json:"frequency,omitempty"`
	RiskLevel RiskLevel `json:"risk_level"`
	Advice    string    `json:"advice,omitempty"`
	Source    string    `json:"source"`
}

// DrugProfile is the fully sourced explainability view of a single drug.
// It reports reference data verbatim, including elderly-caution text the
// evaluators would exempt: its job is transparency, not risk computation.
type DrugProfile struct {
	DrugID           string             `json:"drug_id"`
	Molecule         string             `json:"molecule"`
	Class            string             `json:"class"`
	CommonUse        string             `json:"common_use"`
	IsAntibiotic     bool               `json:"is_antibiotic"`
	AWaReCategory    string             `json:"who_aware_category,omitempty"`
	Brands           []string           `json:"brands"`
	AdverseReactions []ReactionDetail   `json:"adverse_reactions"`
	FoodAlcoholRules []FoodAlcoholRule  `json:"food_alcohol_interactions"`
	Evidence         []EvidenceCitation `json:"evidence"`
	ElderlyCaution   string             `json:"elderly_caution,omitempty"`
	AlcoholWarning   string             `json:"alcohol_warning,omitempty"`
	Disclaimer       string             `json:"disclaimer"`
}

// TimelineEntry is a confirmed medicine-start event for a user. Entries
// are created once and never mutated or deleted by this core.
type TimelineEntry struct {
	ID        int64     `json:"timeline_id"`
	UserID    string    `json:"user_id"`
	DrugID    string    `json:"drug_id"`
	DrugName  string    `json:"drug_name,omitempty"`
	StartDate time.Time `json:"start_date"`
	Confirmed bool      `json:"confirmed"`
}

// TimelineItem is a timeline entry joined with drug metadata for read paths.
type TimelineItem struct {
	TimelineEntry
	Molecule     string `json:"molecule"`
	Class        string `json:"class"`
	CommonUse    string `json:"common_use"`
	IsAntibiotic bool   `json:"is_antibiotic"`
	MissedDoses  int    `json:"missed_doses"`
}

// Insight is one behavioral finding derived from a user's timeline.
type Insight struct {
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Level   RiskLevel `json:"level"`
}

// AMRStatus is the standalone stewardship view of one drug.
type AMRStatus struct {
	Drug         string     `json:"drug"`
	IsAntibiotic bool       `json:"is_antibiotic"`
	RiskLevel    RiskLevel  `json:"risk_level"`
	MissedDoses  int        `json:"missed_doses"`
	Message      string     `json:"message,omitempty"`
	Flags        []RiskFlag `json:"flags"`
	Disclaimer   string     `json:"disclaimer"`
}

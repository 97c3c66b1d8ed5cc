// Package domain contains core business entities and types for medication
// safety risk assessment.
//
// The output of every assessment is strictly educational risk awareness:
// it is never a diagnosis, a prescription, or a dosing instruction.
package domain

import (
	"strings"
)

// RiskLevel is the ordinal risk classification used throughout the system.
// The total order is GREEN < YELLOW < RED; aggregation always takes the
// maximum under this order.
type RiskLevel string

const (
	GREEN  RiskLevel = "green"
	YELLOW RiskLevel = "yellow"
	RED    RiskLevel = "red"
)

// FlagType identifies which evaluator produced a risk flag.
type FlagType string

const (
	FlagADR         FlagType = "adr"
	FlagInteraction FlagType = "interaction"
	FlagAlcohol     FlagType = "alcohol"
	FlagElderly     FlagType = "elderly"
	FlagAMR         FlagType = "amr"
	FlagMissedDoses FlagType = "missed_doses"
)

// AMRTier is the antimicrobial-resistance risk tier recorded for a drug.
type AMRTier string

const (
	AMRHigh   AMRTier = "high"
	AMRMedium AMRTier = "medium"
	AMRLow    AMRTier = "low"
)

// Disclaimer accompanies every response verbatim. It is a content
// invariant, not a configurable option; callers must never summarize
// or omit it.
const Disclaimer = "⚕️ DISCLAIMER: This is educational risk information only. " +
	"It does NOT constitute medical advice, diagnosis, or treatment. " +
	"Always consult a qualified healthcare professional before making " +
	"any medication decisions."

// ElderlyAgeThreshold is the caller-supplied age at or above which the
// elderly-caution evaluator runs. Exactly 65 counts.
const ElderlyAgeThreshold = 65

// MisuseConditionRepeated and MisuseConditionSingle are the condition
// keys under which missed-dose rules are stored. The thresholds form a
// step function with a single jump at two missed doses.
const (
	MisuseConditionRepeated = "missed_doses >= 2"
	MisuseConditionSingle   = "missed_doses == 1"
)

// AlcoholTrigger is the trigger substance of food/alcohol rules
// evaluated when the caller declares alcohol use.
const AlcoholTrigger = "alcohol"

// riskPriority orders levels for aggregation. Unknown levels rank below
// GREEN so malformed reference rows can never escalate an assessment.
var riskPriority = map[RiskLevel]int{
	GREEN:  1,
	YELLOW: 2,
	RED:    3,
}

// IsValid reports whether the level is one of the three known levels.
func (l RiskLevel) IsValid() bool {
	switch l {
	case GREEN, YELLOW, RED:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}

// Priority returns the ordinal rank of the level (GREEN=1 .. RED=3,
// unknown=0). Used wherever the RED > YELLOW > GREEN order is applied.
func (l RiskLevel) Priority() int {
	return riskPriority[l]
}

// Exceeds reports whether l ranks strictly above other.
func (l RiskLevel) Exceeds(other RiskLevel) bool {
	return l.Priority() > other.Priority()
}

// MaxLevel returns the higher of the two levels.
func MaxLevel(a, b RiskLevel) RiskLevel {
	if b.Exceeds(a) {
		return b
	}
	return a
}

// IsValid reports whether the flag type is one of the known evaluator kinds.
func (t FlagType) IsValid() bool {
	switch t {
	case FlagADR, FlagInteraction, FlagAlcohol, FlagElderly, FlagAMR, FlagMissedDoses:
		return true
	default:
		return false
	}
}

// String returns the string representation of the flag type.
func (t FlagType) String() string {
	return string(t)
}

// InteractionLevel maps a stored interaction severity to a risk level:
// "serious" escalates to RED, "moderate" to YELLOW, anything else stays
// GREEN.
func InteractionLevel(severity string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "serious":
		return RED
	case "moderate":
		return YELLOW
	default:
		return GREEN
	}
}

// elderlyExemptPhrases is the fixed policy list of caution texts treated
// as "no elderly risk" even though the column is non-empty. The list is
// deliberately not data-driven.
var elderlyExemptPhrases = map[string]struct{}{
	"na":             {},
	"none":           {},
	"generally safe": {},
}

// ElderlyCautionApplies reports whether a drug's elderly-caution text
// should raise a flag: the trimmed text must be non-empty and its
// case-insensitive value must not match an exempt phrase.
func ElderlyCautionApplies(cautionText string) bool {
	trimmed := strings.TrimSpace(cautionText)
	if trimmed == "" {
		return false
	}
	_, exempt := elderlyExemptPhrases[strings.ToLower(trimmed)]
	return !exempt
}

// PairKey builds the canonical key for an unordered drug pair by sorting
// the two identifiers and joining them. (A,B) and (B,A) share one key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

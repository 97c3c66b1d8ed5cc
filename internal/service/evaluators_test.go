package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-server/internal/domain"
)

func TestElderlyEvaluator_AgeBoundary(t *testing.T) {
	ev := NewElderlyEvaluator(newTestStore(t), testLogger())

	tests := []struct {
		name    string
		age     int
		applies bool
	}{
		{"age not supplied", 0, false},
		{"one below threshold", 64, false},
		{"exactly threshold", 65, true},
		{"above threshold", 82, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &domain.AssessmentRequest{DrugIDs: []string{"D03"}, UserAge: tt.age}
			assert.Equal(t, tt.applies, ev.Applies("D03", req))
		})
	}
}

func TestElderlyEvaluator_ExemptPhrases(t *testing.T) {
	ev := NewElderlyEvaluator(newTestStore(t), testLogger())
	ctx := context.Background()
	req := &domain.AssessmentRequest{UserAge: 65}

	// "None" (D01), "NA" (D02) and "Generally safe" (D06) never flag
	for _, id := range []string{"D01", "D02", "D06"} {
		flags, err := ev.Evaluate(ctx, id, req)
		require.NoError(t, err)
		assert.Empty(t, flags, "caution text for %s is policy-exempt", id)
	}

	flags, err := ev.Evaluate(ctx, "D03", req)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, domain.YELLOW, flags[0].Level)
	assert.Contains(t, flags[0].Message, "stomach bleeding")
}

func TestAlcoholEvaluator_RequiresDeclaration(t *testing.T) {
	ev := NewAlcoholEvaluator(newTestStore(t), testLogger())

	assert.False(t, ev.Applies("D05", &domain.AssessmentRequest{DrugIDs: []string{"D05"}}))
	assert.True(t, ev.Applies("D05", &domain.AssessmentRequest{DrugIDs: []string{"D05"}, ReportAlcohol: true}))
}

func TestAlcoholEvaluator_Evaluate(t *testing.T) {
	ev := NewAlcoholEvaluator(newTestStore(t), testLogger())
	ctx := context.Background()
	req := &domain.AssessmentRequest{ReportAlcohol: true}

	// metronidazole: the classic strict contraindication
	flags, err := ev.Evaluate(ctx, "D05", req)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, domain.RED, flags[0].Level)
	assert.Equal(t, "alcohol", flags[0].Trigger)

	// warfarin also has a leafy-greens rule; only the alcohol one flags
	flags, err = ev.Evaluate(ctx, "D09", req)
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "alcohol", flags[0].Trigger)

	// no alcohol rule at all
	flags, err = ev.Evaluate(ctx, "D01", req)
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestStewardshipEvaluator_AppliesOnlyWithEntry(t *testing.T) {
	ev := NewStewardshipEvaluator(newTestStore(t), testLogger())

	assert.False(t, ev.Applies("D02", &domain.AssessmentRequest{DrugIDs: []string{"D02"}}))
	assert.True(t, ev.Applies("D02", &domain.AssessmentRequest{
		DrugIDs:     []string{"D02"},
		MissedDoses: map[string]int{"D02": 0},
	}), "an explicit zero still opts the drug in")
}

func TestStewardshipEvaluator_MissedDoseBoundaries(t *testing.T) {
	ev := NewStewardshipEvaluator(newTestStore(t), testLogger())
	ctx := context.Background()

	tests := []struct {
		name        string
		missed      int
		wantMissed  int
		missedLevel domain.RiskLevel
	}{
		{"zero misses", 0, 0, ""},
		{"single miss", 1, 1, domain.YELLOW},
		{"threshold jump", 2, 1, domain.RED},
		{"far past threshold", 10, 1, domain.RED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &domain.AssessmentRequest{
				DrugIDs:     []string{"D02"},
				MissedDoses: map[string]int{"D02": tt.missed},
			}
			flags, err := ev.Evaluate(ctx, "D02", req)
			require.NoError(t, err)

			missedFlags := flagsOfType(flags, domain.FlagMissedDoses)
			require.Len(t, missedFlags, tt.wantMissed)
			if tt.wantMissed > 0 {
				assert.Equal(t, tt.missedLevel, missedFlags[0].Level)
				assert.Equal(t, tt.missed, missedFlags[0].MissedDoses)
			}

			// the tier check runs whenever the evaluator runs at all
			amrFlags := flagsOfType(flags, domain.FlagAMR)
			require.Len(t, amrFlags, 1)
			assert.Equal(t, domain.YELLOW, amrFlags[0].Level)
		})
	}
}

func TestStewardshipEvaluator_AMRTiers(t *testing.T) {
	ev := NewStewardshipEvaluator(newTestStore(t), testLogger())
	ctx := context.Background()

	tests := []struct {
		drugID string
		want   domain.RiskLevel
		flags  int
	}{
		{"D04", domain.RED, 1},    // high tier
		{"D02", domain.YELLOW, 1}, // medium tier
		{"D01", "", 0},            // no recorded tier, no flag
	}

	for _, tt := range tests {
		t.Run(tt.drugID, func(t *testing.T) {
			req := &domain.AssessmentRequest{
				DrugIDs:     []string{tt.drugID},
				MissedDoses: map[string]int{tt.drugID: 0},
			}
			flags, err := ev.Evaluate(ctx, tt.drugID, req)
			require.NoError(t, err)

			amrFlags := flagsOfType(flags, domain.FlagAMR)
			require.Len(t, amrFlags, tt.flags)
			if tt.flags > 0 {
				assert.Equal(t, tt.want, amrFlags[0].Level)
			}
		})
	}
}

func TestInteractionChecker_PairDedup(t *testing.T) {
	checker := NewInteractionChecker(newTestStore(t), testLogger())
	ctx := context.Background()

	flags, err := checker.Check(ctx, []string{"D03", "D09", "D03", "D09"})
	require.NoError(t, err)
	assert.Len(t, flags, 1, "duplicate identifiers form each pair once")

	flags, err = checker.Check(ctx, []string{"D03"})
	require.NoError(t, err)
	assert.Empty(t, flags, "a single drug has no pairs")

	flags, err = checker.Check(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, flags)
}

func TestInteractionChecker_SeverityMapping(t *testing.T) {
	checker := NewInteractionChecker(newTestStore(t), testLogger())

	flags, err := checker.Check(context.Background(), []string{"D10", "D07"})
	require.NoError(t, err)
	require.Len(t, flags, 1)
	assert.Equal(t, "moderate", flags[0].Severity)
	assert.Equal(t, domain.YELLOW, flags[0].Level)
}

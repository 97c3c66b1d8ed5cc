package service

import (
	"fmt"
	"strings"

	"github.com/medguard-server/internal/domain"
)

// buildClinicalSummary renders a deterministic plain-language narrative
// of an assessment: molecule list, overall level, then one sentence per
// finding category that produced flags. Wording is fixed so identical
// requests read identically.
func buildClinicalSummary(drugs []*domain.Drug, flags []domain.RiskFlag, overall domain.RiskLevel) string {
	molecules := make([]string, 0, len(drugs))
	for _, d := range drugs {
		molecules = append(molecules, d.Molecule)
	}

	assessed := strings.Join(molecules, ", ")
	if assessed == "" {
		assessed = "no medicines"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Assessed %s. Overall risk level: %s.",
		assessed, strings.ToUpper(overall.String()))

	counts := make(map[domain.FlagType]int)
	emergencies := 0
	seriousInteractions := 0
	for _, f := range flags {
		counts[f.Type]++
		if f.IsEmergency {
			emergencies++
		}
		if f.Type == domain.FlagInteraction && f.Level == domain.RED {
			seriousInteractions++
		}
	}

	if n := counts[domain.FlagInteraction]; n > 0 {
		fmt.Fprintf(&b, " Found %d drug-drug interaction finding(s)", n)
		if seriousInteractions > 0 {
			fmt.Fprintf(&b, ", %d of them serious", seriousInteractions)
		}
		b.WriteString(".")
	}
	if n := counts[domain.FlagAlcohol]; n > 0 {
		fmt.Fprintf(&b, " Alcohol-related cautions apply to %d finding(s).", n)
	}
	if n := counts[domain.FlagElderly]; n > 0 {
		fmt.Fprintf(&b, " Age-related cautions apply to %d medicine(s).", n)
	}
	if n := counts[domain.FlagMissedDoses]; n > 0 {
		b.WriteString(" Missed antibiotic doses were reported; adherence guidance applies.")
	}
	if n := counts[domain.FlagAMR]; n > 0 {
		fmt.Fprintf(&b, " %d medicine(s) carry an antimicrobial-resistance caution.", n)
	}
	if emergencies > 0 {
		fmt.Fprintf(&b, " %d documented reaction(s) would need emergency care if they occur.", emergencies)
	}
	if overall == domain.GREEN {
		b.WriteString(" No significant risk signals were found for this combination.")
	}

	return b.String()
}

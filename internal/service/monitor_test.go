package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-server/internal/domain"
)

func TestAMRMonitor_WatchAntibiotic(t *testing.T) {
	svc := NewAMRMonitorService(newTestStore(t), testLogger())

	status, err := svc.Check(context.Background(), "D04", 0)
	require.NoError(t, err)

	assert.Equal(t, "Azithromycin", status.Drug)
	assert.True(t, status.IsAntibiotic)
	assert.Equal(t, domain.RED, status.RiskLevel)
	assert.Contains(t, status.Message, "Watch-category")
	assert.Equal(t, domain.Disclaimer, status.Disclaimer)
}

func TestAMRMonitor_MissedDosesEscalate(t *testing.T) {
	svc := NewAMRMonitorService(newTestStore(t), testLogger())
	ctx := context.Background()

	clean, err := svc.Check(ctx, "D02", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.YELLOW, clean.RiskLevel, "medium tier alone is yellow")

	missed, err := svc.Check(ctx, "D02", 2)
	require.NoError(t, err)
	assert.Equal(t, domain.RED, missed.RiskLevel)
	assert.Equal(t, 2, missed.MissedDoses)
	assert.Len(t, flagsOfType(missed.Flags, domain.FlagMissedDoses), 1)
}

func TestAMRMonitor_NonAntibiotic(t *testing.T) {
	svc := NewAMRMonitorService(newTestStore(t), testLogger())

	status, err := svc.Check(context.Background(), "D01", 0)
	require.NoError(t, err)
	assert.False(t, status.IsAntibiotic)
	assert.Equal(t, domain.GREEN, status.RiskLevel)
	assert.Empty(t, status.Flags)
	assert.Contains(t, status.Message, "not an antibiotic")

	// missed doses of a non-antibiotic are not a resistance concern
	missed, err := svc.Check(context.Background(), "D01", 3)
	require.NoError(t, err)
	assert.Equal(t, domain.GREEN, missed.RiskLevel)
	assert.Empty(t, missed.Flags)
	assert.Equal(t, 3, missed.MissedDoses)
}

func TestAMRMonitor_UnknownDrug(t *testing.T) {
	svc := NewAMRMonitorService(newTestStore(t), testLogger())

	_, err := svc.Check(context.Background(), "D99", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

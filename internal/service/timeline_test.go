package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguard-server/internal/domain"
)

func TestTimeline_RecordAndHistory(t *testing.T) {
	svc := NewTimelineService(newTestStore(t), testLogger())
	ctx := context.Background()

	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	entry, err := svc.RecordConfirmedMedicine(ctx, "u1", "D02", start)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.True(t, entry.Confirmed)
	assert.Equal(t, "Amoxicillin", entry.DrugName)
	assert.Equal(t, start, entry.StartDate)

	items, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Amoxicillin", items[0].Molecule)
}

func TestTimeline_Defaults(t *testing.T) {
	svc := NewTimelineService(newTestStore(t), testLogger())
	ctx := context.Background()

	entry, err := svc.RecordConfirmedMedicine(ctx, "", "D01", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, DefaultUserID, entry.UserID)
	assert.False(t, entry.StartDate.IsZero())

	items, err := svc.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestTimeline_UnknownDrugRejectedBeforeWrite(t *testing.T) {
	svc := NewTimelineService(newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := svc.RecordConfirmedMedicine(ctx, "u1", "D99", time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items, "nothing was written")
}

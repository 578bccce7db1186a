package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hireflow/pkg/domain"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	applicantID := id.ApplicantID(uuid.New())
	event := audit.Event{
		ApplicantID: applicantID,
		Action:      string(audit.EventStatusChanged),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), applicantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventStatusChanged), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))

	applicantID := id.ApplicantID(uuid.New())
	err := pub.Emit(context.Background(), audit.Event{
		ApplicantID: applicantID,
		Action:      string(audit.EventApprovalTokenIssued),
	})
	require.NoError(t, err)

	// Close drains the buffer before returning.
	pub.Close()

	events, err := store.ListByApplicant(context.Background(), applicantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventApprovalTokenIssued), events[0].Action)
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	applicantID := id.ApplicantID(uuid.New())
	for range 10 {
		err := pub.Emit(context.Background(), audit.Event{
			ApplicantID: applicantID,
			Action:      string(audit.EventStatusChanged),
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListByApplicant(context.Background(), applicantID)
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
}

func TestPublisher_SetsTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	applicantID := id.ApplicantID(uuid.New())

	before := time.Now()
	err := pub.Emit(context.Background(), audit.Event{
		ApplicantID: applicantID,
		Action:      string(audit.EventStatusChanged),
	})
	require.NoError(t, err)
	after := time.Now()

	events, err := pub.List(context.Background(), applicantID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.True(t, !events[0].Timestamp.Before(before), "timestamp should be >= before")
	assert.True(t, !events[0].Timestamp.After(after), "timestamp should be <= after")
}

func TestPublisher_PreservesExistingTimestamp(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	applicantID := id.ApplicantID(uuid.New())
	customTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	err := pub.Emit(context.Background(), audit.Event{
		ApplicantID: applicantID,
		Action:      string(audit.EventStatusChanged),
		Timestamp:   customTime,
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), applicantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, customTime, events[0].Timestamp)
}

package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherSyncEmit(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store)

	err := p.Emit(context.Background(), Event{
		SubjectDID: "did:iota:student:456",
		Action:     string(EventCredentialIssued),
		Subject:    "tst-aaaa1111",
		Decision:   "issued",
	})
	require.NoError(t, err)

	events, err := p.List(context.Background(), "did:iota:student:456")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "credential_issued", events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "Emit stamps missing timestamps")
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	p := NewPublisher(store, WithAsyncBuffer(8))

	for i := 0; i < 3; i++ {
		require.NoError(t, p.Emit(context.Background(), Event{
			SubjectDID: "did:iota:student:456",
			Action:     string(EventProofGenerated),
		}))
	}
	p.Close()

	events, err := store.ListBySubject(context.Background(), "did:iota:student:456")
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

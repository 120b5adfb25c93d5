package attachments

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupPending_DeletesAllAndClears(t *testing.T) {
	images := &fakeImages{deleteErr: map[string]error{"p2": errors.New("gone")}}
	m, s := newManager(t, images)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, store.KeyPendingUploads, []string{"p1", "p2", "p3"}))

	require.NoError(t, m.CleanupPending(ctx))

	assert.Equal(t, []string{"p1", "p2", "p3"}, images.Deleted())
	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCleanupPending_EmptyIsNoop(t *testing.T) {
	images := &fakeImages{}
	m, s := newManager(t, images)

	calls := 0
	s.Subscribe(func(string) { calls++ })

	require.NoError(t, m.CleanupPending(context.Background()))
	assert.Empty(t, images.Deleted())
	assert.Zero(t, calls)
}

package storage

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("v1")
	require.NoError(t, m.Set(ctx, "k1", buf))
	buf[0] = 'x'

	v, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v, "stored value must not alias caller slice")

	_, err = m.Get(ctx, "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, m.Set(ctx, "k0", nil))
	keys, _ := m.Keys(ctx)
	assert.Equal(t, []string{"k0", "k1"}, keys)

	require.NoError(t, m.Remove(ctx, "k0"))
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Clear(ctx))
	assert.Equal(t, 0, m.Len())
}

package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/ledgermatch/internal/snapshot"
)

type stubMarkSource struct {
	mark int64
	err  error
}

func (s *stubMarkSource) MaxTransaction(context.Context) (int64, error) {
	return s.mark, s.err
}

func TestOracle_NeverStoredIsStale(t *testing.T) {
	store := newMemStore()
	oracle := snapshot.NewOracle(store, &stubMarkSource{mark: 100})

	stale, err := oracle.IsStale(context.Background(), "sage")
	require.NoError(t, err)
	assert.True(t, stale)

	// The observed mark was persisted as a side effect.
	assert.Equal(t, int64(100), store.ReadMark("sage"))
}

func TestOracle_Idempotence(t *testing.T) {
	store := newMemStore()
	src := &stubMarkSource{mark: 100}
	oracle := snapshot.NewOracle(store, src)
	ctx := context.Background()

	stale, err := oracle.IsStale(ctx, "sage")
	require.NoError(t, err)
	assert.True(t, stale)

	// No change in the source: the second call reports fresh.
	stale, err = oracle.IsStale(ctx, "sage")
	require.NoError(t, err)
	assert.False(t, stale)
}

func TestOracle_NewTransactionsAreStale(t *testing.T) {
	store := newMemStore()
	src := &stubMarkSource{mark: 100}
	oracle := snapshot.NewOracle(store, src)
	ctx := context.Background()

	_, err := oracle.IsStale(ctx, "sage")
	require.NoError(t, err)

	src.mark = 150

	stale, err := oracle.IsStale(ctx, "sage")
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestOracle_RollbackIsStale(t *testing.T) {
	// Equality check, not ordering: a mark that went backwards (data
	// reset on the source side) also counts as stale.
	store := newMemStore()
	src := &stubMarkSource{mark: 100}
	oracle := snapshot.NewOracle(store, src)
	ctx := context.Background()

	_, err := oracle.IsStale(ctx, "sage")
	require.NoError(t, err)

	src.mark = 60

	stale, err := oracle.IsStale(ctx, "sage")
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestOracle_SourceErrorPropagates(t *testing.T) {
	store := newMemStore()
	oracle := snapshot.NewOracle(store, &stubMarkSource{err: errors.New("connection refused")})

	_, err := oracle.IsStale(context.Background(), "sage")
	require.Error(t, err)
}

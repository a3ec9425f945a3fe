package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"dermascan/internal/client/models"
	"dermascan/internal/client/repositories/kv"
	"dermascan/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newHistory(t *testing.T) (*HistoryService, *sql.DB) {
	t.Helper()
	db := setupSessionDB(t)
	return NewHistoryService(db, testLogger()), db
}

func record(disease string) models.AnalysisRecord {
	return models.AnalysisRecord{Disease: disease, ImageURI: "/tmp/skin.jpg"}
}

func TestAppend_RequiresOwner(t *testing.T) {
	s, _ := newHistory(t)

	_, err := s.Append(context.Background(), record("Acne"), "")
	assert.ErrorIs(t, err, common.ErrOwnerRequired)

	_, err = s.Append(context.Background(), record("Acne"), "   ")
	assert.ErrorIs(t, err, common.ErrOwnerRequired)
}

func TestAppend_StampsAndReturnsOwnerSubset(t *testing.T) {
	s, _ := newHistory(t)
	ctx := context.Background()

	_, err := s.Append(ctx, record("Melanoma"), "bob@y.com")
	require.NoError(t, err)

	mine, err := s.Append(ctx, record("Acne"), "Ana@X.com")
	require.NoError(t, err)

	require.Len(t, mine, 1)
	assert.Equal(t, "ana@x.com", mine[0].UserID)
	assert.Equal(t, "Acne", mine[0].Disease)
	assert.NotEmpty(t, mine[0].ID)
	_, ok := mine[0].When()
	assert.True(t, ok, "stamped date must be parseable")
}

func TestAppend_ListFor_FiltersByOwner(t *testing.T) {
	s, _ := newHistory(t)
	ctx := context.Background()

	_, err := s.Append(ctx, record("Acne"), "ana@x.com")
	require.NoError(t, err)
	_, err = s.Append(ctx, record("Vitiligo"), "bob@y.com")
	require.NoError(t, err)

	ana, err := s.ListFor(ctx, "Ana@X.com", false)
	require.NoError(t, err)
	require.Len(t, ana, 1)
	assert.Equal(t, "Acne", ana[0].Disease)

	bob, err := s.ListFor(ctx, "bob@y.com", false)
	require.NoError(t, err)
	require.Len(t, bob, 1)
	assert.Equal(t, "Vitiligo", bob[0].Disease)
}

func TestAppend_CapsAtMaxEntries_OldestEvicted(t *testing.T) {
	s, _ := newHistory(t)
	ctx := context.Background()

	var firstID string
	for i := 0; i <= MaxHistoryEntries; i++ {
		got, err := s.Append(ctx, record(fmt.Sprintf("cond-%d", i)), "ana@x.com")
		require.NoError(t, err)
		if i == 0 {
			firstID = got[0].ID
		}
	}

	all, err := s.ListFor(ctx, "ana@x.com", false)
	require.NoError(t, err)
	assert.Len(t, all, MaxHistoryEntries)

	// newest first; the very first record fell off the end
	assert.Equal(t, fmt.Sprintf("cond-%d", MaxHistoryEntries), all[0].Disease)
	for _, r := range all {
		assert.NotEqual(t, firstID, r.ID)
	}
}

func TestDeleteOne_ByOwner(t *testing.T) {
	s, _ := newHistory(t)
	ctx := context.Background()

	mine, err := s.Append(ctx, record("Acne"), "ana@x.com")
	require.NoError(t, err)
	id := mine[0].ID

	require.NoError(t, s.DeleteOne(ctx, id, "ana@x.com"))

	rest, err := s.ListFor(ctx, "ana@x.com", false)
	require.NoError(t, err)
	assert.Empty(t, rest)
}

func TestDeleteOne_NotFound(t *testing.T) {
	s, _ := newHistory(t)

	err := s.DeleteOne(context.Background(), "missing-id", "ana@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteOne_RefusesForeignRecord(t *testing.T) {
	s, _ := newHistory(t)
	ctx := context.Background()

	bobs, err := s.Append(ctx, record("Melanoma"), "bob@y.com")
	require.NoError(t, err)

	err = s.DeleteOne(ctx, bobs[0].ID, "ana@x.com")
	assert.ErrorIs(t, err, common.ErrNotOwned)

	// Bob's record is still there
	rest, err := s.ListFor(ctx, "bob@y.com", false)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestDeleteAllFor_LeavesOtherOwnersAlone(t *testing.T) {
	s, _ := newHistory(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, record("Acne"), "ana@x.com")
		require.NoError(t, err)
	}
	bobs, err := s.Append(ctx, record("Ring worm"), "bob@y.com")
	require.NoError(t, err)

	removed, err := s.DeleteAllFor(ctx, "ANA@X.COM")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	ana, err := s.ListFor(ctx, "ana@x.com", false)
	require.NoError(t, err)
	assert.Empty(t, ana)

	bobAfter, err := s.ListFor(ctx, "bob@y.com", false)
	require.NoError(t, err)
	require.Len(t, bobAfter, 1)
	assert.Equal(t, bobs[0].ID, bobAfter[0].ID)
}

func TestReadAll_CorruptedCollection_TreatedAsEmpty(t *testing.T) {
	s, db := newHistory(t)
	ctx := context.Background()

	require.NoError(t, kv.NewSQLiteRepository(db).Set(ctx, "analysisHistory", []byte("{definitely not json")))

	got, err := s.ListFor(ctx, "ana@x.com", false)
	require.NoError(t, err)
	assert.Empty(t, got)

	// and appending over the corrupted payload heals it
	mine, err := s.Append(ctx, record("Acne"), "ana@x.com")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListFor_SortByDateDescending(t *testing.T) {
	s, db := newHistory(t)
	ctx := context.Background()

	// Stored out of order with mixed date formats, as legacy data could be.
	legacy := `[
		{"id":"1","userId":"ana@x.com","date":"2024-01-02T10:00:00Z","disease":"old"},
		{"id":"2","userId":"ana@x.com","date":"2025-06-01T10:00:00Z","disease":"new"},
		{"id":"3","userId":"ana@x.com","date":"not-a-date","disease":"undated"}
	]`
	require.NoError(t, kv.NewSQLiteRepository(db).Set(ctx, "analysisHistory", []byte(legacy)))

	got, err := s.ListFor(ctx, "ana@x.com", true)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].Disease)
	assert.Equal(t, "old", got[1].Disease)
	assert.Equal(t, "undated", got[2].Disease, "unparseable dates sink to the end")
}

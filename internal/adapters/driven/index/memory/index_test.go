package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidbot-ai/aidbot/internal/core/ports/driven"
)

func seed(t *testing.T) *Index {
	t.Helper()
	x := New()
	err := x.Add(context.Background(),
		[]string{"d1_chunk_0", "d1_chunk_1", "d2_chunk_0"},
		[]string{
			"the quick brown fox jumps over the lazy dog",
			"an entirely unrelated passage about cooking pasta",
			"foxes are quick and brown in the wild",
		},
		[]map[string]any{
			{"doc_id": "d1", "tenant_id": "u1", "filename": "fox.txt"},
			{"doc_id": "d1", "tenant_id": "u1", "filename": "fox.txt"},
			{"doc_id": "d2", "tenant_id": "u2", "filename": "wild.txt"},
		},
	)
	require.NoError(t, err)
	return x
}

func TestGet_FiltersByMetadata(t *testing.T) {
	x := seed(t)

	records, err := x.Get(context.Background(), driven.Filter{"doc_id": "d1"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = x.Get(context.Background(), driven.Filter{"tenant_id": "u2"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "d2_chunk_0", records[0].ID)
}

func TestGet_NoFilterReturnsAll(t *testing.T) {
	x := seed(t)

	records, err := x.Get(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestQuery_RanksByRelevance(t *testing.T) {
	x := seed(t)

	hits, err := x.Query(context.Background(), "quick brown fox", 3, driven.Filter{"tenant_id": "u1"})

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Contains(t, hits[0].Document, "quick brown fox")
	require.NotNil(t, hits[0].Distance)
	require.NotNil(t, hits[1].Distance)
	assert.LessOrEqual(t, *hits[0].Distance, *hits[1].Distance)
}

func TestQuery_TenantIsolation(t *testing.T) {
	x := seed(t)

	hits, err := x.Query(context.Background(), "quick brown fox", 10, driven.Filter{"tenant_id": "u2"})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "d2", hits[0].Metadata["doc_id"])
}

func TestQuery_EmptyIndexIsEmptyNotError(t *testing.T) {
	x := New()

	hits, err := x.Query(context.Background(), "anything", 5, nil)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDelete_RemovesOnlyGivenIDs(t *testing.T) {
	x := seed(t)

	err := x.Delete(context.Background(), []string{"d1_chunk_0", "d1_chunk_1"})
	require.NoError(t, err)

	records, err := x.Get(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "d2_chunk_0", records[0].ID)
}

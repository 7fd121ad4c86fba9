package study

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/rpager/pkg/store"
)

func TestReferences_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, nil)

	ref, err := s.AddReference(ctx, Reference{Name: "Robbins Basic Pathology", Size: 5 << 20, Pages: 900, Category: "Pathology"})
	require.NoError(t, err)
	other, err := s.AddReference(ctx, Reference{Name: "Katzung", Category: "Pharmacology"})
	require.NoError(t, err)
	assert.False(t, ref.UploadDate.IsZero())

	found, err := s.SetReadingProgress(ctx, ref.ID, 68)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = s.SetReadingProgress(ctx, ref.ID, 101)
	assert.ErrorIs(t, err, store.ErrInvalid)
	_, err = s.SetReadingProgress(ctx, ref.ID, -1)
	assert.ErrorIs(t, err, store.ErrInvalid)

	found, err = s.ToggleBookmark(ctx, ref.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = s.MarkOpened(ctx, ref.ID, fixedNow)
	require.NoError(t, err)
	assert.True(t, found)

	got, err := s.GetReference(ctx, ref.ID)
	require.NoError(t, err)
	assert.Equal(t, 68, got.Progress)
	assert.True(t, got.Bookmarked)
	require.NotNil(t, got.LastOpened)
	assert.Equal(t, fixedNow.UnixMilli(), got.LastOpened.UnixMilli())

	unchanged, err := s.GetReference(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other, unchanged)

	found, err = s.SetReadingProgress(ctx, "missing", 10)
	require.NoError(t, err)
	assert.False(t, found)

	groups, err := s.ReferencesByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pathology", "Pharmacology"}, Categories(groups))

	found, err = s.DeleteReference(ctx, ref.ID)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestReferences_LegacyPDFRecord(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	kv.Seed(ReferencesKey, []byte(`[{"id":"p1","name":"notes.pdf","size":"2.4 MB","pages":312,"progress":0,"lastRead":"Never","uploadDate":"2025-02-01T12:00:00.000Z"}]`))
	s := openTestStore(t, kv)

	refs, err := s.ListReferences(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "2.4 MB", refs[0].Size.String())
	assert.Nil(t, refs[0].LastOpened)
	assert.Equal(t, 2025, refs[0].UploadDate.UTC().Year())
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		in   string
		want ByteSize
	}{
		{"0 Bytes", 0},
		{"512", 512},
		{"1 KB", 1024},
		{"1.5 MB", 1572864},
		{"2 GB", 2 << 30},
	}
	for _, tt := range tests {
		got, err := ParseByteSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseByteSize("big")
	assert.Error(t, err)
	_, err = ParseByteSize("3 parsecs")
	assert.Error(t, err)

	assert.Equal(t, "1.5 MB", ByteSize(1572864).String())
	assert.Equal(t, "0 Bytes", ByteSize(0).String())
}

package pathing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

func testSubscriber() *entities.Subscriber {
	sub := entities.NewSubscriber(entities.ChatKey{ChatID: "1", ChatKind: entities.ChatKindGroup}, "holiday")
	sub.SortByUser = false
	return sub
}

func document(name string) *dto.MediaDescriptor {
	return &dto.MediaDescriptor{Kind: entities.MediaKindDocument, RemoteID: "f1", FileName: name}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestResolveCreatesChatDirectory(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)

	res, err := resolver.Resolve(testSubscriber(), "Anna", document("trip.jpg"))
	require.NoError(t, err)

	assert.Equal(t, "trip.jpg", res.FileName)
	assert.Equal(t, filepath.Join(root, "holiday", "trip.jpg"), res.Path)
	assert.DirExists(t, filepath.Join(root, "holiday"))
}

func TestResolveShardsBySenderLowercased(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	sub := testSubscriber()
	sub.SortByUser = true

	res, err := resolver.Resolve(sub, "Anna", document("trip.jpg"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "holiday", "anna", "trip.jpg"), res.Path)
}

func TestToggleSortByUserOnlyAffectsSubsequentFiles(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	sub := testSubscriber()

	first, err := resolver.Resolve(sub, "Anna", document("a.jpg"))
	require.NoError(t, err)
	touch(t, first.Path)

	sub.SortByUser = true
	second, err := resolver.Resolve(sub, "Anna", document("b.jpg"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "holiday", "a.jpg"))
	assert.Equal(t, filepath.Join(root, "holiday", "anna", "b.jpg"), second.Path)
}

func TestResolveRejectsCollisionWhenDuplicatesDisallowed(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	sub := testSubscriber()
	sub.AllowDuplicates = false

	touch(t, filepath.Join(root, "holiday", "trip.jpg"))

	res, err := resolver.Resolve(sub, "Anna", document("trip.jpg"))
	require.ErrorIs(t, err, archiveerrors.ErrDuplicateName)
	assert.Equal(t, "trip.jpg", res.FileName)
}

func TestResolveSuffixesCollisionWhenDuplicatesAllowed(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	sub := testSubscriber()

	touch(t, filepath.Join(root, "holiday", "trip.jpg"))
	touch(t, filepath.Join(root, "holiday", "trip_1.jpg"))

	res, err := resolver.Resolve(sub, "Anna", document("trip.jpg"))
	require.NoError(t, err)

	assert.Equal(t, "trip_2.jpg", res.FileName)
	assert.Equal(t, filepath.Join(root, "holiday", "trip_2.jpg"), res.Path)
}

func TestResolveSynthesizesTimestampNameWithoutAttribute(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	resolver.now = func() time.Time {
		return time.Date(2024, 6, 1, 13, 37, 42, 0, time.UTC)
	}

	res, err := resolver.Resolve(testSubscriber(), "Anna", &dto.MediaDescriptor{
		Kind:     entities.MediaKindPhoto,
		RemoteID: "p1",
	})
	require.NoError(t, err)

	assert.Equal(t, "media_2024-06-01_13-37-42", res.FileName)
}

func TestResolveSurfacesDestinationProbeErrors(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	sub := testSubscriber()

	// a regular file in place of a path component makes Stat fail with
	// ENOTDIR, which is not a collision
	touch(t, filepath.Join(root, "holiday", "blocker"))

	res, err := resolver.Resolve(sub, "Anna", document(filepath.Join("blocker", "nested")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, archiveerrors.ErrDuplicateName)
	assert.Empty(t, res.FileName)
}

func TestResolveIsStableAcrossRetries(t *testing.T) {
	root := t.TempDir()
	resolver := NewResolver(root)
	sub := testSubscriber()

	first, err := resolver.Resolve(sub, "Anna", document("trip.jpg"))
	require.NoError(t, err)

	// Nothing written yet: a retried resolution of the same message must
	// pick the same destination.
	second, err := resolver.Resolve(sub, "Anna", document("trip.jpg"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

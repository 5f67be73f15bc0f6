package bundler

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// incompressible payloads so the compressed stream actually spans volumes
func randomBytes(t *testing.T, rng *rand.Rand, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := rng.Read(buf)
	require.NoError(t, err)
	return buf
}

func TestSplitProducesCappedOrderedVolumes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	source := t.TempDir()
	staging := t.TempDir()

	files := map[string][]byte{
		"a.bin":        randomBytes(t, rng, 1_000_000),
		"b.bin":        randomBytes(t, rng, 1_000_000),
		"nested/c.bin": randomBytes(t, rng, 500_000),
	}
	for name, content := range files {
		path := filepath.Join(source, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, content, 0o644))
	}

	bundler := NewTarGzBundler(zerolog.Nop())
	volumes, err := bundler.Split(context.Background(), source, staging, "holiday", 1_000_000)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(volumes), 3)
	for i, volume := range volumes {
		info, err := os.Stat(volume)
		require.NoError(t, err)
		assert.LessOrEqual(t, info.Size(), int64(1_000_000))
		assert.Contains(t, volume, "holiday.tar.gz.")
		if i > 0 {
			assert.Greater(t, volume, volumes[i-1])
		}
	}

	// concatenating the volumes reconstructs the tar.gz stream
	var stream bytes.Buffer
	for _, volume := range volumes {
		content, err := os.ReadFile(volume)
		require.NoError(t, err)
		stream.Write(content)
	}

	gzipReader, err := gzip.NewReader(&stream)
	require.NoError(t, err)
	tarReader := tar.NewReader(gzipReader)

	restored := make(map[string][]byte)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tarReader)
		require.NoError(t, err)
		restored[header.Name] = content
	}

	require.Len(t, restored, len(files))
	for name, content := range files {
		assert.Equal(t, content, restored[filepath.ToSlash(name)], "content mismatch for %s", name)
	}
}

func TestSplitSmallDirectoryFitsOneVolume(t *testing.T) {
	source := t.TempDir()
	staging := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "note.txt"), []byte("hello"), 0o644))

	bundler := NewTarGzBundler(zerolog.Nop())
	volumes, err := bundler.Split(context.Background(), source, staging, "tiny", 1_000_000)
	require.NoError(t, err)

	require.Len(t, volumes, 1)
	assert.Equal(t, filepath.Join(staging, "tiny.tar.gz.001"), volumes[0])
}

func TestSplitRejectsNonPositiveVolumeSize(t *testing.T) {
	bundler := NewTarGzBundler(zerolog.Nop())
	_, err := bundler.Split(context.Background(), t.TempDir(), t.TempDir(), "x", 0)
	require.Error(t, err)
}

func TestSplitHonorsCancellation(t *testing.T) {
	source := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "note.txt"), []byte("hello"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bundler := NewTarGzBundler(zerolog.Nop())
	_, err := bundler.Split(ctx, source, t.TempDir(), "x", 1_000_000)
	require.ErrorIs(t, err, context.Canceled)
}

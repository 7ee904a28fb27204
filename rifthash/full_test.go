package rifthash

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestFull(t *testing.T, dir string) (*Light, *Full) {
	t.Helper()
	seed, cacheSize, fullSize := testParams()
	light, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)

	// NewFull consumes light.cache, so keep a second handle around for
	// the light side of agreement checks.
	lightForFull, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)

	full, err := NewFull(lightForFull, dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { full.Close() })

	return light, full
}

func TestLightAndFullAgree(t *testing.T) {
	dir := t.TempDir()
	light, full := newTestFull(t, dir)

	var header Hash
	for i := range header {
		header[i] = 0xFF
	}

	lr := light.Compute(header, 0)
	fr := full.Compute(header, 0)
	require.True(t, lr.Success)
	require.True(t, fr.Success)
	require.Equal(t, lr.Result, fr.Result, "light and full must agree on result")
	require.Equal(t, lr.MixHash, fr.MixHash, "light and full must agree on mix_hash")
}

func TestNewFullRejectsNilLight(t *testing.T) {
	_, err := NewFull(nil, t.TempDir(), nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalid))
}

func TestFullDagRoundTrip(t *testing.T) {
	dir := t.TempDir()
	seed, cacheSize, fullSize := testParams()

	light1, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)
	full1, err := NewFull(light1, dir, nil)
	require.NoError(t, err)
	dagCopy := append([]byte(nil), full1.Dag()...)
	require.NoError(t, full1.Close())

	// Reopening the same epoch's DAG from disk must reuse the file
	// rather than rebuild it, and must see byte-identical contents.
	light2, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)
	full2, err := NewFull(light2, dir, nil)
	require.NoError(t, err)
	defer full2.Close()

	require.Equal(t, dagCopy, full2.Dag())
	require.Equal(t, fullSize, full2.DagSize())
}

func TestFullComputeDetectsDagCorruption(t *testing.T) {
	dir := t.TempDir()
	seed, cacheSize, fullSize := testParams()

	light, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)
	lightRef, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)
	full, err := NewFull(light, dir, nil)
	require.NoError(t, err)

	var header Hash
	for i := range header {
		header[i] = 0xAB
	}
	before := full.Compute(header, 0)
	require.NoError(t, full.Close())

	path := dagFilePath(dir, SeedHash(0))
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	var b [1]byte
	_, err = f.ReadAt(b[:], dagMagicSize)
	require.NoError(t, err)
	b[0] ^= 0xFF
	_, err = f.WriteAt(b[:], dagMagicSize)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	full2, err := NewFull(lightRef, dir, nil)
	require.NoError(t, err)
	defer full2.Close()

	after := full2.Compute(header, 0)
	require.NotEqual(t, before.Result, after.Result, "corrupting the dataset body must change the result")
}

func TestBuildDAGAbortLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	seed, cacheSize, fullSize := testParams()
	light, err := newLightWithParams(0, seed, cacheSize, fullSize)
	require.NoError(t, err)

	abortAtHalf := func(percent int) int {
		if percent >= 50 {
			return 1
		}
		return 0
	}

	_, err = NewFull(light, dir, abortAtHalf)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAborted))

	path := dagFilePath(dir, SeedHash(0))
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr), "no finished DAG file should exist after an aborted build")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".tmp-", "temp file must be cleaned up after abort")
	}
}

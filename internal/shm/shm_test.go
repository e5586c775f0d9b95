package shm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jypelle/yuvbridge/internal/shm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAcquirerSharesBytes(t *testing.T) {
	acq := shm.NewMemoryAcquirer()

	writer, err := acq.Acquire("keys", shm.KeyStatusSize)
	require.NoError(t, err)
	reader, err := acq.Acquire("keys", shm.KeyStatusSize)
	require.NoError(t, err)

	writer.Bytes()[3] = 1
	assert.Equal(t, byte(1), reader.Bytes()[3])
	assert.Len(t, reader.Bytes(), shm.KeyStatusSize)
	assert.NoError(t, reader.Close())
}

func TestMemoryAcquirerRejectsEmptyRegion(t *testing.T) {
	_, err := shm.NewMemoryAcquirer().Acquire("video", 0)
	assert.Error(t, err)
}

func TestFileAcquirerCreatesAndResizes(t *testing.T) {
	name := filepath.Join(t.TempDir(), "doom_yuv.bin")
	require.NoError(t, os.WriteFile(name, make([]byte, 10), 0666))

	acq := shm.NewFileAcquirer()
	region, err := acq.Acquire(name, shm.VideoBufferSize)
	require.NoError(t, err)
	defer region.Close()

	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Equal(t, int64(shm.VideoBufferSize), info.Size())
	assert.Len(t, region.Bytes(), shm.VideoBufferSize)
}

func TestFileAcquirerMappingIsShared(t *testing.T) {
	name := filepath.Join(t.TempDir(), "keystatus.bin")
	acq := shm.NewFileAcquirer()

	writer, err := acq.Acquire(name, shm.KeyStatusSize)
	require.NoError(t, err)
	defer writer.Close()
	reader, err := acq.Acquire(name, shm.KeyStatusSize)
	require.NoError(t, err)
	defer reader.Close()

	writer.Bytes()[5] = 1
	assert.Equal(t, byte(1), reader.Bytes()[5])

	raw, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, byte(1), raw[5])
}

func TestFileAcquirerOpenFailure(t *testing.T) {
	name := filepath.Join(t.TempDir(), "missing", "keystatus.bin")
	_, err := shm.NewFileAcquirer().Acquire(name, shm.KeyStatusSize)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestFileAcquirerTruncateFailure(t *testing.T) {
	// character devices open fine but cannot be resized
	_, err := shm.NewFileAcquirer().Acquire(os.DevNull, shm.KeyStatusSize)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftruncate "+os.DevNull)
}

func TestFileRegionCloseTwice(t *testing.T) {
	name := filepath.Join(t.TempDir(), "keystatus.bin")
	region, err := shm.NewFileAcquirer().Acquire(name, shm.KeyStatusSize)
	require.NoError(t, err)
	assert.NoError(t, region.Close())
	assert.NoError(t, region.Close())
}

package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSizing(t *testing.T) {
	t.Parallel()
	s, ok := FindSizing(MasterSizings, "large")
	require.True(t, ok)
	assert.Equal(t, 8, s.Cores)
	assert.Equal(t, 16384, s.Memory)
	assert.Equal(t, 128, s.Storage)

	_, ok = FindSizing(MasterSizings, "xlarge")
	assert.False(t, ok)

	_, ok = FindSizing(WorkerSizings, "xlarge")
	assert.True(t, ok)
}

func TestSizingsToOptions(t *testing.T) {
	t.Parallel()
	opts := SizingsToOptions(WorkerSizings)
	require.Len(t, opts, len(WorkerSizings))
	assert.Equal(t, "small", opts[0].Value)
	assert.Equal(t, "small - 2 cores, 4GB RAM, 32GB disk", opts[0].Key)
}

func TestDefaultSizingExists(t *testing.T) {
	t.Parallel()
	_, ok := FindSizing(MasterSizings, DefaultSizing)
	assert.True(t, ok)
	_, ok = FindSizing(WorkerSizings, DefaultSizing)
	assert.True(t, ok)
}

func TestMasterCountOptionsAreOdd(t *testing.T) {
	t.Parallel()
	for _, opt := range MasterCountOptions {
		assert.Equal(t, 1, opt.Value%2, opt.Key)
	}
}

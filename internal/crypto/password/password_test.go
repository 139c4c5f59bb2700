package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		length      int
		wantErr     bool
		errContains string
	}{
		{name: "minimum", length: MinLength},
		{name: "default", length: DefaultLength},
		{name: "long", length: 64},
		{name: "too short", length: MinLength - 1, wantErr: true, errContains: "invalid password length"},
		{name: "zero", length: 0, wantErr: true, errContains: "invalid password length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pw, err := Generate(tt.length)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Len(t, pw, tt.length)
			for _, c := range pw {
				assert.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q", c)
			}
		})
	}
}

func TestGenerateUniqueness(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for range 50 {
		pw, err := Generate(DefaultLength)
		require.NoError(t, err)
		assert.False(t, seen[pw], "generated passwords should be unique")
		seen[pw] = true
	}
}

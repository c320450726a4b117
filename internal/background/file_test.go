package background

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Threshold(t *testing.T) {
	path := writeRules(t, `
kind = "threshold"
default = "#FFFFFF"

[[bucket]]
color = "#E8F8EC"
from = 17
`)

	rule, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Green, rule.Color("frame_0017.png"))
	assert.Equal(t, White, rule.Color("frame_0016.png"))
}

func TestLoadFile_Names(t *testing.T) {
	path := writeRules(t, `
kind = "names"

[[bucket]]
color = "#F8E8F0"
frames = ["frame_0001.png", "frame_0004.png"]

[[bucket]]
color = "#E8F8EC"
frames = ["frame_0016.png"]
`)

	rule, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Pink, rule.Color("frame_0004.png"))
	assert.Equal(t, Green, rule.Color("frame_0016.png"))
	assert.Equal(t, Default, rule.Color("frame_0017.png"), "missing default falls back to the built-in one")
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown kind", "kind = \"random\"\n[[bucket]]\ncolor = \"#FFFFFF\"\nfrom = 1\n"},
		{"missing kind", "[[bucket]]\ncolor = \"#FFFFFF\"\nfrom = 1\n"},
		{"no buckets", "kind = \"threshold\"\n"},
		{"bad bucket color", "kind = \"threshold\"\n[[bucket]]\ncolor = \"green\"\nfrom = 1\n"},
		{"short bucket color", "kind = \"threshold\"\n[[bucket]]\ncolor = \"#0f0\"\nfrom = 1\n"},
		{"bad default", "kind = \"threshold\"\ndefault = \"white\"\n[[bucket]]\ncolor = \"#FFFFFF\"\nfrom = 1\n"},
		{"negative threshold", "kind = \"threshold\"\n[[bucket]]\ncolor = \"#FFFFFF\"\nfrom = -1\n"},
		{"threshold without from", "kind = \"threshold\"\n[[bucket]]\ncolor = \"#FFFFFF\"\n"},
		{"names without frames", "kind = \"names\"\n[[bucket]]\ncolor = \"#FFFFFF\"\n"},
		{"unknown key", "kind = \"threshold\"\nshade = 1\n[[bucket]]\ncolor = \"#FFFFFF\"\nfrom = 1\n"},
		{"invalid toml", "kind = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeRules(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRules)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestParse(t *testing.T) {
	rule, err := Parse("kind = \"threshold\"\n[[bucket]]\ncolor = \"#F8E8F0\"\nfrom = 3\n")
	require.NoError(t, err)
	assert.Equal(t, Pink, rule.Color("frame_0003.png"))
	assert.Equal(t, Default, rule.Color("frame_0002.png"))
}

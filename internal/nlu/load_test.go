package nlu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIntents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	data := `{
  "intents": [
    {"tag": "greeting", "patterns": ["hello", "hi"], "responses": ["Hello!"]},
    {"tag": "faq", "patterns": ["shipping"], "responses": []}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadIntents(path)
	require.NoError(t, err)
	require.Len(t, cfg.Intents, 2)
	assert.Equal(t, "greeting", cfg.Intents[0].Tag)
	assert.Equal(t, []string{"hello", "hi"}, cfg.Intents[0].Patterns)
}

func TestLoadIntentsMissingFile(t *testing.T) {
	_, err := LoadIntents(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadIntentsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadIntents(path)
	assert.Error(t, err)
}

package taxonomy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "en:zeta": {"name": {"fr": "Zêta"}, "synonyms": {"fr": ["Zêta", "Zeta"]}},
  "en:alpha": {"name": {"en": "Alpha", "fr": "Alpha FR"}, "synonyms": {"fr": ["Alpha FR"], "en": ["Alpha", "ALPHA"]}},
  "en:alpha-light": {"name": {"en": "Alpha Light"}, "parents": ["en:alpha"]},
  "nameless": {}
}`

func TestFromReader(t *testing.T) {
	tx, err := FromReader(strings.NewReader(sample))
	require.NoError(t, err)
	require.Equal(t, 4, tx.Len())

	ids := make([]string, 0, tx.Len())
	for _, node := range tx.Nodes() {
		ids = append(ids, node.ID)
	}
	assert.Equal(t, []string{"en:alpha", "en:alpha-light", "en:zeta", "nameless"}, ids)

	alpha, ok := tx.Get("en:alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", alpha.Tag)
	assert.Equal(t, "Alpha", alpha.DisplayName())
	assert.Equal(t, []string{"Alpha", "ALPHA", "Alpha FR"}, alpha.SurfaceForms())

	light, ok := tx.Get("en:alpha-light")
	require.True(t, ok)
	require.Len(t, light.Parents, 1)
	assert.Same(t, alpha, light.Parents[0])
	assert.Equal(t, []string{"Alpha Light"}, light.SurfaceForms())

	zeta, _ := tx.Get("en:zeta")
	assert.Equal(t, "Zêta", zeta.DisplayName())

	nameless, _ := tx.Get("nameless")
	assert.Equal(t, "nameless", nameless.Tag)
	assert.Equal(t, "nameless", nameless.DisplayName())
	assert.Empty(t, nameless.SurfaceForms())

	_, ok = tx.Get("en:missing")
	assert.False(t, ok)
}

func TestFromBytes_Errors(t *testing.T) {
	_, err := FromBytes([]byte(`not json`))
	assert.Error(t, err)

	_, err = FromBytes([]byte(`{"en:a": {"parents": ["en:b"]}}`))
	assert.ErrorContains(t, err, "unknown parent en:b")
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(t.TempDir() + "/missing.json")
	assert.Error(t, err)
}

func TestEmbedded(t *testing.T) {
	tx, err := Embedded()
	require.NoError(t, err)
	assert.Positive(t, tx.Len())

	node, ok := tx.Get("en:bio-c-bon")
	require.True(t, ok)
	assert.Equal(t, "Bio C Bon", node.DisplayName())
	assert.Equal(t, "bio-c-bon", node.Tag)
}

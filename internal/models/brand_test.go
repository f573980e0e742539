package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandEntryFromLine(t *testing.T) {
	entry, err := BrandEntryFromLine("Carrefour")
	require.NoError(t, err)
	assert.Equal(t, "Carrefour", entry.Brand)
	assert.False(t, entry.HasExplicitPattern())

	entry, err = BrandEntryFromLine("Coca-Cola||coca[- ]?cola")
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola", entry.Brand)
	assert.Equal(t, "coca[- ]?cola", entry.Pattern)
	assert.True(t, entry.HasExplicitPattern())

	for _, line := range []string{"", "||carrefour", "Carrefour||", "a||b||c"} {
		_, err := BrandEntryFromLine(line)
		assert.Errorf(t, err, "line %q", line)
	}
}

func TestLogoAnnotationEntryFromLine(t *testing.T) {
	entry, err := LogoAnnotationEntryFromLine("Nestlé||nestl[eé]")
	require.NoError(t, err)
	assert.Equal(t, "Nestlé", entry.Brand)
	assert.Equal(t, "nestl[eé]", entry.Pattern)

	_, err = LogoAnnotationEntryFromLine("Nestlé")
	assert.Error(t, err)

	_, err = LogoAnnotationEntryFromLine("Nestlé||")
	assert.Error(t, err)
}

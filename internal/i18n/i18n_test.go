package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Take Break", T("en", "takeBreak"))
	assert.Equal(t, "Пауза", T("mk", "takeBreak"))
	assert.Equal(t, "Pushim", T("sq", "takeBreak"))

	// unknown language falls back to English
	assert.Equal(t, "Take Break", T("de", "takeBreak"))

	// keys missing from a dictionary fall back to English
	assert.Equal(t, "Working since", T("mk", "workingSince"))

	// unknown keys come back verbatim
	assert.Equal(t, "noSuchKey", T("en", "noSuchKey"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("en"))
	assert.True(t, Supported("mk"))
	assert.True(t, Supported("sq"))
	assert.False(t, Supported("de"))
	assert.False(t, Supported(""))
}

func TestDictionary(t *testing.T) {
	en := Dictionary("en")
	mk := Dictionary("mk")

	// every merged dictionary covers the full English key set
	assert.Equal(t, len(en), len(mk))
	assert.Equal(t, "Пауза", mk["takeBreak"])
	assert.Equal(t, "Working since", mk["workingSince"])
}

func TestLanguages(t *testing.T) {
	langs := Languages()

	assert.Len(t, langs, 3)
	for _, l := range langs {
		assert.True(t, Supported(l.Code))
	}
}

package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Dr. Jared Hazleton!":      "dr-jared-hazleton",
		"  Multiple   Spaces  ":    "multiple-spaces",
		"Texas -- Economy":         "texas-economy",
		"---leading and trailing-": "leading-and-trailing",
		"Q3 2024: GDP & Jobs":      "q3-2024-gdp-jobs",
		"Café Économie":            "caf-conomie",
		"":                         "",
		"!!!":                      "",
		"tabs\tand\nnewlines":      "tabs-and-newlines",
		"Texas\u00a0Economy":       "texas-economy",
		"Texas\vEconomy":           "texas-economy",
		"Texas\u2009\u3000Economy": "texas-economy",
		"\ufeffTexas Economy":      "texas-economy",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), "slug of %q", in)
	}
}

func TestSlugIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "dr-jared-hazleton", Slug("Dr. Jared Hazleton!"))
	}
}

package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeaderExactSpellings(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    string
	}{
		{"plain", []string{"Division", "Site Code", "Attribute"}, "Site Code"},
		{"underscored", []string{"division", "SITE_CODE"}, "SITE_CODE"},
		{"hyphenated", []string{"site-code", "value"}, "site-code"},
		{"device code alias", []string{"Name", "Device Code"}, "Device Code"},
		{"rmu alias", []string{"RMU CODE", "Status"}, "RMU CODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveSiteCode(tt.headers)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveHeaderSubstringFallback(t *testing.T) {
	headers := []string{"Division", "New Site Code (2024)", "Value"}
	got, ok := ResolveSiteCode(headers)
	require.True(t, ok)
	assert.Equal(t, "New Site Code (2024)", got)
}

func TestResolveHeaderExactBeatsSubstring(t *testing.T) {
	// The substring match appears first, but pass 1 runs over all headers
	// before the fallback gets a chance.
	headers := []string{"Old Site Code Archive", "Site Code"}
	got, ok := ResolveSiteCode(headers)
	require.True(t, ok)
	assert.Equal(t, "Site Code", got)
}

func TestResolveHeaderNotFound(t *testing.T) {
	_, ok := ResolveSiteCode([]string{"Division", "Circle", "Value"})
	assert.False(t, ok)
}

func TestNormalizeSiteKey(t *testing.T) {
	assert.Equal(t, "ABC123", NormalizeSiteKey("  abc-123 "))
	assert.Equal(t, "ABC123", NormalizeSiteKey("ABC_1.2 3"))
	assert.Equal(t, "", NormalizeSiteKey("   "))
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "sitecode", NormalizeHeader(" Site_Code "))
	assert.Equal(t, "devicestatus", NormalizeHeader("DEVICE-STATUS"))
}

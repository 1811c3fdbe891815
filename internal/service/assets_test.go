package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableCountries(t *testing.T) {
	countries := AvailableCountries()
	require.Len(t, countries, 4)

	codes := map[string]bool{}
	for _, c := range countries {
		codes[c.Code] = true
		assert.NotEmpty(t, c.Currency)
		assert.Equal(t, 3, c.TotalAssets)
	}
	assert.True(t, codes["IN"])
}

func TestAssetsByCountry(t *testing.T) {
	assets, ok := AssetsByCountry("IN")
	require.True(t, ok)
	require.Contains(t, assets, "INR-SGB")

	sgb := assets["INR-SGB"]
	assert.Equal(t, 1, sgb.Tier)
	assert.Equal(t, 500, sgb.HaircutBP)
	assert.True(t, sgb.Active)

	_, ok = AssetsByCountry("XX")
	assert.False(t, ok)
}

func TestAssetsByCountry_ReturnsCopy(t *testing.T) {
	assets, ok := AssetsByCountry("IN")
	require.True(t, ok)

	delete(assets, "INR-SGB")
	assets["INR-FAKE"] = AssetMetadata{Symbol: "INR-FAKE"}

	again, ok := AssetsByCountry("IN")
	require.True(t, ok)
	assert.Contains(t, again, "INR-SGB")
	assert.NotContains(t, again, "INR-FAKE")
}

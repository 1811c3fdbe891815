package service

import "github.com/shopspring/decimal"

// AssetMetadata mirrors what the on-chain contract collaborator exposes per
// asset. Read-only from this side.
type AssetMetadata struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Tier            int             `json:"tier"`
	HaircutBP       int             `json:"haircutBP"`
	Country         string          `json:"country"`
	Decimals        int             `json:"decimals"`
	YieldRate       int             `json:"yieldRate"`
	NAV             decimal.Decimal `json:"nav"`
	Active          bool            `json:"active"`
	Description     string          `json:"description"`
	AvailableSupply string          `json:"availableSupply"`
	MarketCap       string          `json:"marketCap"`
}

type Country struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	Flag           string `json:"flag"`
	Description    string `json:"description"`
	TotalAssets    int    `json:"totalAssets"`
	TotalMarketCap string `json:"totalMarketCap"`
}

var countries = []Country{
	{Code: "IN", Name: "India", Currency: "INR", Flag: "🇮🇳", Description: "Indian financial markets and assets", TotalAssets: 3, TotalMarketCap: "89.2B"},
	{Code: "JP", Name: "Japan", Currency: "JPY", Flag: "🇯🇵", Description: "Japanese financial markets and assets", TotalAssets: 3, TotalMarketCap: "67.3B"},
	{Code: "EU", Name: "European Union", Currency: "EUR", Flag: "🇪🇺", Description: "European financial markets and assets", TotalAssets: 3, TotalMarketCap: "83.1B"},
	{Code: "GB", Name: "United Kingdom", Currency: "GBP", Flag: "🇬🇧", Description: "UK financial markets and assets", TotalAssets: 3, TotalMarketCap: "62.1B"},
}

var assetsByCountry = map[string]map[string]AssetMetadata{
	"IN": {
		"INR-SGB": {
			Symbol: "INR-SGB", Name: "Indian Government Bonds", Tier: 1, HaircutBP: 500,
			Country: "IN", Decimals: 18, YieldRate: 250, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Sovereign Government Bonds (10-30 days maturity)", AvailableSupply: "2.5T", MarketCap: "45.2B",
		},
		"INR-CORP": {
			Symbol: "INR-CORP", Name: "HDFC Corporate Bonds", Tier: 2, HaircutBP: 1500,
			Country: "IN", Decimals: 18, YieldRate: 350, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Corporate Bonds (≤6 months tenor)", AvailableSupply: "1.8T", MarketCap: "28.7B",
		},
		"INR-MFD": {
			Symbol: "INR-MFD", Name: "Nifty 50 ETF", Tier: 3, HaircutBP: 2500,
			Country: "IN", Decimals: 18, YieldRate: 450, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Equities & Alternative Assets", AvailableSupply: "950B", MarketCap: "15.3B",
		},
	},
	"JP": {
		"JPY-GOV": {
			Symbol: "JPY-GOV", Name: "Japanese Government Bonds", Tier: 1, HaircutBP: 500,
			Country: "JP", Decimals: 18, YieldRate: 150, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Sovereign Government Bonds (10-30 days maturity)", AvailableSupply: "1.2T", MarketCap: "32.1B",
		},
		"JPY-CORP": {
			Symbol: "JPY-CORP", Name: "Toyota Motor Bonds", Tier: 2, HaircutBP: 1500,
			Country: "JP", Decimals: 18, YieldRate: 250, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Corporate Bonds (≤6 months tenor)", AvailableSupply: "850B", MarketCap: "22.4B",
		},
		"JPY-ETF": {
			Symbol: "JPY-ETF", Name: "Nikkei 225 ETF", Tier: 3, HaircutBP: 2500,
			Country: "JP", Decimals: 18, YieldRate: 380, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Equities & Alternative Assets", AvailableSupply: "420B", MarketCap: "12.8B",
		},
	},
	"EU": {
		"EUR-GOV": {
			Symbol: "EUR-GOV", Name: "German Bunds", Tier: 1, HaircutBP: 500,
			Country: "EU", Decimals: 18, YieldRate: 180, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Sovereign Government Bonds (10-30 days maturity)", AvailableSupply: "1.6T", MarketCap: "38.4B",
		},
		"EUR-CORP": {
			Symbol: "EUR-CORP", Name: "Siemens Corporate Bonds", Tier: 2, HaircutBP: 1500,
			Country: "EU", Decimals: 18, YieldRate: 280, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Corporate Bonds (≤6 months tenor)", AvailableSupply: "1.1T", MarketCap: "26.9B",
		},
		"EUR-ETF": {
			Symbol: "EUR-ETF", Name: "Euro Stoxx 50 ETF", Tier: 3, HaircutBP: 2500,
			Country: "EU", Decimals: 18, YieldRate: 400, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Equities & Alternative Assets", AvailableSupply: "680B", MarketCap: "17.8B",
		},
	},
	"GB": {
		"GBP-GILT": {
			Symbol: "GBP-GILT", Name: "UK Gilts", Tier: 1, HaircutBP: 500,
			Country: "GB", Decimals: 18, YieldRate: 220, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Sovereign Government Bonds (10-30 days maturity)", AvailableSupply: "1.3T", MarketCap: "29.6B",
		},
		"GBP-CORP": {
			Symbol: "GBP-CORP", Name: "HSBC Corporate Bonds", Tier: 2, HaircutBP: 1500,
			Country: "GB", Decimals: 18, YieldRate: 320, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Corporate Bonds (≤6 months tenor)", AvailableSupply: "900B", MarketCap: "20.2B",
		},
		"GBP-ETF": {
			Symbol: "GBP-ETF", Name: "FTSE 100 ETF", Tier: 3, HaircutBP: 2500,
			Country: "GB", Decimals: 18, YieldRate: 420, NAV: decimal.NewFromInt(1000), Active: true,
			Description: "Equities & Alternative Assets", AvailableSupply: "510B", MarketCap: "12.3B",
		},
	},
}

func AvailableCountries() []Country {
	return countries
}

// AssetsByCountry returns a copy of the catalog for a country code so
// callers cannot mutate the shared tables.
func AssetsByCountry(code string) (map[string]AssetMetadata, bool) {
	assets, ok := assetsByCountry[code]
	if !ok {
		return nil, false
	}
	out := make(map[string]AssetMetadata, len(assets))
	for symbol, meta := range assets {
		out[symbol] = meta
	}
	return out, true
}

package domain

import "time"

// Company represents a business entity inferred from enrichment, unique by name
type Company struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Website    *string   `json:"website"`
	Country    *string   `json:"country"`
	Categories []string  `json:"categories"`
	Summary    *string   `json:"summary_ai"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CompanyFilter represents filtering criteria for companies
type CompanyFilter struct {
	Query    string
	Category string
	Country  string
	Limit    int
	Offset   int
}

// TokenQuote is one ranked market entry as returned by the market-data provider
type TokenQuote struct {
	ProviderID   string  `json:"coingecko_id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Image        *string `json:"image"`
	PriceUSD     float64 `json:"price_usd"`
	MarketCapUSD float64 `json:"market_cap_usd"`
	Volume24hUSD float64 `json:"volume_24h_usd"`
	Change1hPct  float64 `json:"change_1h_pct"`
	Change24hPct float64 `json:"change_24h_pct"`
	Change7dPct  float64 `json:"change_7d_pct"`
	Rank         int     `json:"rank"`
}

// TokenSnapshot is a stored token quote; TakenAt is shared by all rows of one batch
type TokenSnapshot struct {
	ID int64 `json:"id"`
	TokenQuote
	TakenAt time.Time `json:"taken_at"`
}

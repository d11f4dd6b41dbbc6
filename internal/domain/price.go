package domain

import "time"

// BitcoinPrice é a cotação atual do Bitcoin em BRL/USD com variação e volume de 24h.
type BitcoinPrice struct {
	PriceBRL    float64   `json:"price_brl"`
	PriceUSD    float64   `json:"price_usd"`
	LastUpdated time.Time `json:"last_updated"`
	Change24h   float64   `json:"change_24h"`
	Volume24h   float64   `json:"volume_24h"`
}

package data

// TickerAggs mirrors the daily aggregate payload of the market-data API.
type TickerAggs struct {
	Ticker  string `json:"ticker"`
	Status  string `json:"status"`
	Results []struct {
		Close float64 `json:"c"`
		T     int64   `json:"t"`
	} `json:"results"`
	Next string `json:"next_url"`
}

// PriceFile is the on-disk price history format accepted by Load.
type PriceFile struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
}

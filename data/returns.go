package data

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const Layout = "2006-01-02"

// ReturnSeries is an ordered return sample with optional date labels.
type ReturnSeries struct {
	Dates   []time.Time
	Returns []float64
}

// FromPrices converts a price history into log returns. The returned series
// is one observation shorter than the price history; each return carries
// the date of its later price.
func FromPrices(dates []time.Time, px []float64) (ReturnSeries, error) {
	if len(px) < 2 {
		return ReturnSeries{}, errors.New("need at least 2 prices to compute returns")
	}
	if dates != nil && len(dates) != len(px) {
		return ReturnSeries{}, fmt.Errorf("dates length %d does not match prices length %d", len(dates), len(px))
	}
	rs := ReturnSeries{Returns: make([]float64, len(px)-1)}
	for i := 1; i < len(px); i++ {
		if px[i-1] <= 0.0 || px[i] <= 0.0 {
			return ReturnSeries{}, fmt.Errorf("non-positive price at index %d", i)
		}
		rs.Returns[i-1] = math.Log(px[i] / px[i-1])
	}
	if dates != nil {
		rs.Dates = append([]time.Time(nil), dates[1:]...)
	}
	return rs, nil
}

// Load reads a price-history JSON file and converts it to log returns.
func Load(filename string) (ReturnSeries, error) {
	pf, err := Open(filename, PriceFile{})
	if err != nil {
		return ReturnSeries{}, err
	}
	var dates []time.Time
	if len(pf.Dates) > 0 {
		dates = make([]time.Time, len(pf.Dates))
		for i, s := range pf.Dates {
			d, err := time.Parse(Layout, s)
			if err != nil {
				return ReturnSeries{}, err
			}
			dates[i] = d
		}
	}
	return FromPrices(dates, pf.Prices)
}

// GetHistReturns fetches daily closes for a symbol and converts them to log
// returns with date labels.
func GetHistReturns(symbol string, from, to time.Time) (ReturnSeries, error) {
	url := fmt.Sprintf("https://api.polygon.io/v2/aggs/ticker/%v/range/1/day/%v/%v?sort=asc&limit=5000",
		symbol, from.Format(Layout), to.Format(Layout))
	aggs, err := getAggs(url)
	if err != nil {
		return ReturnSeries{}, err
	}
	if aggs.Status != "OK" || len(aggs.Results) == 0 {
		return ReturnSeries{}, fmt.Errorf("no price data for %v", symbol)
	}
	dates := make([]time.Time, len(aggs.Results))
	px := make([]float64, len(aggs.Results))
	for i, r := range aggs.Results {
		dates[i] = time.UnixMilli(r.T).UTC().Truncate(24 * time.Hour)
		px[i] = r.Close
	}
	return FromPrices(dates, px)
}

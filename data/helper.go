package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// Open reads a JSON file into the target type.
func Open[T PriceFile | TickerAggs](filename string, target T) (T, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return target, err
	}
	err = json.Unmarshal(file, &target)
	if err != nil {
		return target, err
	}
	return target, nil
}

// getAggs fetches a daily-aggregate payload from the market-data API. The
// API key is read from the environment.
func getAggs(url string) (TickerAggs, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return TickerAggs{}, err
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %v", os.Getenv("POLYGON_API_KEY")))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return TickerAggs{}, err
	}
	defer resp.Body.Close()

	var target TickerAggs
	if err := json.NewDecoder(resp.Body).Decode(&target); err != nil {
		return TickerAggs{}, err
	}
	return target, nil
}

package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UniverseStock is one listing from the market ranking API.
type UniverseStock struct {
	Ticker    string
	Name      string
	Market    string
	MarketCap int64
}

type rankingItem struct {
	ItemCode  string `json:"itemcode"`
	ItemName  string `json:"itemname"`
	MarketSum string `json:"marketSum"`
}

// FetchUniverse pages through the market-cap ranking for a market
// (KOSPI or KOSDAQ) and returns the listed stocks, largest first.
func (c *Client) FetchUniverse(ctx context.Context, market string, maxPages int) ([]UniverseStock, error) {
	if maxPages <= 0 {
		maxPages = 15
	}

	var stocks []UniverseStock
	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf(
			"https://stock.naver.com/api/domestic/market/stock/default?orderType=marketSum&marketType=%s&page=%d&pageSize=100",
			market, page,
		)

		body, err := c.httpClient.Get(ctx, url, nil)
		if err != nil {
			return nil, fmt.Errorf("fetch ranking page %d: %w", page, err)
		}

		var items []rankingItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode ranking page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			cap, _ := strconv.ParseInt(strings.ReplaceAll(item.MarketSum, ",", ""), 10, 64)
			stocks = append(stocks, UniverseStock{
				Ticker:    item.ItemCode,
				Name:      item.ItemName,
				Market:    market,
				MarketCap: cap,
			})
		}
	}

	c.log.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(stocks),
	}).Info("universe fetched")

	return stocks, nil
}

package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/screener/internal/contracts"
)

// GetSeries fetches count daily bars for a ticker, oldest first.
// Implements contracts.PriceProvider. Trading value falls back to
// close times volume since the chart endpoint does not report it.
func (c *Client) GetSeries(ctx context.Context, ticker string, count int) (contracts.PriceSeries, error) {
	to := time.Now()
	// Calendar days to cover count trading days, weekends and holidays
	// included.
	from := to.AddDate(0, 0, -(count*7/5 + 30))

	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartBaseURL, ticker,
		from.Format("20060102"), to.Format("20060102"),
	)

	body, err := c.httpClient.Get(ctx, fullURL, map[string]string{
		"Referer": c.baseURL + "/",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", ticker, err)
	}

	series, err := parseChartResponse(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse chart for %s: %w", ticker, err)
	}

	if len(series) > count {
		series = series[len(series)-count:]
	}

	c.log.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(series),
	}).Debug("fetched price series")

	return series, nil
}

// parseChartResponse handles the quasi-JSON chart payload: single
// quotes, a header row, and occasional junk rows. Falls back to regex
// extraction when the whole body does not unmarshal.
func parseChartResponse(body string) (contracts.PriceSeries, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawRows [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawRows); err == nil {
		return parseChartRows(rawRows)
	}

	return parseChartRegex(body)
}

func parseChartRows(rawRows [][]interface{}) (contracts.PriceSeries, error) {
	var series contracts.PriceSeries
	for i, row := range rawRows {
		if i == 0 || len(row) < 6 {
			continue // header row
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		date, err := parseChartDate(dateStr)
		if err != nil {
			continue
		}

		bar := contracts.PriceBar{
			Date:   date,
			Open:   toFloat(row[1]),
			High:   toFloat(row[2]),
			Low:    toFloat(row[3]),
			Close:  toFloat(row[4]),
			Volume: toFloat(row[5]),
		}
		bar.TradedValue = bar.Close * bar.Volume
		series = append(series, bar)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no price rows in response")
	}
	return series, nil
}

var chartRowRe = regexp.MustCompile(`\["(\d{8})",\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+),\s*(\d+)`)

func parseChartRegex(body string) (contracts.PriceSeries, error) {
	matches := chartRowRe.FindAllStringSubmatch(body, -1)

	var series contracts.PriceSeries
	for _, m := range matches {
		if len(m) < 7 {
			continue
		}
		date, err := parseChartDate(m[1])
		if err != nil {
			continue
		}

		open, _ := strconv.ParseFloat(m[2], 64)
		high, _ := strconv.ParseFloat(m[3], 64)
		low, _ := strconv.ParseFloat(m[4], 64)
		closePrice, _ := strconv.ParseFloat(m[5], 64)
		volume, _ := strconv.ParseFloat(m[6], 64)

		series = append(series, contracts.PriceBar{
			Date:        date,
			Open:        open,
			High:        high,
			Low:         low,
			Close:       closePrice,
			Volume:      volume,
			TradedValue: closePrice * volume,
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no price rows matched")
	}
	return series, nil
}

func parseChartDate(raw string) (time.Time, error) {
	raw = strings.Trim(raw, "\" ")
	if len(raw) == 8 {
		raw = raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
	}
	return time.Parse("2006-01-02", raw)
}

func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f
	default:
		return 0
	}
}

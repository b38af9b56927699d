package naver

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/screener/internal/contracts"
)

// Row labels of interest in the annual financials table.
const (
	rowRevenue     = "매출액"
	rowGrossProfit = "매출총이익"
	rowNetIncome   = "당기순이익"
	rowROE         = "ROE"
	rowDebtTotal   = "부채총계"
	rowEquityTotal = "자본총계"
	rowCapEx       = "CAPEX"
)

// GetFundamentals scrapes the annual financials table on the item
// page into a FundamentalRecord. Implements
// contracts.FundamentalProvider. A page without a usable table yields
// a record with IsValid=false, not an error.
func (c *Client) GetFundamentals(ctx context.Context, ticker, market string) (*contracts.FundamentalRecord, error) {
	params := url.Values{}
	params.Set("code", ticker)

	body, err := c.fetchPage(ctx, "/item/main.naver", params)
	if err != nil {
		return nil, fmt.Errorf("fetch financials for %s: %w", ticker, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse financials page for %s: %w", ticker, err)
	}

	record := &contracts.FundamentalRecord{
		Ticker:            ticker,
		Market:            market,
		ROEByYear:         map[int]float64{},
		GrossMarginByYear: map[int]float64{},
		CapExByYear:       map[int]float64{},
		NetIncomeByYear:   map[int]float64{},
	}

	record.Name = strings.TrimSpace(doc.Find(".wrap_company h2 a").First().Text())
	record.CurrentPrice = parseNumber(doc.Find(".no_today .blind").First().Text())

	table := findFinancialTable(doc)
	if table == nil {
		record.ErrMessage = "no annual financials table"
		return record, nil
	}

	years := parseYearHeader(table)
	if len(years) == 0 {
		record.ErrMessage = "no fiscal year columns"
		return record, nil
	}

	rows := parseFinancialRows(table, years)

	revenue := rows[rowRevenue]
	grossProfit := rows[rowGrossProfit]
	netIncome := rows[rowNetIncome]
	roe := rows[rowROE]
	capex := rows[rowCapEx]

	for y, v := range roe {
		record.ROEByYear[y] = v
	}
	for y, v := range netIncome {
		record.NetIncomeByYear[y] = v
	}
	for y, v := range capex {
		record.CapExByYear[y] = v
	}
	for y, gp := range grossProfit {
		if rev, ok := revenue[y]; ok && rev > 0 {
			record.GrossMarginByYear[y] = gp / rev * 100
		}
	}

	if debt, ok := latestValue(rows[rowDebtTotal]); ok {
		record.TotalDebt = debt
	}
	if equity, ok := latestValue(rows[rowEquityTotal]); ok {
		record.TotalEquity = equity
	}
	if income, ok := latestValue(netIncome); ok {
		record.NetIncome = income
	}

	record.IsValid = len(record.ROEByYear) > 0 || len(record.GrossMarginByYear) > 0 ||
		record.TotalEquity != 0 || len(record.CapExByYear) > 0
	if !record.IsValid {
		record.ErrMessage = "no parsable financial figures"
	}

	c.log.WithFields(map[string]interface{}{
		"ticker": ticker,
		"years":  len(years),
		"valid":  record.IsValid,
	}).Debug("fetched fundamentals")

	return record, nil
}

// findFinancialTable locates the annual key-figures table by its
// caption text.
func findFinancialTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		caption := strings.TrimSpace(s.Find("caption").First().Text())
		if strings.Contains(caption, "주요재무정보") || strings.Contains(caption, "재무") {
			table = s
			return false
		}
		return true
	})
	return table
}

// parseYearHeader extracts the fiscal year per column, in column order.
// Header cells look like "2023.12" or "2024.12(E)"; estimate columns
// are skipped by returning year 0 in their position.
func parseYearHeader(table *goquery.Selection) []int {
	var years []int
	table.Find("thead tr").Last().Find("th").Each(func(_ int, th *goquery.Selection) {
		text := strings.TrimSpace(th.Text())
		if strings.Contains(text, "(E)") {
			years = append(years, 0)
			return
		}
		if idx := strings.Index(text, "."); idx >= 4 {
			text = text[:idx]
		}
		y, err := strconv.Atoi(text)
		if err != nil || y < 1990 || y > 2100 {
			years = append(years, 0)
			return
		}
		years = append(years, y)
	})
	return years
}

// parseFinancialRows reads every body row into label -> year -> value.
// ROE labels carry suffixes like "ROE(지배주주)", so labels are matched
// by prefix.
func parseFinancialRows(table *goquery.Selection, years []int) map[string]map[int]float64 {
	known := []string{rowRevenue, rowGrossProfit, rowNetIncome, rowROE, rowDebtTotal, rowEquityTotal, rowCapEx}
	rows := make(map[string]map[int]float64)

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		label := strings.TrimSpace(tr.Find("th").First().Text())

		matched := ""
		for _, k := range known {
			if strings.HasPrefix(label, k) {
				matched = k
				break
			}
		}
		if matched == "" {
			return
		}
		if _, ok := rows[matched]; ok {
			return // keep the first matching row
		}

		byYear := make(map[int]float64)
		tr.Find("td").Each(func(col int, td *goquery.Selection) {
			if col >= len(years) || years[col] == 0 {
				return
			}
			text := strings.TrimSpace(td.Text())
			if text == "" || text == "-" {
				return
			}
			byYear[years[col]] = parseNumber(text)
		})
		rows[matched] = byYear
	})

	return rows
}

func latestValue(byYear map[int]float64) (float64, bool) {
	if len(byYear) == 0 {
		return 0, false
	}
	years := contracts.Years(byYear)
	return byYear[years[len(years)-1]], true
}

// parseNumber strips thousands separators and parses a float,
// tolerating negative values in parentheses.
func parseNumber(text string) float64 {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, ",", "")
	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = strings.Trim(text, "()")
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -v
	}
	return v
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs for the different data classes we store.
const (
	TTLPriceSeries  = 10 * time.Minute
	TTLFundamentals = 24 * time.Hour
	TTLScanResult   = 1 * time.Hour
)

// Cache provides JSON get/set over a Redis client with a key prefix.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a Cache with the given key prefix
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{client: client, prefix: prefix}
}

func (c *Cache) key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Get retrieves a value and unmarshals it into dest.
// Returns (false, nil) on cache miss.
func (c *Cache) Get(ctx context.Context, dest interface{}, parts ...string) (bool, error) {
	data, err := c.client.rdb.Get(ctx, c.key(parts...)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return true, nil
}

// Set marshals value as JSON and stores it with the given TTL
func (c *Cache) Set(ctx context.Context, value interface{}, ttl time.Duration, parts ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.rdb.Set(ctx, c.key(parts...), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a key
func (c *Cache) Delete(ctx context.Context, parts ...string) error {
	return c.client.rdb.Del(ctx, c.key(parts...)).Err()
}

// PriceSeriesKey builds the cache key parts for a ticker's daily chart
func PriceSeriesKey(ticker string, count int) []string {
	return []string{"prices", ticker, fmt.Sprintf("%d", count)}
}

// FundamentalsKey builds the cache key parts for a ticker's financials
func FundamentalsKey(ticker string) []string {
	return []string{"fundamentals", ticker}
}

// ScanKey builds the cache key parts for a ticker's scan result on a date
func ScanKey(market, ticker, date string) []string {
	return []string{"scan", market, ticker, date}
}

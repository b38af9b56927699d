package commands

import (
	"fmt"

	"github.com/wonny/screener/internal/external/naver"
	"github.com/wonny/screener/internal/screening"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/database"
	"github.com/wonny/screener/pkg/logger"
	"github.com/wonny/screener/pkg/redis"
)

// deps holds the shared wiring every command starts from.
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	rdb   *redis.Client
	naver *naver.Client
	scan  *screening.Scanner
	repo  *screening.Repository
}

// buildDeps loads config and wires the scanner stack. withDB controls
// whether a database connection is required.
func buildDeps(withDB bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	d := &deps{cfg: cfg, log: log}

	if withDB {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		d.db = db
		d.repo = screening.NewRepository(db, log)
	}

	var cache *redis.Cache
	if cfg.Redis.Enabled {
		rdb, err := redis.New(cfg, log)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, caching disabled")
		} else {
			d.rdb = rdb
			cache = redis.NewCache(rdb, "screener")
		}
	}

	d.naver = naver.NewClient(cfg, log)
	aggregator := screening.NewAggregator(log)
	d.scan = screening.NewScanner(aggregator, d.naver, d.naver, cache, log)

	return d, nil
}

// close releases connections held by the deps
func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
	if d.rdb != nil {
		_ = d.rdb.Close()
	}
}

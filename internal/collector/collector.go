// Package collector loads the official draw history from a local page file
// or the remote draw notice endpoint and normalizes it into draw records.
package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/wonny/ssq/internal/contracts"
	"github.com/wonny/ssq/pkg/config"
	"github.com/wonny/ssq/pkg/httputil"
	"github.com/wonny/ssq/pkg/logger"
	"github.com/wonny/ssq/pkg/redis"
)

// Source selects where draw pages come from
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// remotePageSize asks the endpoint for the whole history in one page
const remotePageSize = "99999999"

// ParseSource validates a source name
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceLocal, SourceRemote:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown collector source %q (valid: local, remote)", s)
	}
}

// Collector fetches and normalizes draw records
// ⭐ SSOT: 추첨 기록 수집은 여기서만
type Collector struct {
	source    Source
	file      string
	remoteURL string
	client    *httputil.Client
	cache     *redis.Cache
	cacheTTL  time.Duration
	logger    *logger.Logger
}

// New creates a collector from config. client is only used for the remote
// source; a nil cache disables caching.
func New(cfg config.CollectorConfig, client *httputil.Client, cache *redis.Cache, log *logger.Logger) (*Collector, error) {
	source, err := ParseSource(cfg.Source)
	if err != nil {
		return nil, err
	}
	if source == SourceRemote && client == nil {
		return nil, fmt.Errorf("remote collector requires an HTTP client")
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Collector{
		source:    source,
		file:      cfg.File,
		remoteURL: cfg.RemoteURL,
		client:    client,
		cache:     cache,
		cacheTTL:  cfg.CacheTTL,
		logger:    log.WithField("source", string(source)),
	}, nil
}

// Source returns the configured source
func (c *Collector) Source() Source {
	return c.source
}

// Collect returns the latest recent draws (0 = all) in chronological order,
// numbered 0..n-1 from the oldest. Cached records are served while valid.
func (c *Collector) Collect(ctx context.Context, recent int) ([]contracts.DrawRecord, error) {
	return c.collect(ctx, recent, true)
}

// Refresh is Collect without the cache read. The fetched records replace
// the cached ones.
func (c *Collector) Refresh(ctx context.Context, recent int) ([]contracts.DrawRecord, error) {
	return c.collect(ctx, recent, false)
}

func (c *Collector) collect(ctx context.Context, recent int, useCache bool) ([]contracts.DrawRecord, error) {
	if recent < 0 {
		return nil, fmt.Errorf("recent must be >= 0, got %d", recent)
	}

	key := redis.DrawPageKey(string(c.source), recent)
	if useCache {
		if records, ok := c.cached(ctx, key); ok {
			return records, nil
		}
	}

	page, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	records, err := normalize(page, recent)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize draw page: %w", err)
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.Set(ctx, key, records, c.cacheTTL); err != nil {
			c.logger.WithError(err).Warn("Failed to cache draw records")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"total":   page.Total,
		"fetched": len(page.Records),
		"kept":    len(records),
	}).Info("Draw records collected")

	return records, nil
}

func (c *Collector) cached(ctx context.Context, key string) ([]contracts.DrawRecord, bool) {
	if c.cache == nil {
		return nil, false
	}

	var records []contracts.DrawRecord
	found, err := c.cache.Get(ctx, key, &records)
	if err != nil {
		c.logger.WithError(err).Warn("Draw cache read failed")
		return nil, false
	}
	if !found {
		return nil, false
	}
	if err := contracts.ValidateHistory(records); err != nil {
		c.logger.WithError(err).Warn("Discarding invalid cached draw records")
		return nil, false
	}

	c.logger.WithField("records", len(records)).Debug("Draw records served from cache")
	return records, true
}

func (c *Collector) fetch(ctx context.Context) (*drawPage, error) {
	switch c.source {
	case SourceLocal:
		return readPageFile(c.file)
	case SourceRemote:
		return c.fetchRemote(ctx)
	default:
		return nil, fmt.Errorf("unknown collector source %q", c.source)
	}
}

func (c *Collector) fetchRemote(ctx context.Context) (*drawPage, error) {
	query := url.Values{
		"name":       {"ssq"},
		"pageNo":     {"1"},
		"pageSize":   {remotePageSize},
		"systemType": {"PC"},
	}

	var page drawPage
	if err := c.client.GetJSON(ctx, c.remoteURL, query, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch draw page: %w", err)
	}
	if page.State != 0 {
		return nil, fmt.Errorf("draw page rejected: state=%d message=%q", page.State, page.Message)
	}
	return &page, nil
}

func readPageFile(path string) (*drawPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open draw file: %w", err)
	}
	defer f.Close()

	var page drawPage
	if err := json.NewDecoder(f).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode draw file %s: %w", path, err)
	}
	return &page, nil
}

// normalize keeps the newest recent entries of a newest-first page (0 = all),
// orders them by date and assigns sequence indices from 0.
func normalize(page *drawPage, recent int) ([]contracts.DrawRecord, error) {
	entries := page.Records
	if recent > 0 && recent < len(entries) {
		entries = entries[:recent]
	}

	records := make([]contracts.DrawRecord, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		r, err := entries[i].toRecord(0)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	slices.SortStableFunc(records, func(a, b contracts.DrawRecord) int {
		return a.Date.Compare(b.Date)
	})
	for i := range records {
		records[i].Seq = i
	}

	if err := contracts.ValidateHistory(records); err != nil {
		return nil, err
	}
	return records, nil
}

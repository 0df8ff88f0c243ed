// Package csvsource reads provider catalog exports from CSV files or URLs.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/okian/upskill/internal/domain/catalog"
	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/pkg/logger"
	"github.com/okian/upskill/pkg/metrics"
)

const defaultHTTPTimeout = 30 * time.Second

// Sentinel errors.
var (
	ErrNoLocation = errors.New("csvsource: empty location")
	ErrNoHeader   = errors.New("csvsource: missing header row")
)

// Source names one catalog feed.
type Source struct {
	Location string
	Schema   catalog.Schema
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// Loader reads and normalizes catalog sources.
type Loader struct {
	client *http.Client
	log    logger.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: defaultHTTPTimeout},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAll ingests every source in order. A failing source is logged and
// contributes no courses; the remaining sources are still processed.
func (l *Loader) LoadAll(ctx context.Context, sources ...Source) []model.Course {
	var courses []model.Course
	for _, src := range sources {
		if strings.TrimSpace(src.Location) == "" {
			l.log.Warn(ctx, "catalog source not configured", logger.String("source", src.Schema.Source))
			continue
		}
		records, err := l.Load(ctx, src)
		if err != nil {
			metrics.RecordErrorByComponent("catalog", "source_unavailable")
			l.log.Error(ctx, "failed to load catalog source",
				logger.String("source", src.Schema.Source),
				logger.String("location", src.Location),
				logger.Error(err),
			)
			continue
		}
		got := catalog.Ingest(ctx, src.Schema, records, l.log)
		l.log.Info(ctx, "catalog source loaded",
			logger.String("source", src.Schema.Source),
			logger.Int("rows", len(records)),
			logger.Int("courses", len(got)),
		)
		courses = append(courses, got...)
	}
	return courses
}

// Load reads the raw records of one source.
func (l *Loader) Load(ctx context.Context, src Source) ([]catalog.Record, error) {
	rc, err := l.open(ctx, src.Location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return l.parse(ctx, src.Schema.Source, rc)
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, ErrNoLocation
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("csvsource: build request: %w", err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("csvsource: fetch %s: %w", location, err)
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("csvsource: fetch %s: unexpected status %d", location, resp.StatusCode)
		}
		return resp.Body, nil
	default:
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("csvsource: %w", err)
		}
		return f, nil
	}
}

// parse reads a header row and maps each following row onto normalized keys.
// Malformed rows are skipped.
func (l *Loader) parse(ctx context.Context, source string, r io.Reader) ([]catalog.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("csvsource: read header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = catalog.NormalizeKey(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []catalog.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.RecordIngestRowDropped(source, "malformed")
			l.log.Warn(ctx, "skipping malformed csv row", logger.String("source", source), logger.Int("line", line), logger.Error(err))
			continue
		}
		if len(row) != len(keys) {
			metrics.RecordIngestRowDropped(source, "field_count")
			l.log.Warn(ctx, "skipping csv row with wrong field count",
				logger.String("source", source), logger.Int("line", line),
				logger.Int("fields", len(row)), logger.Int("expected", len(keys)),
			)
			continue
		}
		rec := make(catalog.Record, len(keys))
		for i, k := range keys {
			if k != "" {
				rec[k] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

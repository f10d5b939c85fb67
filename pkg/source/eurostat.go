package source

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/statmap/pkg/cache"
	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/httputil"
	"github.com/matzehuels/statmap/pkg/observability"
)

// EurostatBaseURL is the JSON-stat endpoint of the Eurostat dissemination API.
const EurostatBaseURL = "https://ec.europa.eu/eurostat/api/dissemination/statistics/1.0/data/"

// Defaults of a Eurostat query.
const (
	DefaultDataset   = "demo_r_d3dens"
	DefaultPrecision = 2
)

// EurostatRequest selects one dataset slice. Without Time the latest period
// is requested.
type EurostatRequest struct {
	Dataset   string              `json:"dataset" toml:"dataset"`
	NUTSLevel int                 `json:"nuts_level" toml:"nuts_level"`
	Time      string              `json:"time,omitempty" toml:"time"`
	Precision int                 `json:"precision,omitempty" toml:"precision"`
	Filters   map[string][]string `json:"filters,omitempty" toml:"filters"`
	Lang      string              `json:"lang,omitempty" toml:"lang"`
}

// Validate checks the NUTS level and the dataset code.
func (r EurostatRequest) Validate() error {
	if r.NUTSLevel < 0 || r.NUTSLevel > 3 {
		return errors.New(errors.ErrCodeInvalidInput, "nuts level must be 0-3, got %d", r.NUTSLevel)
	}
	if strings.ContainsAny(r.Dataset, "/?# ") {
		return errors.New(errors.ErrCodeInvalidInput, "invalid dataset code %q", r.Dataset)
	}
	return nil
}

// GeoLevel returns the geoLevel filter for the NUTS level.
func (r EurostatRequest) GeoLevel() string {
	if r.NUTSLevel == 0 {
		return "country"
	}
	return "nuts" + strconv.Itoa(r.NUTSLevel)
}

// Params returns the query parameters. Caller filters are kept except where
// they collide with time, geo level or precision.
func (r EurostatRequest) Params() url.Values {
	q := url.Values{}
	for k, vs := range r.Filters {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if r.Time != "" {
		q.Set("time", r.Time)
		q.Del("lastTimePeriod")
	} else if q.Get("time") == "" {
		q.Set("lastTimePeriod", "1")
	}
	precision := r.Precision
	if precision == 0 {
		precision = DefaultPrecision
	}
	q.Set("precision", strconv.Itoa(precision))
	q.Set("geoLevel", r.GeoLevel())
	q.Set("filterNonGeo", "1")
	q.Set("format", "JSON")
	lang := r.Lang
	if lang == "" {
		lang = "EN"
	}
	q.Set("lang", lang)
	return q
}

// URL returns the request URL against base.
func (r EurostatRequest) URL(base string) string {
	ds := r.Dataset
	if ds == "" {
		ds = DefaultDataset
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(ds) + "?" + r.Params().Encode()
}

// cacheParams flattens the query for cache keys.
func (r EurostatRequest) cacheParams() map[string]string {
	q := r.Params()
	out := make(map[string]string, len(q))
	for k, vs := range q {
		vs = append([]string(nil), vs...)
		sort.Strings(vs)
		out[k] = strings.Join(vs, ",")
	}
	return out
}

// Fetcher retrieves Eurostat datasets over HTTP.
type Fetcher struct {
	client  *httputil.Client
	cache   cache.Cache
	keyer   cache.Keyer
	baseURL string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL points the fetcher at another JSON-stat endpoint.
func WithBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithDatasetCache stores decoded datasets in c, separately from the raw
// HTTP responses.
func WithDatasetCache(c cache.Cache) FetcherOption {
	return func(f *Fetcher) { f.cache = c }
}

// NewFetcher returns a fetcher using client. Nil uses a default client.
func NewFetcher(client *httputil.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = httputil.NewClient()
	}
	f := &Fetcher{
		client:  client,
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		baseURL: EurostatBaseURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and decodes one dataset.
func (f *Fetcher) Fetch(ctx context.Context, r EurostatRequest) (*Dataset, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if r.Dataset == "" {
		r.Dataset = DefaultDataset
	}

	key := f.keyer.DatasetKey("eurostat", r.Dataset, r.cacheParams())
	if raw, ok, err := f.cache.Get(ctx, key); err == nil && ok {
		if ds, err := DecodeJSONStat(raw); err == nil {
			observability.Cache().OnCacheHit(ctx, "dataset")
			ds.Source = "eurostat:" + r.Dataset
			return ds, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "dataset")

	body, err := f.client.Get(ctx, "eurostat", r.URL(f.baseURL))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "eurostat dataset %s", r.Dataset)
		}
		return nil, err
	}
	ds, err := DecodeJSONStat(body)
	if err != nil {
		return nil, err
	}
	ds.Source = "eurostat:" + r.Dataset
	if r.Time != "" {
		ds.Time = r.Time
	}

	if err := f.cache.Set(ctx, key, body, cache.DatasetTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, "dataset", len(body))
	}
	return ds, nil
}

package cache

import (
	"sort"
	"strings"
)

// Keyer builds cache keys for each entry type.
type Keyer interface {
	// HTTPKey identifies a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// DatasetKey identifies a decoded statistical dataset.
	DatasetKey(source, dataset string, params map[string]string) string

	// ResultKey identifies a classification result for a set of datasets.
	ResultKey(datasetHashes []string, opts ResultKeyOpts) string

	// ArtifactKey identifies a rendered legend.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts holds the options that change a classification result.
// Options is the canonical JSON of the map options.
type ResultKeyOpts struct {
	MapType string `json:"map_type"`
	Options string `json:"options"`
}

// ArtifactKeyOpts holds the options that change a rendered legend.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key builder.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) DatasetKey(source, dataset string, params map[string]string) string {
	return hashKey("dataset", source, dataset, sortedPairs(params))
}

func (DefaultKeyer) ResultKey(datasetHashes []string, opts ResultKeyOpts) string {
	return hashKey("result", datasetHashes, opts)
}

func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// sortedPairs flattens params into "k=v" strings in key order.
func sortedPairs(params map[string]string) []string {
	out := make([]string, 0, len(params))
	for k, v := range params {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// ScopedKeyer prefixes every key, separating tenants or API clients that
// share one backend.
//
//	shared := cache.NewDefaultKeyer()
//	perClient := cache.NewScopedKeyer(shared, "client:42:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) DatasetKey(source, dataset string, params map[string]string) string {
	return k.prefix + k.inner.DatasetKey(source, dataset, params)
}

func (k *ScopedKeyer) ResultKey(datasetHashes []string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(datasetHashes, opts)
}

func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}

// KeyType returns the entry type encoded in key ("dataset", "http", ...),
// ignoring any scope prefix. It labels cache hook events.
func KeyType(key string) string {
	for _, t := range []string{"http", "dataset", "result", "artifact"} {
		if strings.HasPrefix(key, t+":") || strings.Contains(key, ":"+t+":") {
			return t
		}
	}
	return "unknown"
}

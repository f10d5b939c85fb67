// Package source loads statistical datasets into [stat.Index] values.
//
// Three document formats are understood:
//
//   - JSON-stat 2.0, as served by the Eurostat dissemination API
//   - plain JSON objects keyed by region: {"AT": 102.3, "BE": {"value": 377, "status": "p"}}
//   - CSV tables with designated region and value columns
//
// [Loader] resolves a [Spec] to a [Dataset] from a local file, inline bytes
// or a remote Eurostat query. Values are coerced once at ingestion: strings
// that parse as numbers become numbers, ":" and empty cells become missing.
// Decoding never fails because of a single bad value, only because of a
// malformed document.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Format names a document format.
type Format string

const (
	FormatAuto     Format = ""
	FormatJSON     Format = "json"
	FormatJSONStat Format = "jsonstat"
	FormatCSV      Format = "csv"
)

// Dataset is one decoded statistical dataset.
type Dataset struct {
	Index  *stat.Index
	Label  string // dataset title, if the document carries one
	Time   string // time period of the values, if known
	Source string // where the data came from

	// Labels maps region identifiers to display names when the document
	// provides them.
	Labels map[string]string
}

// Spec describes where to load one dataset from. Exactly one of Path, Inline
// or Eurostat should be set.
type Spec struct {
	Path      string           `json:"path,omitempty" toml:"path"`
	Inline    json.RawMessage  `json:"data,omitempty" toml:"-"`
	Format    Format           `json:"format,omitempty" toml:"format"`
	GeoCol    string           `json:"geo_col,omitempty" toml:"geo_col"`
	ValueCol  string           `json:"value_col,omitempty" toml:"value_col"`
	StatusCol string           `json:"status_col,omitempty" toml:"status_col"`
	Eurostat  *EurostatRequest `json:"eurostat,omitempty" toml:"eurostat"`
}

// Validate checks that exactly one origin is set.
func (s Spec) Validate() error {
	n := 0
	if s.Path != "" {
		n++
	}
	if len(s.Inline) > 0 {
		n++
	}
	if s.Eurostat != nil {
		n++
	}
	switch {
	case n == 0:
		return errors.New(errors.ErrCodeInvalidInput, "dataset needs one of path, data or eurostat")
	case n > 1:
		return errors.New(errors.ErrCodeInvalidInput, "dataset sets more than one of path, data or eurostat")
	}
	if s.Eurostat != nil {
		return s.Eurostat.Validate()
	}
	switch s.Format {
	case FormatAuto, FormatJSON, FormatJSONStat, FormatCSV:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format %q", s.Format)
	}
}

// String describes the origin for logs.
func (s Spec) String() string {
	switch {
	case s.Eurostat != nil:
		return "eurostat:" + s.Eurostat.Dataset
	case s.Path != "":
		return s.Path
	case len(s.Inline) > 0:
		return "inline"
	default:
		return "empty"
	}
}

// Loader loads datasets described by a Spec.
type Loader struct {
	eurostat *Fetcher
}

// NewLoader returns a loader. f serves Eurostat specs; nil uses a fetcher
// without a cache.
func NewLoader(f *Fetcher) *Loader {
	if f == nil {
		f = NewFetcher(nil)
	}
	return &Loader{eurostat: f}
}

// Load resolves s to a dataset.
func (l *Loader) Load(ctx context.Context, s Spec) (*Dataset, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Eurostat != nil {
		return l.eurostat.Fetch(ctx, *s.Eurostat)
	}

	data := []byte(s.Inline)
	if s.Path != "" {
		var err error
		if data, err = os.ReadFile(s.Path); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeNotFound, err, "dataset %s", s.Path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", s.Path)
		}
	}

	ds, err := Decode(data, s.Format, s.Path, CSVOptions{GeoCol: s.GeoCol, ValueCol: s.ValueCol, StatusCol: s.StatusCol})
	if err != nil {
		return nil, err
	}
	ds.Source = s.String()
	return ds, nil
}

// Decode parses data in the given format. With FormatAuto the format is
// taken from the file extension of name, then sniffed from the content.
func Decode(data []byte, format Format, name string, csvOpts CSVOptions) (*Dataset, error) {
	if format == FormatAuto {
		format = Detect(name, data)
	}
	switch format {
	case FormatCSV:
		ix, err := DecodeCSV(bytes.NewReader(data), csvOpts)
		if err != nil {
			return nil, err
		}
		return &Dataset{Index: ix}, nil
	case FormatJSONStat:
		return DecodeJSONStat(data)
	case FormatJSON:
		ix, err := DecodeJSON(data)
		if err != nil {
			return nil, err
		}
		return &Dataset{Index: ix}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown dataset format %q", format)
	}
}

// Detect guesses the format of a document.
func Detect(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv":
		return FormatCSV
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return FormatCSV
	}
	if isJSONStat(trimmed) {
		return FormatJSONStat
	}
	return FormatJSON
}

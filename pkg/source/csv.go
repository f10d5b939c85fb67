package source

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Default CSV column names.
const (
	DefaultGeoCol   = "geo"
	DefaultValueCol = "value"
)

// CSVOptions selects the columns of a CSV table. Empty names use the
// defaults; StatusCol is optional.
type CSVOptions struct {
	GeoCol    string
	ValueCol  string
	StatusCol string
	Comma     rune
}

// DecodeCSV reads a headed CSV table into an index. Rows keep file order; a
// repeated region overwrites the earlier row. Rows with an empty region cell
// are skipped.
func DecodeCSV(r io.Reader, opts CSVOptions) (*stat.Index, error) {
	if opts.GeoCol == "" {
		opts.GeoCol = DefaultGeoCol
	}
	if opts.ValueCol == "" {
		opts.ValueCol = DefaultValueCol
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err == io.EOF {
		return stat.NewIndex(), nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read csv header")
	}
	geo, val, status := -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case opts.GeoCol:
			geo = i
		case opts.ValueCol:
			val = i
		case opts.StatusCol:
			if opts.StatusCol != "" {
				status = i
			}
		}
	}
	if geo < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv has no column %q", opts.GeoCol)
	}
	if val < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv has no column %q", opts.ValueCol)
	}

	ix := stat.NewIndex()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read csv")
		}
		id := strings.TrimSpace(cell(rec, geo))
		if id == "" {
			continue
		}
		ix.Set(id, stat.Stat{
			Value:  stat.ParseString(cell(rec, val)),
			Status: strings.TrimSpace(cell(rec, status)),
		})
	}
	return ix, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

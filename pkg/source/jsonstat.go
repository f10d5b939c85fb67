package source

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// Dimension identifiers used by Eurostat.
const (
	GeoDimension  = "geo"
	TimeDimension = "time"
)

type jsonStat struct {
	Class     string                 `json:"class"`
	Label     string                 `json:"label"`
	ID        []string               `json:"id"`
	Size      []int                  `json:"size"`
	Dimension map[string]jsDimension `json:"dimension"`
	Value     json.RawMessage        `json:"value"`
	Status    json.RawMessage        `json:"status"`
}

type jsDimension struct {
	Label    string `json:"label"`
	Category struct {
		Index json.RawMessage   `json:"index"`
		Label map[string]string `json:"label"`
	} `json:"category"`
}

// codes returns the category codes in position order.
func (d jsDimension) codes() ([]string, error) {
	idx := bytes.TrimSpace(d.Category.Index)
	if len(idx) == 0 {
		// a dimension with a single category may omit the index
		codes := make([]string, 0, len(d.Category.Label))
		for c := range d.Category.Label {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		return codes, nil
	}
	if idx[0] == '[' {
		var codes []string
		err := json.Unmarshal(idx, &codes)
		return codes, err
	}
	var pos map[string]int
	if err := json.Unmarshal(idx, &pos); err != nil {
		return nil, err
	}
	codes := make([]string, len(pos))
	for c, p := range pos {
		if p < 0 || p >= len(codes) {
			return nil, errors.New(errors.ErrCodeInvalidData, "category %s has position %d of %d", c, p, len(codes))
		}
		codes[p] = c
	}
	return codes, nil
}

func isJSONStat(data []byte) bool {
	var probe struct {
		Class     string                     `json:"class"`
		ID        []string                   `json:"id"`
		Dimension map[string]json.RawMessage `json:"dimension"`
	}
	if json.Unmarshal(data, &probe) != nil {
		return false
	}
	return probe.Class == "dataset" || (len(probe.ID) > 0 && probe.Dimension != nil)
}

// DecodeJSONStat reads a JSON-stat 2.0 dataset and indexes its values by the
// categories of the geo dimension. For every other dimension the first
// category is selected. The first time category becomes the dataset time.
func DecodeJSONStat(data []byte) (*Dataset, error) {
	var js jsonStat
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "decode json-stat")
	}
	if len(js.ID) != len(js.Size) {
		return nil, errors.New(errors.ErrCodeInvalidData, "json-stat id and size differ in length")
	}

	geoDim := -1
	for i, id := range js.ID {
		if id == GeoDimension {
			geoDim = i
		}
	}
	if geoDim < 0 {
		return nil, errors.New(errors.ErrCodeInvalidData, "json-stat dataset has no %q dimension", GeoDimension)
	}
	geo := js.Dimension[GeoDimension]
	geos, err := geo.codes()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "geo categories")
	}

	stride := 1
	for _, n := range js.Size[geoDim+1:] {
		stride *= n
	}

	values, err := flatValues(js.Value)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "json-stat values")
	}
	statuses, err := flatStatuses(js.Status)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "json-stat status")
	}

	ix := stat.NewIndex()
	for g, code := range geos {
		at := g * stride
		v, err := decodeValue(values[at])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "value for %s", code)
		}
		ix.Set(code, stat.Stat{Value: v, Status: statuses.at(at)})
	}

	ds := &Dataset{Index: ix, Label: js.Label, Labels: geo.Category.Label}
	if t, ok := js.Dimension[TimeDimension]; ok {
		if codes, err := t.codes(); err == nil && len(codes) > 0 {
			ds.Time = codes[0]
		}
	}
	return ds, nil
}

// flatValues reads the value member, either an array or an object keyed by
// flat position. Absent positions read as missing.
func flatValues(raw json.RawMessage) (map[int]json.RawMessage, error) {
	out := map[int]json.RawMessage{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if raw[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, err
		}
		for i, v := range arr {
			out[i] = v
		}
		return out, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for k, v := range obj {
		i, err := strconv.Atoi(k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// statusTable holds the status member, which JSON-stat allows as a single
// string, an array or an object keyed by flat position.
type statusTable struct {
	all string
	pos map[int]string
}

func (s statusTable) at(i int) string {
	if v, ok := s.pos[i]; ok {
		return v
	}
	return s.all
}

func flatStatuses(raw json.RawMessage) (statusTable, error) {
	t := statusTable{pos: map[int]string{}}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return t, nil
	}
	switch raw[0] {
	case '"':
		err := json.Unmarshal(raw, &t.all)
		return t, err
	case '[':
		var arr []*string
		if err := json.Unmarshal(raw, &arr); err != nil {
			return t, err
		}
		for i, s := range arr {
			if s != nil {
				t.pos[i] = *s
			}
		}
		return t, nil
	}
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err != nil {
		return t, err
	}
	for k, v := range obj {
		i, err := strconv.Atoi(k)
		if err != nil {
			return t, err
		}
		t.pos[i] = v
	}
	return t, nil
}

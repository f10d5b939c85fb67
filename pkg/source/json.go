package source

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/stat"
)

// DecodeJSON reads a region-keyed object. Each member is either a bare value
// or an object with "value" and optional "status". Regions are indexed in
// sorted order.
func DecodeJSON(data []byte) (*stat.Index, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "decode json dataset")
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ix := stat.NewIndex()
	for _, id := range ids {
		s, err := decodeStat(raw[id])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "region %s", id)
		}
		ix.Set(id, s)
	}
	return ix, nil
}

func decodeStat(msg json.RawMessage) (stat.Stat, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) > 0 && msg[0] == '{' {
		var pair struct {
			Value  json.RawMessage `json:"value"`
			Status string          `json:"status"`
		}
		if err := json.Unmarshal(msg, &pair); err != nil {
			return stat.Stat{}, err
		}
		v, err := decodeValue(pair.Value)
		return stat.Stat{Value: v, Status: pair.Status}, err
	}
	v, err := decodeValue(msg)
	return stat.Stat{Value: v}, err
}

func decodeValue(msg json.RawMessage) (stat.Value, error) {
	if len(msg) == 0 {
		return stat.Missing, nil
	}
	var v stat.Value
	err := v.UnmarshalJSON(msg)
	return v, err
}

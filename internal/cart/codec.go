package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

// Version is the envelope version written by this package.
const Version = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported cart version")
	ErrCorruptCart        = errors.New("corrupt cart")
)

type envelope struct {
	Version int    `json:"version"`
	Items   []Item `json:"items"`
}

func encode(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(envelope{Version: Version, Items: items})
}

// decode accepts the current envelope and the legacy bare array. migrated
// reports whether the blob should be rewritten in the current format.
func decode(raw []byte) (items []Item, migrated bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Item{}, false, nil
	}

	switch raw[0] {
	case '[':
		var legacy []Item
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptCart, err)
		}
		return sanitize(legacy), true, nil
	case '{':
		var head struct {
			Version *int `json:"version"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptCart, err)
		}
		if head.Version == nil || *head.Version < 1 {
			return nil, false, fmt.Errorf("%w: missing version", ErrCorruptCart)
		}
		if *head.Version > Version {
			return nil, false, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *head.Version)
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCorruptCart, err)
		}
		clean := sanitize(env.Items)
		return clean, changed(env.Items, clean), nil
	default:
		return nil, false, fmt.Errorf("%w: unexpected %q", ErrCorruptCart, raw[0])
	}
}

// sanitize fills a missing unit with kg, normalizes quantities, recomputes
// totals, drops non-positive or out-of-range rows and keeps one row per
// product id (the last one written wins, at the position of the first).
func sanitize(in []Item) []Item {
	out := make([]Item, 0, len(in))
	pos := map[uint]int{}
	for _, it := range in {
		if !inRange(it) {
			continue
		}
		it = it.normalized()
		if !it.Quantity.IsPositive() {
			continue
		}
		if i, ok := pos[it.ID]; ok {
			out[i] = it
			continue
		}
		pos[it.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// changed reports whether sanitizing altered anything a reader would see.
func changed(before, after []Item) bool {
	if len(before) != len(after) {
		return true
	}
	for i := range before {
		b, a := before[i], after[i]
		if b.ID != a.ID || b.Unit != a.Unit || !b.Quantity.Equal(a.Quantity) {
			return true
		}
		if !models.ScaleOK(b.Total) || !b.Total.Equal(a.Total) {
			return true
		}
	}
	return false
}

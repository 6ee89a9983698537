package adminapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeList accepts the list shapes the API has been seen to return and
// normalises them: a bare array, {items, total}, {data: [...]} and null.
// A missing total is the item count.
func DecodeList[T any](raw json.RawMessage) (List[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return List[T]{Items: []T{}}, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return List[T]{}, fmt.Errorf("decode list: %w", err)
		}
		return newList(items, -1), nil
	case '{':
		var wrapped struct {
			Items json.RawMessage `json:"items"`
			Data  json.RawMessage `json:"data"`
			Total *int64          `json:"total"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return List[T]{}, fmt.Errorf("decode list: %w", err)
		}
		inner := wrapped.Items
		if len(inner) == 0 {
			inner = wrapped.Data
		}
		list, err := DecodeList[T](inner)
		if err != nil {
			return List[T]{}, err
		}
		if wrapped.Total != nil {
			list.Total = *wrapped.Total
		}
		return list, nil
	}
	return List[T]{}, fmt.Errorf("decode list: unexpected %q", raw[:1])
}

func newList[T any](items []T, total int64) List[T] {
	if items == nil {
		items = []T{}
	}
	if total < 0 {
		total = int64(len(items))
	}
	return List[T]{Items: items, Total: total}
}

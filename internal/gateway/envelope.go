// internal/gateway/envelope.go
package gateway

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Page is one page of a list endpoint, normalized from whichever envelope
// the endpoint uses.
type Page[T any] struct {
	Items []T
	Page  int
	Limit int
	Total int
	Pages int
	// Counted is set when Total was reported by the server rather than
	// derived from the items received.
	Counted bool
}

// decodeList accepts a bare array, or an object carrying the items under one
// of keys (or "data", possibly nested one level) with optional pagination
// under "pagination" or "meta".
func decodeList[T any](body []byte, params ListParams, keys ...string) (Page[T], error) {
	var page Page[T]
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return page, fmt.Errorf("decode list: %w", err)
		}
	} else {
		var envelope map[string]jsoniter.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return page, fmt.Errorf("decode list envelope: %w", err)
		}
		raw, ok := findArray(envelope, append(keys, "data"))
		if !ok {
			if data, found := envelope["data"]; found && isObject(data) {
				var nested map[string]jsoniter.RawMessage
				if err := json.Unmarshal(data, &nested); err == nil {
					raw, ok = findArray(nested, append(keys, "items"))
				}
			}
		}
		if ok {
			if err := json.Unmarshal(raw, &page.Items); err != nil {
				return page, fmt.Errorf("decode list items: %w", err)
			}
		}
		for _, metaKey := range []string{"pagination", "meta"} {
			if meta, found := envelope[metaKey]; found && isObject(meta) {
				page.Page = firstInt(meta, "page", "currentPage")
				page.Limit = firstInt(meta, "limit", "perPage")
				page.Total = firstInt(meta, "total", "totalItems")
				page.Counted = hasNumber(meta, "total", "totalItems")
				page.Pages = firstInt(meta, "pages", "totalPages")
				break
			}
		}
	}

	if page.Items == nil {
		page.Items = []T{}
	}
	synthesizePagination(&page, params)
	return page, nil
}

// decodeItem accepts the bare object or the object wrapped under one of keys
// or "data".
func decodeItem[T any](body []byte, keys ...string) (T, error) {
	var item T
	trimmed := bytes.TrimSpace(body)
	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		for _, key := range append(keys, "data") {
			if raw, ok := envelope[key]; ok && isObject(raw) {
				if err := json.Unmarshal(raw, &item); err != nil {
					return item, fmt.Errorf("decode %s: %w", key, err)
				}
				return item, nil
			}
		}
	}
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return item, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

func synthesizePagination[T any](page *Page[T], params ListParams) {
	if page.Limit <= 0 {
		page.Limit = params.Limit
	}
	if page.Limit <= 0 {
		page.Limit = len(page.Items)
	}
	if page.Total <= 0 && len(page.Items) > 0 {
		page.Total = len(page.Items)
		if params.Page > 1 && page.Limit > 0 {
			page.Total += (params.Page - 1) * page.Limit
		}
	}
	if page.Page <= 0 {
		page.Page = params.Page
	}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.Pages <= 0 && page.Limit > 0 {
		page.Pages = (page.Total + page.Limit - 1) / page.Limit
	}
	if page.Pages < 1 {
		page.Pages = 1
	}
}

func findArray(envelope map[string]jsoniter.RawMessage, keys []string) (jsoniter.RawMessage, bool) {
	for _, key := range keys {
		if raw, ok := envelope[key]; ok && jsoniter.Get(raw).ValueType() == jsoniter.ArrayValue {
			return raw, true
		}
	}
	return nil, false
}

func isObject(raw []byte) bool {
	return jsoniter.Get(raw).ValueType() == jsoniter.ObjectValue
}

func hasNumber(raw []byte, keys ...string) bool {
	for _, key := range keys {
		switch jsoniter.Get(raw, key).ValueType() {
		case jsoniter.NumberValue, jsoniter.StringValue:
			return true
		}
	}
	return false
}

func firstInt(raw []byte, keys ...string) int {
	for _, key := range keys {
		value := jsoniter.Get(raw, key)
		switch value.ValueType() {
		case jsoniter.NumberValue, jsoniter.StringValue:
			if n := value.ToInt(); n > 0 {
				return n
			}
		}
	}
	return 0
}

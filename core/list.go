package core

import (
	"bytes"
	"encoding/json"
)

// Page is the paginated envelope the API returns for list endpoints.
type Page struct {
	Count    int               `json:"count"`
	Next     string            `json:"next,omitempty"`
	Previous string            `json:"previous,omitempty"`
	Results  []json.RawMessage `json:"results"`
}

type rawPage struct {
	Count    *int              `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
}

// AsPage normalizes a list response. A bare array becomes a page whose
// count is its length; an object without results becomes an empty page.
func AsPage(data json.RawMessage) (Page, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Page{Results: []json.RawMessage{}}, nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page{}, decodeError(err, "core: decode list response failed")
		}
		if items == nil {
			items = []json.RawMessage{}
		}
		return Page{Count: len(items), Results: items}, nil
	case '{':
		var raw rawPage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Page{}, decodeError(err, "core: decode page response failed")
		}
		page := Page{Results: raw.Results}
		if page.Results == nil {
			page.Results = []json.RawMessage{}
		}
		if raw.Count != nil {
			page.Count = *raw.Count
		} else {
			page.Count = len(page.Results)
		}
		if raw.Next != nil {
			page.Next = *raw.Next
		}
		if raw.Previous != nil {
			page.Previous = *raw.Previous
		}
		return page, nil
	default:
		return Page{}, decodeError(nil, "core: list response is neither an array nor an object")
	}
}

// AsList returns the items of a list response, whichever shape it has.
func AsList(data json.RawMessage) ([]json.RawMessage, error) {
	page, err := AsPage(data)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func Decode[T any](data json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, decodeError(err, "core: decode resource failed")
	}
	return out, nil
}

func DecodeList[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		decoded, err := Decode[T](item)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

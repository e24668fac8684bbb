package unsplash

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var jsonNull = []byte("null")

// requireKeys fails when data is not an object or when any of keys is absent
// or null. encoding/json leaves such fields at their zero value, which would
// hide a record that does not match the expected shape.
func requireKeys(data []byte, what string, keys []string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if raw == nil {
		return fmt.Errorf("%s: expected an object, got null", what)
	}
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			return fmt.Errorf("%s: missing required field %q", what, key)
		}
		if bytes.Equal(bytes.TrimSpace(v), jsonNull) {
			return fmt.Errorf("%s: required field %q is null", what, key)
		}
	}
	return nil
}

// DecodeCollectionPage parses one collection page body
func DecodeCollectionPage(body []byte) (CollectionPage, error) {
	var page CollectionPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	if page == nil {
		// a literal null body is not a page
		return nil, fmt.Errorf("collection page: expected an array, got null")
	}
	return page, nil
}

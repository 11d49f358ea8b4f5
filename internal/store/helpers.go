package store

import (
	"encoding/json"

	"github.com/jward/loupe"
)

// marshalItems converts import items to JSON text for storage.
func marshalItems(items []loupe.ImportItem) string {
	if len(items) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(items)
	return string(b)
}

// unmarshalItems converts JSON text back to import items.
func unmarshalItems(s string) []loupe.ImportItem {
	if s == "" || s == "null" || s == "[]" {
		return nil
	}
	var items []loupe.ImportItem
	_ = json.Unmarshal([]byte(s), &items)
	return items
}

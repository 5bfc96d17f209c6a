package builder

import (
	"sort"

	"github.com/goliatone/go-formschema/pkg/formschema"
)

// sortedChildKeys orders nested property keys for display: explicit order
// annotations first (ascending), then the rest alphabetically.
func sortedChildKeys(props map[string]formschema.Property) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi := props[keys[i]].Order
		oj := props[keys[j]].Order
		switch {
		case oi != nil && oj != nil && *oi != *oj:
			return *oi < *oj
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

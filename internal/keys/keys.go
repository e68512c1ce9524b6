package keys

import (
	"strings"
)

// Normalize produces a canonical key for an ability or status effect name.
// Behavior: trims, lower-cases and replaces spaces with underscores, so
// config entries like "Shadow Bolt" and "shadow_bolt" resolve identically.
func Normalize(name string) string {
	s := strings.TrimSpace(name)
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}

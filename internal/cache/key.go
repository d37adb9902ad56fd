package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/vyrodovalexey/avapibridge/internal/message"
)

// KeyForRequest builds a stable cache key from a bridged request. The
// key folds in the method, the full URL, and the values of any vary
// headers, sorted for consistent ordering.
func KeyForRequest(req *message.Request, varyHeaders []string) string {
	parts := []string{req.Method(), req.URL()}

	if len(varyHeaders) > 0 {
		names := make([]string, 0, len(varyHeaders))
		names = append(names, varyHeaders...)
		sort.Strings(names)

		var headerParts []string
		for _, name := range names {
			if v, ok := req.Headers().Lookup(name); ok {
				headerParts = append(headerParts, name+"="+v)
			}
		}
		if len(headerParts) > 0 {
			parts = append(parts, "h:"+strings.Join(headerParts, "&"))
		}
	}

	return SanitizeKey(strings.Join(parts, ":"))
}

// HashKey hashes a key to a fixed length.
func HashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// SanitizeKey removes or replaces characters that might cause issues
// in cache keys.
func SanitizeKey(key string) string {
	replacer := strings.NewReplacer(
		" ", "_",
		"\n", "",
		"\r", "",
		"\t", "",
	)
	return replacer.Replace(key)
}

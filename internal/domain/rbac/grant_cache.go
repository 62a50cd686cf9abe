package rbac

import (
	"sort"
	"strings"
)

// GrantCache is the JSON blob stored on a role. Keys that look like
// permission codes (upper case) mirror the role's active grants; lower case
// keys such as "full_access" are descriptive markers and are preserved.
type GrantCache map[string]interface{}

// IsMarkerKey reports whether key is a descriptive marker rather than a code.
func IsMarkerKey(key string) bool {
	return key != strings.ToUpper(key)
}

// Rebuild returns a cache holding the markers of c and exactly codes.
func (c GrantCache) Rebuild(codes []string) GrantCache {
	next := make(GrantCache, len(codes)+len(c))
	for k, v := range c {
		if IsMarkerKey(k) {
			next[k] = v
		}
	}
	for _, code := range codes {
		next[code] = true
	}
	return next
}

// Codes lists the permission codes mirrored in the cache, sorted.
func (c GrantCache) Codes() []string {
	codes := make([]string, 0, len(c))
	for k, v := range c {
		if granted, ok := v.(bool); ok && granted && !IsMarkerKey(k) {
			codes = append(codes, k)
		}
	}
	sort.Strings(codes)
	return codes
}

package fetch

import (
	"fmt"
	"regexp"
)

// FilterObjects keeps the objects whose key matches include (when given)
// and then drops those matching exclude (when given). Patterns use search
// semantics: they match anywhere in the key, not the full string. Empty
// patterns mean identity. A pattern that does not compile is a
// malformed-input error, fatal to the call.
func FilterObjects(objects []ObjectInfo, include, exclude string) ([]ObjectInfo, error) {
	if include == "" && exclude == "" {
		return objects, nil
	}

	var err error
	var includeRe, excludeRe *regexp.Regexp
	if include != "" {
		if includeRe, err = regexp.Compile(include); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", include, err)
		}
	}
	if exclude != "" {
		if excludeRe, err = regexp.Compile(exclude); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", exclude, err)
		}
	}

	filtered := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if includeRe != nil && !includeRe.MatchString(obj.Key) {
			continue
		}
		if excludeRe != nil && excludeRe.MatchString(obj.Key) {
			continue
		}
		filtered = append(filtered, obj)
	}
	return filtered, nil
}

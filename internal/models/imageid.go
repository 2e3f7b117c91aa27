package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidID is wrapped by every composite id parse failure.
var ErrInvalidID = errors.New("invalid image id")

// ComposeID builds the composite identifier "provider:nativeId" under
// which a result is addressable across providers.
func ComposeID(p Provider, nativeID string) string {
	return string(p) + ":" + nativeID
}

// ParseID splits a composite id into provider and native id. The
// canonical separator is ":"; ids of the form "provider_nativeId",
// which earlier versions of the server emitted, are still accepted when
// no colon is present. Native ids may themselves contain the separator
// (Unsplash ids can contain underscores), so only the first occurrence
// splits.
func ParseID(id string) (Provider, string, error) {
	sep := ":"
	if !strings.Contains(id, sep) {
		sep = "_"
	}
	name, nativeID, found := strings.Cut(id, sep)
	if !found || nativeID == "" {
		return "", "", fmt.Errorf("%w: %q (want provider:nativeId)", ErrInvalidID, id)
	}
	p, err := ParseProvider(name)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %v", ErrInvalidID, id, err)
	}
	return p, nativeID, nil
}

// Package pkginfo parses the .PKGINFO metadata text embedded in package
// archives.
package pkginfo

import (
	"bufio"
	"strings"

	"github.com/glorpus-work/repod/pkg/errors"
)

// RawInfo maps a metadata field name to its declared values in archive
// order. Single-valued fields carry exactly one entry.
type RawInfo map[string][]string

// Parse reads .PKGINFO text into a RawInfo. Lines are `key = value`;
// lines starting with `#` are comments; repeated keys accumulate.
func Parse(text string) RawInfo {
	info := make(RawInfo)
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			continue
		}
		info[key] = append(info[key], value)
	}
	return info
}

// First returns the first declared value for key. It fails with
// ErrMissingField when the key is absent.
func (info RawInfo) First(key string) (string, error) {
	values := info[key]
	if len(values) == 0 {
		return "", errors.Wrapf(errors.ErrMissingField, "field %q", key)
	}
	return values[0], nil
}

// FirstOr returns the first declared value for key, or fallback when the
// key is absent.
func (info RawInfo) FirstOr(key, fallback string) string {
	values := info[key]
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

// Values returns all declared values for key, or nil when absent. The
// returned slice is nil for an empty entry so optional record fields stay
// omitted.
func (info RawInfo) Values(key string) []string {
	values := info[key]
	if len(values) == 0 {
		return nil
	}
	return values
}

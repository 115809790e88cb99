// Package normalize canonicalizes user-supplied strings before they are
// validated, stored, or used in a query. Stored values are always the
// normalized form, so lookups must normalize their input the same way.
package normalize

import "strings"

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email is the canonical owner key: trimmed and lowercased.
func Email(s string) string { return lowerTrim(s) }

// Name trims a display name. Case is preserved.
func Name(s string) string { return strings.TrimSpace(s) }

// Platform lowercases an ad platform name ("Meta" → "meta").
func Platform(s string) string { return lowerTrim(s) }

// Status lowercases a campaign or ad-account status.
func Status(s string) string { return lowerTrim(s) }

// Enum lowercases any other enumerated value (objective, budget type).
func Enum(s string) string { return lowerTrim(s) }

// Currency uppercases an ISO 4217 code (" usd" → "USD").
func Currency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string { return strings.TrimSpace(s) }

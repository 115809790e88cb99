// Package textsanitize strips markup from user-supplied display names
// (campaign, account and user names) before they are stored. It uses
// bluemonday's strict policy, which removes every tag and keeps the text
// content. Free-form campaign objects are stored as sent and never pass
// through here.
package textsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// decoder reverses only the escapes that cannot form markup. &lt; and
// &gt; stay encoded so entity-encoded tags never come back as live ones.
var decoder = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`, "&quot;", `"`)

// Plain removes all HTML from s and trims surrounding whitespace.
// "Tom & Jerry" round-trips unchanged; encoded angle brackets stay encoded.
func Plain(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<>&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(decoder.Replace(getPolicy().Sanitize(s)))
}

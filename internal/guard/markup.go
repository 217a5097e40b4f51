package guard

import "strings"

// activeContentMarkers flag markup that could execute in the caller's
// browser: script and frame open tags, the javascript: URI scheme, and
// inline event handler assignments.
var activeContentMarkers = []string{"<script", "<iframe", "javascript:", "onerror=", "onload="}

// SanitizeMarkup returns the markup unchanged when it carries none of the
// active-content markers, and the empty string otherwise. The policy is
// all-or-nothing: partially stripping adversarial markup without a real
// parser is unsafe, so tainted markup is discarded whole.
func SanitizeMarkup(markup string) string {
	lower := strings.ToLower(markup)
	for _, marker := range activeContentMarkers {
		if strings.Contains(lower, marker) {
			return ""
		}
	}
	return markup
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives category slugs from display names.
package slug

import (
	"regexp"
	"strings"
)

// whitespaceRun matches one or more consecutive whitespace characters.
var whitespaceRun = regexp.MustCompile(`\s+`)

// Generate lowercases s and replaces every whitespace run with a single
// hyphen. Punctuation is kept as-is.
// Example: "Web  Design" → "web-design"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	return whitespaceRun.ReplaceAllString(result, "-")
}

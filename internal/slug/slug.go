// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug normalizes arbitrary strings into identifiers that are
// safe to use in URLs and stored asset filenames.
package slug

import "strings"

// maxLen keeps generated names short enough for object-store keys.
const maxLen = 48

// Generate lowercases s and reduces it to ASCII letters, digits and
// single hyphens. Runs of other characters collapse into one hyphen.
// The result is capped at 48 characters and is never empty; input with
// no usable characters yields "file".
func Generate(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if b.Len() >= maxLen {
			break
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "file"
	}
	return out
}

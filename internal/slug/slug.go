// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation and the uniqueness
// allocator used when taxonomy entries are created or renamed.
package slug

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RandomLen is the length of the slug substituted for titles that fold to
// nothing.
const RandomLen = 6

const randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generate folds s into a lowercase URL token. ASCII letters are lowercased,
// digits pass through, runs of separators collapse to a single dash and
// accented latin letters are transliterated. Everything else is dropped.
// At most maxLen input characters are scanned; maxLen <= 0 means no limit.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	prevDash := false

	i := 0
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			prevDash = false
		case isSeparator(r):
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		case r >= utf8.RuneSelf:
			if t := transliterate(r); t != "" {
				b.WriteString(t)
				prevDash = false
			}
		}
		i++
		if maxLen > 0 && i == maxLen {
			break
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', ',', '.', '/', '\\', '-', '_', '=':
		return true
	}
	return false
}

// transliterate maps an accented latin rune to its ASCII spelling, or "" if
// the rune has no mapping.
func transliterate(r rune) string {
	switch strings.ToLower(string(r)) {
	case "à", "å", "á", "â", "ä", "ã", "ą", "ă":
		return "a"
	case "è", "é", "ê", "ë", "ę":
		return "e"
	case "ì", "í", "î", "ï", "ı":
		return "i"
	case "ò", "ó", "ô", "õ", "ö", "ø", "ő", "ð":
		return "o"
	case "ù", "ú", "û", "ü", "ŭ", "ů":
		return "u"
	case "ç", "ć", "č", "ĉ":
		return "c"
	case "ż", "ź", "ž":
		return "z"
	case "ś", "ş", "š", "ŝ", "ș":
		return "s"
	case "ñ", "ń":
		return "n"
	case "ý", "ÿ":
		return "y"
	case "ğ", "ĝ":
		return "g"
	case "ř":
		return "r"
	case "ł":
		return "l"
	case "đ":
		return "d"
	case "ț":
		return "t"
	case "ß":
		return "ss"
	case "þ":
		return "th"
	case "ĥ":
		return "h"
	case "ĵ":
		return "j"
	}
	return ""
}

// Random returns a random lowercase alphanumeric string of length n.
func Random(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomAlphabet[rand.IntN(len(randomAlphabet))]
	}
	return string(b)
}

// Uniquify returns s, or s with a numeric suffix, such that the result is not
// in existing. A candidate already ending in "-N" has N incremented rather
// than a second suffix appended: with {"go","go-2","go-3"} taken, "go"
// becomes "go-4".
func Uniquify(s string, existing map[string]struct{}) string {
	n := 2
	for {
		if _, taken := existing[s]; !taken {
			return s
		}
		suffix := "-" + strconv.Itoa(n)
		if strings.HasSuffix(s, suffix) {
			n++
			s = strings.TrimSuffix(s, suffix) + "-" + strconv.Itoa(n)
		} else {
			s += suffix
		}
	}
}

// Allocate produces a unique taxonomy slug for title. '#' reads as 's' so
// that "C#" and "F#" stay distinguishable from "C" and "F". A title that folds
// to nothing gets a random slug.
func Allocate(title string, maxLen int, existing []string) string {
	s := Generate(strings.ReplaceAll(title, "#", "s"), maxLen)
	if s == "" {
		s = Random(RandomLen)
	}
	return Uniquify(s, Set(existing))
}

// Set builds the lookup set Uniquify expects.
func Set(slugs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		set[s] = struct{}{}
	}
	return set
}

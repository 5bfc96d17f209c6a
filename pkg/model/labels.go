package model

import (
	"regexp"
	"strings"
)

var wordSeparators = regexp.MustCompile(`[_\-\s]+`)

// HumanizeKey converts a field key into a display label: underscores, dashes
// and camelCase boundaries become word breaks and each word is title-cased.
// Renderers fall back to this when a field carries no explicit label.
func HumanizeKey(key string) string {
	if key == "" {
		return ""
	}
	var words []string
	for _, chunk := range wordSeparators.Split(key, -1) {
		if chunk == "" {
			continue
		}
		for _, word := range splitCamelWords(chunk) {
			words = append(words, titleWord(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamelWords(input string) []string {
	var words []string
	start := 0
	runes := []rune(input)
	for idx := 1; idx < len(runes); idx++ {
		if camelBoundary(runes, idx) {
			words = append(words, string(runes[start:idx]))
			start = idx
		}
	}
	return append(words, string(runes[start:]))
}

// camelBoundary reports whether a new word starts at idx. An acronym run ends
// one rune before its last upper-case letter when a lower-case letter
// follows, so "APIKey" splits as "API", "Key".
func camelBoundary(runes []rune, idx int) bool {
	prev, cur := runes[idx-1], runes[idx]
	switch {
	case isLower(prev) && isUpper(cur):
		return true
	case isUpper(prev) && isUpper(cur) && idx+1 < len(runes) && isLower(runes[idx+1]):
		return true
	case isLetter(prev) && isDigit(cur):
		return true
	case isDigit(prev) && isLetter(cur):
		return true
	default:
		return false
	}
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleWord(word string) string {
	if word == "" {
		return ""
	}
	// Acronyms stay upper-case.
	if len(word) > 1 && word == strings.ToUpper(word) && strings.ContainsAny(word, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return word
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

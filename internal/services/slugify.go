package services

import "strings"

// Slugify normalises a free-text location into a lowercase, hyphen-joined tag.
// It splits on single spaces and trims each token, so Slugify(Slugify(x)) == Slugify(x).
func Slugify(text string) string {
	tokens := strings.Split(strings.ToLower(text), " ")
	for i, t := range tokens {
		tokens[i] = strings.TrimSpace(t)
	}
	return strings.Join(tokens, "-")
}

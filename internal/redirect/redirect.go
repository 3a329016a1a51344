// Package redirect resolves a weighted variant list to one concrete
// artifact URL. The same logic runs in two places: the server-side reader
// entry point and the client script that rewrites variant links in place,
// both consuming the data-variants attribute baked into rendered pages.
package redirect

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"dendrite/internal/selector"
)

// Variant is one weighted redirect target, e.g. {Slug: "12b", Weight: 0.8}.
type Variant struct {
	Slug   string  `json:"slug"`
	Weight float64 `json:"w"`
}

// ParseVariants decodes a variant list in either wire form: the compact
// attribute encoding "12a:1,12b:0.8" or a JSON array
// [{"slug":"12a","w":1}]. Whitespace around entries is tolerated.
func ParseVariants(raw string) ([]Variant, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty variant list")
	}

	if strings.HasPrefix(raw, "[") {
		var variants []Variant
		if err := json.Unmarshal([]byte(raw), &variants); err != nil {
			return nil, fmt.Errorf("parse variant list: %w", err)
		}
		if len(variants) == 0 {
			return nil, fmt.Errorf("empty variant list")
		}
		return variants, nil
	}

	parts := strings.Split(raw, ",")
	variants := make([]Variant, 0, len(parts))
	for _, part := range parts {
		slug, weight, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("parse variant entry %q: missing weight", part)
		}
		w, err := strconv.ParseFloat(weight, 64)
		if err != nil {
			return nil, fmt.Errorf("parse variant entry %q: %w", part, err)
		}
		variants = append(variants, Variant{Slug: slug, Weight: w})
	}
	return variants, nil
}

// Choose picks one slug by weighted draw. Returns false when no variant has
// positive finite weight.
func Choose(variants []Variant, draw float64) (string, bool) {
	pairs := make([]selector.Pair, len(variants))
	for i, v := range variants {
		pairs[i] = selector.Pair{Label: v.Slug, Weight: v.Weight}
	}
	return selector.Select(pairs, draw)
}

// RewriteHref swaps the last path segment of href for the chosen variant's
// artifact name, preserving the directory part: "/p/12a.html" with chosen
// "12b" becomes "/p/12b.html".
func RewriteHref(href, chosenSlug string) string {
	idx := strings.LastIndex(href, "/")
	return href[:idx+1] + chosenSlug + ".html"
}

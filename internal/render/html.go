package render

import (
	"fmt"
	"strconv"
	"strings"
)

// VariantRef is the name and weight of one visible variant, used for both
// the alternatives listing and the data-variants redirect attribute.
type VariantRef struct {
	Name    string
	Content string
	Weight  float64
}

// OptionView is the render-ready projection of one outgoing option.
// TargetPageNumber is nil while the option is unresolved; TargetVariants
// lists the visible variants of the target page when it has any.
type OptionView struct {
	Content          string
	Position         int
	TargetPageNumber *int
	TargetVariants   []VariantRef
}

// PageView is everything BuildPage needs. Assembling it involves the store;
// rendering it does not.
type PageView struct {
	StoryTitle  string
	PageNumber  int
	VariantName string
	Content     string
	Author      string
	Options     []OptionView
}

// BuildPage renders the primary HTML document for one visible variant.
// Deterministic: the same view renders to the same bytes.
func (s *Site) BuildPage(view PageView) string {
	var items strings.Builder
	for _, opt := range view.Options {
		slug := fmt.Sprintf("%d-%s-%d", view.PageNumber, view.VariantName, opt.Position)
		href := s.NewPagePath + "?option=" + slug
		if opt.TargetPageNumber != nil {
			suffix := ""
			if len(opt.TargetVariants) > 0 {
				suffix = opt.TargetVariants[0].Name
			}
			href = fmt.Sprintf("/p/%d%s.html", *opt.TargetPageNumber, suffix)
		}

		attrs := []string{
			`class="variant-link"`,
			fmt.Sprintf(`data-link-id=%q`, slug),
			fmt.Sprintf(`href=%q`, href),
		}
		if opt.TargetPageNumber != nil && len(opt.TargetVariants) > 0 {
			attrs = append(attrs, fmt.Sprintf(`data-variants="%s"`,
				escapeHTML(variantsAttr(*opt.TargetPageNumber, opt.TargetVariants))))
		}

		items.WriteString(fmt.Sprintf("<li><a %s>%s</a></li>",
			strings.Join(attrs, " "), escapeHTML(opt.Content)))
	}

	title := ""
	if view.StoryTitle != "" {
		title = fmt.Sprintf("<h1>%s</h1>", escapeHTML(view.StoryTitle))
	}
	author := ""
	if view.Author != "" {
		author = fmt.Sprintf("<p>By %s</p>", escapeHTML(view.Author))
	}

	variantSlug := fmt.Sprintf("%d%s", view.PageNumber, view.VariantName)
	report := `<p><button id="reportBtn" type="button">Report</button></p>` +
		`<script>document.getElementById('reportBtn').onclick=async()=>{try{await fetch('` +
		s.ReportEndpoint +
		`',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify({variant:'` +
		variantSlug +
		`'})});alert('Thanks for your report.');}catch(e){alert('Sorry, something went wrong.');}};</script>`

	return `<!doctype html>` +
		`<html lang="en"><head><meta charset="UTF-8" />` +
		`<meta name="viewport" content="width=device-width, initial-scale=1" />` +
		`<title>` + s.Name + `</title>` +
		`<link rel="stylesheet" href="` + s.StylesheetURL + `" />` +
		`<link rel="stylesheet" href="` + s.LocalStyles + `" />` +
		`</head><body><div class="page">` +
		`<h1><img src="` + s.LogoPath + `" alt="` + s.Name + ` logo" style="height:1em;vertical-align:middle;margin-right:0.5em;" />` +
		`<a href="` + s.HomeHref + `">` + s.Name + `</a></h1>` +
		title + `<p>` + escapeHTML(view.Content) + `</p>` +
		`<ol>` + items.String() + `</ol>` + author +
		fmt.Sprintf(`<p><a href="./%d-alts.html">Other variants</a></p>`, view.PageNumber) +
		report +
		`</div></body></html>`
}

// BuildAlternatives renders the fragment listing every visible variant of a
// page, each previewed by its first five words.
func (s *Site) BuildAlternatives(pageNumber int, variants []VariantRef) string {
	var items strings.Builder
	for _, v := range variants {
		preview := firstWords(v.Content, 5)
		items.WriteString(fmt.Sprintf(`<li><a href="/p/%d%s.html">%s</a></li>`,
			pageNumber, v.Name, escapeHTML(preview)))
	}

	return `<!doctype html>` +
		`<html lang="en"><head><meta charset="UTF-8" />` +
		`<meta name="viewport" content="width=device-width, initial-scale=1" />` +
		`<title>` + s.Name + `</title>` +
		`<link rel="stylesheet" href="` + s.StylesheetURL + `" />` +
		`<link rel="stylesheet" href="` + s.LocalStyles + `" />` +
		`</head><body><main><ol>` + items.String() + `</ol></main></body></html>`
}

// VariantArtifactPath is the object-store key of a rendered variant,
// derived deterministically from page number and variant name.
func VariantArtifactPath(pageNumber int, name string) string {
	return fmt.Sprintf("p/%d%s.html", pageNumber, name)
}

// AlternativesArtifactPath is the object-store key of a page's
// alternatives fragment.
func AlternativesArtifactPath(pageNumber int) string {
	return fmt.Sprintf("p/%d-alts.html", pageNumber)
}

// variantsAttr encodes the weighted redirect list consumed by the client:
// "12a:1,12b:0.8".
func variantsAttr(pageNumber int, variants []VariantRef) string {
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		parts = append(parts, fmt.Sprintf("%d%s:%s",
			pageNumber, v.Name, strconv.FormatFloat(v.Weight, 'g', -1, 64)))
	}
	return strings.Join(parts, ",")
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

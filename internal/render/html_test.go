package render

import (
	"strings"
	"testing"
)

func testSite() *Site {
	return &Site{
		Name:           "Dendrite",
		HomeHref:       "/",
		LogoPath:       "/img/logo.png",
		StylesheetURL:  "https://cdn.example/pico.css",
		LocalStyles:    "/dendrite.css",
		NewPagePath:    "../new-page.html",
		ReportEndpoint: "/api/moderation/report",
	}
}

func TestBuildPageDeterministic(t *testing.T) {
	site := testSite()
	target := 7
	view := PageView{
		StoryTitle:  "The Cave",
		PageNumber:  12,
		VariantName: "b",
		Content:     "You stand at the mouth of a cave.",
		Author:      "anon",
		Options: []OptionView{
			{Content: "Go in", Position: 0, TargetPageNumber: &target,
				TargetVariants: []VariantRef{{Name: "a", Weight: 1}, {Name: "b", Weight: 0.75}}},
			{Content: "Walk away", Position: 1},
		},
	}

	first := site.BuildPage(view)
	second := site.BuildPage(view)
	if first != second {
		t.Fatal("BuildPage is not deterministic for identical input")
	}
}

func TestBuildPageLinks(t *testing.T) {
	site := testSite()
	target := 7
	view := PageView{
		PageNumber:  12,
		VariantName: "b",
		Content:     "text",
		Options: []OptionView{
			{Content: "Resolved", Position: 0, TargetPageNumber: &target,
				TargetVariants: []VariantRef{{Name: "a", Weight: 1}, {Name: "c", Weight: 2}}},
			{Content: "Unresolved", Position: 3},
		},
	}

	html := site.BuildPage(view)

	for _, want := range []string{
		// resolved option points at the target's first visible variant
		`href="/p/7a.html"`,
		// weighted list for the client-side redirect
		`data-variants="7a:1,7c:2"`,
		// unresolved option links back to the editor with the option slug
		`href="../new-page.html?option=12-b-3"`,
		`data-link-id="12-b-3"`,
		// alternatives link for the page being rendered
		`href="./12-alts.html"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("BuildPage output missing %q", want)
		}
	}
}

func TestBuildPageEscapesContent(t *testing.T) {
	site := testSite()
	view := PageView{
		StoryTitle:  `<script>alert("x")</script>`,
		PageNumber:  1,
		VariantName: "a",
		Content:     "a & b < c",
	}

	html := site.BuildPage(view)
	if strings.Contains(html, `<script>alert`) {
		t.Error("story title not escaped")
	}
	if !strings.Contains(html, "a &amp; b &lt; c") {
		t.Error("content not escaped")
	}
}

func TestBuildAlternatives(t *testing.T) {
	site := testSite()
	variants := []VariantRef{
		{Name: "a", Content: "one two three four five six seven", Weight: 1},
		{Name: "b", Content: "short", Weight: 0.6},
	}

	html := site.BuildAlternatives(12, variants)

	if !strings.Contains(html, `<li><a href="/p/12a.html">one two three four five</a></li>`) {
		t.Error("first variant preview not truncated to five words")
	}
	if !strings.Contains(html, `<li><a href="/p/12b.html">short</a></li>`) {
		t.Error("second variant entry missing")
	}
	if site.BuildAlternatives(12, variants) != html {
		t.Error("BuildAlternatives is not deterministic")
	}
}

func TestArtifactPaths(t *testing.T) {
	if got := VariantArtifactPath(12, "b"); got != "p/12b.html" {
		t.Errorf("VariantArtifactPath = %q", got)
	}
	if got := AlternativesArtifactPath(12); got != "p/12-alts.html" {
		t.Errorf("AlternativesArtifactPath = %q", got)
	}
}

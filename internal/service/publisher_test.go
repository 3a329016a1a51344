package service

import (
	"context"
	"strings"
	"testing"

	"dendrite/internal/domain/models"
	"dendrite/internal/domain/services"
	"dendrite/internal/objectstore"
	"dendrite/internal/render"
)

type recordingInvalidator struct {
	paths [][]string
}

func (r *recordingInvalidator) InvalidatePaths(_ context.Context, paths []string) error {
	r.paths = append(r.paths, paths)
	return nil
}

func newTestPublisher(t *testing.T, store *fakeStore, objects *objectstore.MemoryStore, inv objectstore.Invalidator) services.Publisher {
	t.Helper()
	site, err := render.LoadSite()
	if err != nil {
		t.Fatalf("LoadSite() error = %v", err)
	}
	return NewPublisher(
		&fakeStoryRepo{s: store},
		&fakePageRepo{s: store},
		&fakeVariantRepo{s: store},
		&fakeOptionRepo{s: store},
		objects,
		inv,
		site,
		testLogger(),
	)
}

// seedGraph builds a two-page story: page 7 variant "a" with one resolved
// and one unresolved option, the resolved option targeting page 9 which has
// a visible variant "a" and a hidden variant "b".
func seedGraph(store *fakeStore) {
	store.stories["s1"] = &models.Story{ID: "s1", Title: "The Fork", RootPageID: "p7"}
	store.pages["p7"] = &models.Page{ID: "p7", StoryID: "s1", Number: 7}
	opt1 := "p9"
	store.pages["p9"] = &models.Page{ID: "p9", StoryID: "s1", Number: 9, IncomingOptionID: strPtr("o1")}
	store.variants["v7a"] = &models.Variant{
		ID: "v7a", PageID: "p7", Name: "a", Content: "You stand at a fork.",
		AuthorName: "ada", Visibility: 1,
	}
	store.options["o1"] = &models.Option{
		ID: "o1", VariantID: "v7a", Content: "Go left", TargetPageID: &opt1, Position: 1,
	}
	store.options["o2"] = &models.Option{
		ID: "o2", VariantID: "v7a", Content: "Go right", Position: 2,
	}
	store.variants["v9a"] = &models.Variant{
		ID: "v9a", PageID: "p9", Name: "a", Content: "The left path narrows ahead of you.",
		Visibility: 0.8,
	}
	store.variants["v9b"] = &models.Variant{
		ID: "v9b", PageID: "p9", Name: "b", Content: "A rejected telling.",
		Visibility: 0.2,
	}
}

func strPtr(s string) *string { return &s }

func TestPublishPageWritesVisibleVariants(t *testing.T) {
	store := newFakeStore()
	seedGraph(store)
	objects := objectstore.NewMemoryStore()
	pub := newTestPublisher(t, store, objects, nil)

	if err := pub.PublishPage(context.Background(), "p7"); err != nil {
		t.Fatalf("PublishPage() error = %v", err)
	}

	html, ok := objects.Get("p/7a.html")
	if !ok {
		t.Fatal("artifact p/7a.html not written")
	}
	page := string(html)

	if !strings.Contains(page, "The Fork") {
		t.Error("story title missing from artifact")
	}
	if !strings.Contains(page, `href="/p/9a.html"`) {
		t.Errorf("resolved option link missing:\n%s", page)
	}
	if !strings.Contains(page, `data-variants="9a:0.8"`) {
		t.Errorf("weighted variant attribute missing:\n%s", page)
	}
	if !strings.Contains(page, "../new-page.html?option=7-a-2") {
		t.Errorf("unresolved option link missing:\n%s", page)
	}

	if _, ok := objects.Get("p/7-alts.html"); !ok {
		t.Error("alternatives fragment not written")
	}
}

func TestPublishPageHidesRejectedVariants(t *testing.T) {
	store := newFakeStore()
	seedGraph(store)
	objects := objectstore.NewMemoryStore()
	// Stale artifact from before the variant dropped below threshold.
	_ = objects.Write(context.Background(), "p/9b.html", []byte("old"), "text/html")
	pub := newTestPublisher(t, store, objects, nil)

	if err := pub.PublishPage(context.Background(), "p9"); err != nil {
		t.Fatalf("PublishPage() error = %v", err)
	}

	if _, ok := objects.Get("p/9b.html"); ok {
		t.Error("artifact of hidden variant not removed")
	}
	if _, ok := objects.Get("p/9a.html"); !ok {
		t.Error("visible variant artifact missing")
	}

	alts, _ := objects.Get("p/9-alts.html")
	if strings.Contains(string(alts), "9b.html") {
		t.Error("alternatives fragment lists hidden variant")
	}
	if !strings.Contains(string(alts), "The left path narrows ahead") {
		t.Error("alternatives preview missing")
	}
	// Five-word preview only.
	if strings.Contains(string(alts), "ahead of you") {
		t.Error("alternatives preview not truncated to five words")
	}
}

func TestPublishPageRefreshesParent(t *testing.T) {
	store := newFakeStore()
	seedGraph(store)
	objects := objectstore.NewMemoryStore()
	pub := newTestPublisher(t, store, objects, nil)

	// Publishing the continuation also refreshes the parent page whose
	// option links carry the continuation's variant list.
	if err := pub.PublishPage(context.Background(), "p9"); err != nil {
		t.Fatalf("PublishPage() error = %v", err)
	}

	parent, ok := objects.Get("p/7a.html")
	if !ok {
		t.Fatal("parent artifact not refreshed")
	}
	if !strings.Contains(string(parent), `data-variants="9a:0.8"`) {
		t.Error("parent links stale after publish")
	}
}

func TestPublishPageInvalidatesTouchedPaths(t *testing.T) {
	store := newFakeStore()
	seedGraph(store)
	objects := objectstore.NewMemoryStore()
	inv := &recordingInvalidator{}
	pub := newTestPublisher(t, store, objects, inv)

	if err := pub.PublishPage(context.Background(), "p7"); err != nil {
		t.Fatalf("PublishPage() error = %v", err)
	}

	if len(inv.paths) != 1 {
		t.Fatalf("invalidations = %d, want 1", len(inv.paths))
	}
	want := map[string]bool{"/p/7a.html": true, "/p/7-alts.html": true}
	for _, path := range inv.paths[0] {
		if !want[path] {
			t.Errorf("unexpected invalidated path %q", path)
		}
		delete(want, path)
	}
	for path := range want {
		t.Errorf("path %q not invalidated", path)
	}
}

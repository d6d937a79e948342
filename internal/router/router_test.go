package router

import (
	"testing"

	"loja/internal/catalog"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{"/", Home},
		{"", Home},
		{"/produtos", Products},
		{"/produtos/", Products},
		{"/carrinho?x=1", Cart},
		{"/categoria/geeks", CategoryRoute(catalog.CategoryGeeks)},
		{"/categoria/gel-dor", CategoryRoute(catalog.CategoryGelDor)},
		{"/categoria/diversos", CategoryRoute(catalog.CategoryDiversos)},
		{"/categoria/unknown", Route{Page: PageNotFound, Raw: "/categoria/unknown"}},
		{"/admin", Route{Page: PageNotFound, Raw: "/admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.path)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestPathRoundTrip(t *testing.T) {
	for _, p := range []string{"/", "/produtos", "/carrinho", "/categoria/geeks", "/categoria/gel-dor", "/categoria/diversos"} {
		if got := Parse(p).Path(); got != p {
			t.Errorf("round trip %q -> %q", p, got)
		}
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(Home)
	if !h.Push(Products) {
		t.Fatal("expected push to succeed")
	}
	if h.Push(Products) {
		t.Error("pushing the current route should be a no-op")
	}
	h.Push(CategoryRoute(catalog.CategoryGeeks))
	if h.Depth() != 3 {
		t.Errorf("expected depth 3, got %d", h.Depth())
	}

	if !h.Back() || !h.Current().Equal(Products) {
		t.Errorf("expected Products after back, got %v", h.Current())
	}
	h.Back()
	if h.Back() {
		t.Error("back at root should return false")
	}
	if !h.Current().Equal(Home) {
		t.Errorf("expected Home, got %v", h.Current())
	}
}

func TestZeroHistory(t *testing.T) {
	var h History
	if !h.Current().Equal(Home) {
		t.Error("zero history should report Home")
	}
	h.Push(Cart)
	if !h.Current().Equal(Cart) {
		t.Error("expected Cart")
	}
}

func TestHistoryIsBounded(t *testing.T) {
	h := NewHistory(Home)
	for i := 0; i < 3*MaxHistory; i++ {
		if i%2 == 0 {
			h.Push(Products)
		} else {
			h.Push(Cart)
		}
	}
	if h.Depth() != MaxHistory {
		t.Fatalf("expected depth %d, got %d", MaxHistory, h.Depth())
	}
	if !h.Current().Equal(Cart) {
		t.Errorf("expected Cart on top, got %v", h.Current())
	}

	for h.Back() {
	}
	// Home fell off the bottom; the oldest kept entry is the new root.
	if h.Current().Equal(Home) {
		t.Error("expected the oldest entries to be dropped")
	}
}

package catalog

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestDefaultCatalogInvariants(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if c.Len() != Size {
		t.Fatalf("len = %d, want %d", c.Len(), Size)
	}
	wantGuiding := []int{3, 3, 4, 3, 4}
	for i, dim := range c.Dimensions() {
		if dim.Ordinal != i {
			t.Fatalf("dimension %s ordinal = %d, want %d", dim.ID, dim.Ordinal, i)
		}
		if got := len(dim.Guiding); got != wantGuiding[i] {
			t.Fatalf("dimension %s guiding = %d, want %d", dim.ID, got, wantGuiding[i])
		}
		if len(dim.Discussion) < 3 {
			t.Fatalf("dimension %s should have at least 3 discussion questions", dim.ID)
		}
	}
	var ids []string
	for _, dim := range c.Dimensions() {
		ids = append(ids, dim.ID)
	}
	if got := strings.Join(ids, ","); got != "1,2,3,4,5" {
		t.Fatalf("ids = %s", got)
	}
	if len(c.Onboarding().Screens) != 3 {
		t.Fatalf("expected 3 onboarding screens")
	}
	if len(c.Disclaimer()) == 0 || c.Resolution().Title == "" {
		t.Fatalf("expected disclaimer and resolution copy")
	}
}

func TestLookupsAndCopies(t *testing.T) {
	c := MustDefault()
	dim, ok := c.ByID("3")
	if !ok || dim.Ordinal != 2 {
		t.Fatalf("ByID(3) = %+v, %v", dim, ok)
	}
	if _, ok := c.ByID("nope"); ok {
		t.Fatalf("ByID(nope) should miss")
	}
	if _, ok := c.At(Size); ok {
		t.Fatalf("At(%d) should be out of range", Size)
	}
	dim.Guiding[0].Prompt = "mutated"
	dim.Discussion[0] = "mutated"
	again, _ := c.ByID("3")
	if again.Guiding[0].Prompt == "mutated" || again.Discussion[0] == "mutated" {
		t.Fatalf("catalog content leaked through a returned copy")
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	valid := string(embeddedCatalog)
	cases := map[string]string{
		"too few dimensions": `
version: 1
dimensions:
  - id: "1"
    title: Only
    guiding:
      - prompt: q
        options: [{label: Low, value: 1}, {label: Medium, value: 2}, {label: High, value: 3}]
    closing: {kind: text, prompt: p}
    discussion: [d]
`,
		"bad closing kind":  strings.Replace(valid, "kind: text", "kind: essay", 1),
		"duplicate id":      strings.Replace(valid, `id: "2"`, `id: "1"`, 1),
		"bad option value":  strings.Replace(valid, "value: 3", "value: 4", 1),
		"choice no options": strings.Replace(valid, "kind: text", "kind: choice", 1),
	}
	secondScreen := "    - This experience is not a test — it’s a reflection.\n"
	cases["two onboarding screens"] = strings.Replace(valid, secondScreen, "", 1)
	cases["blank onboarding screen"] = strings.Replace(valid, secondScreen, "    - \"  \"\n", 1)
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"custom.yaml": &fstest.MapFile{Data: embeddedCatalog},
	}
	c, err := Load(fsys, "custom.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() != Size {
		t.Fatalf("len = %d", c.Len())
	}
	if _, err := Load(fsys, "missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

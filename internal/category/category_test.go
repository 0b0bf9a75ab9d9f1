package category

import "testing"

func TestParseKnownCodes(t *testing.T) {
	for _, c := range All() {
		got, err := Parse(string(c))
		if err != nil {
			t.Fatalf("Parse(%q): %v", c, err)
		}
		if got != c {
			t.Fatalf("Parse(%q) = %q", c, got)
		}
	}
}

func TestParseUnknownCode(t *testing.T) {
	if _, err := Parse("x"); err == nil {
		t.Fatal("expected error for unknown code")
	}
	if Category("x").Valid() {
		t.Fatal("unknown code reported valid")
	}
}

func TestRegistryMetadata(t *testing.T) {
	if len(All()) != 7 {
		t.Fatalf("expected 7 categories, got %d", len(All()))
	}
	if Treasure.FileName() != "treasure.json" {
		t.Fatalf("unexpected file name %q", Treasure.FileName())
	}
	if Sudden.Name() != "Sudden Mission" {
		t.Fatalf("unexpected name %q", Sudden.Name())
	}
	for _, c := range All() {
		info := c.Info()
		if info.Name == "" || info.Color == "" || info.File == "" {
			t.Fatalf("incomplete metadata for %q: %+v", c, info)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	a := All()
	a[0] = Sudden
	if All()[0] != Treasure {
		t.Fatal("All() leaked internal slice")
	}
}

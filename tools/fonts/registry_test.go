package fonts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitlab.com/mediafxuz/media-fx/pkg/logger"
)

func testRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	return NewRegistry(logger.New("error", "test"), dir, nil), dir
}

func writeFakeFont(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not really a font"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBundledFontsRequireFileOnDisk(t *testing.T) {
	r, dir := testRegistry(t)

	if got := r.List(false); len(got) != 0 {
		t.Fatalf("empty dir should expose no bundled fonts, got %v", got)
	}

	writeFakeFont(t, filepath.Join(dir, "Roboto-Regular.ttf"))

	got := r.List(false)
	if len(got) != 1 || got[0].Key != "roboto" || got[0].Source != "bundled" {
		t.Fatalf("expected bundled roboto, got %v", got)
	}
}

func TestUploadResolveDelete(t *testing.T) {
	r, dir := testRegistry(t)

	src := filepath.Join(dir, "incoming.ttf")
	writeFakeFont(t, src)

	f, err := r.Upload("my-brand", "Brand Font", "headline font", src)
	if err != nil {
		t.Fatal(err)
	}
	if f.Source != "user" || f.FileName != "my-brand.ttf" {
		t.Fatalf("unexpected upload result: %+v", f)
	}
	if _, err := os.Stat(f.Path); err != nil {
		t.Fatalf("font file not stored: %v", err)
	}

	resolved, err := r.Resolve("my-brand")
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Name != "Brand Font" {
		t.Errorf("resolved name = %q", resolved.Name)
	}

	if err := r.Delete("my-brand"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Resolve("my-brand"); err == nil {
		t.Error("deleted font still resolves")
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Error("deleted font file still on disk")
	}
}

func TestUploadValidation(t *testing.T) {
	r, dir := testRegistry(t)
	src := filepath.Join(dir, "incoming.ttf")
	writeFakeFont(t, src)

	if _, err := r.Upload("ab", "Too Short", "", src); err == nil {
		t.Error("two-character key accepted")
	}
	if _, err := r.Upload("has spaces", "Bad", "", src); err == nil {
		t.Error("key with spaces accepted")
	}

	bad := filepath.Join(dir, "notes.txt")
	writeFakeFont(t, bad)
	if _, err := r.Upload("valid-key", "Bad Type", "", bad); err == nil {
		t.Error("non-font extension accepted")
	}
}

func TestUploadRejectsDuplicateKey(t *testing.T) {
	r, dir := testRegistry(t)
	src := filepath.Join(dir, "incoming.ttf")
	writeFakeFont(t, src)

	if _, err := r.Upload("brand", "First", "", src); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Upload("brand", "Second", "", src); err == nil {
		t.Error("duplicate key accepted")
	}
}

func TestDeleteRejectsNonUserFonts(t *testing.T) {
	r, dir := testRegistry(t)
	writeFakeFont(t, filepath.Join(dir, "Roboto-Regular.ttf"))

	if err := r.Delete("roboto"); err == nil {
		t.Error("bundled font deletable")
	}
	if err := r.Delete("never-existed"); err == nil {
		t.Error("unknown font deletable")
	}
}

func TestResolveUnknownKeyNamesKey(t *testing.T) {
	r, _ := testRegistry(t)
	_, err := r.Resolve("no-such-font")
	if err == nil {
		t.Fatal("expected an error")
	}
	if want := `"no-such-font"`; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not name the key", err)
	}
}

func TestSystemCacheTTL(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	dir := t.TempDir()
	r := NewRegistry(logger.New("error", "test"), dir, clock)

	first := r.systemFonts()
	// within TTL the cached slice is returned as-is
	second := r.systemFonts()
	if len(first) != len(second) {
		t.Fatal("cached scan differs")
	}

	// advancing past the TTL triggers a rescan without error
	now = now.Add(2 * time.Hour)
	r.systemFonts()

	r.InvalidateSystemCache()
	r.systemFonts()
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"DejaVu Sans":    "dejavu-sans",
		"Noto_Sans-Bold": "noto_sans-bold",
		"  Weird  ":      "weird",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

package organize

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReserveClaimsOnce(t *testing.T) {
	c := newClaims()
	if !c.reserve("/dest/IMG.jpg") {
		t.Fatal("first reservation must succeed")
	}
	if c.reserve("/dest/IMG.jpg") {
		t.Fatal("second reservation of the same path must fail")
	}
	if !c.reserve("/dest/IMG2.jpg") {
		t.Fatal("unrelated path must still be reservable")
	}
}

func TestReserveNumberedSkipsClaimedSlots(t *testing.T) {
	c := newClaims()
	dest := filepath.Join(t.TempDir(), "IMG.jpg")

	first := c.reserveNumbered(dest)
	second := c.reserveNumbered(dest)
	third := c.reserveNumbered(dest)

	dir := filepath.Dir(dest)
	if first != filepath.Join(dir, "IMG_1.jpg") {
		t.Fatalf("first = %q", first)
	}
	if second != filepath.Join(dir, "IMG_2.jpg") {
		t.Fatalf("second = %q", second)
	}
	if third != filepath.Join(dir, "IMG_3.jpg") {
		t.Fatalf("third = %q", third)
	}
}

func TestReserveNumberedSkipsFilesOnDisk(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"IMG_1.jpg", "IMG_2.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := newClaims()
	got := c.reserveNumbered(filepath.Join(dir, "IMG.jpg"))
	if got != filepath.Join(dir, "IMG_3.jpg") {
		t.Fatalf("got %q, want IMG_3.jpg", got)
	}
}

func TestNextNumberedDoesNotClaim(t *testing.T) {
	c := newClaims()
	dest := filepath.Join(t.TempDir(), "IMG.jpg")

	preview := c.nextNumbered(dest)
	reserved := c.reserveNumbered(dest)
	if preview != reserved {
		t.Fatalf("preview %q, reservation %q", preview, reserved)
	}
}

func TestReserveNumberedHandlesExtensionlessNames(t *testing.T) {
	c := newClaims()
	dest := filepath.Join(t.TempDir(), "README")
	if got := c.reserveNumbered(dest); filepath.Base(got) != "README_1" {
		t.Fatalf("got %q, want README_1", got)
	}
}

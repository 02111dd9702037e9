package spritegroup

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-draw", "after-draw"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveSnapshotWritesPNG(t *testing.T) {
	dst := newTestSurface(8, 8)
	red := color.RGBA{R: 255, A: 255}
	dst.Fill(XYWH(2, 2, 3, 3), red)

	dir := filepath.Join(t.TempDir(), "shots")
	path, err := SaveSnapshot(dir, "full frame", dst.Image())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !strings.HasSuffix(path, "_full_frame.png") {
		t.Errorf("path = %q, want suffix _full_frame.png", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if r, _, _, a := img.At(3, 3).RGBA(); r != 0xffff || a != 0xffff {
		t.Errorf("pixel (3,3) = %v, want red", img.At(3, 3))
	}
}

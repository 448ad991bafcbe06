package images

import (
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// writeSource drops a wide red source image into a product directory.
func writeSource(t *testing.T, dir string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	f, err := os.Create(filepath.Join(dir, filepath.Base(dir)+"_source.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func productDir(t *testing.T, root, id string) string {
	t.Helper()
	dir := filepath.Join(root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunGeneratesVariants(t *testing.T) {
	root := t.TempDir()
	dir := productDir(t, root, "316272947")
	writeSource(t, dir, 400, 200)

	g := NewGenerator(2, testLogger)
	m := g.Run([]string{dir})

	if len(m.Failures) != 0 {
		t.Fatalf("failures: %v", m.Failures)
	}
	if m.VariantsCreated != len(Sizes) {
		t.Errorf("created %d variants, want %d", m.VariantsCreated, len(Sizes))
	}

	for _, size := range Sizes {
		path := filepath.Join(dir, "316272947_"+strconv.Itoa(size)+".jpg")
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("missing variant %s: %v", path, err)
		}
		img, err := jpeg.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Errorf("%s bounds = %v, want %dx%d square", path, b, size, size)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	dir := productDir(t, root, "316272947")
	writeSource(t, dir, 100, 100)

	g := NewGenerator(1, testLogger)
	g.Run([]string{dir})
	m := g.Run([]string{dir})

	if m.VariantsCreated != 0 {
		t.Errorf("second run created %d variants, want 0", m.VariantsCreated)
	}
	if m.Skipped != len(Sizes) {
		t.Errorf("second run skipped %d, want %d", m.Skipped, len(Sizes))
	}
}

func TestRunRecordsFailures(t *testing.T) {
	root := t.TempDir()

	good := productDir(t, root, "111111111")
	writeSource(t, good, 50, 50)

	corrupt := productDir(t, root, "222222222")
	if err := os.WriteFile(filepath.Join(corrupt, "222222222_source.jpg"), []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	empty := productDir(t, root, "333333333")

	g := NewGenerator(4, testLogger)
	m := g.Run([]string{good, corrupt, empty})

	if m.VariantsCreated != len(Sizes) {
		t.Errorf("created %d, want %d from the good product", m.VariantsCreated, len(Sizes))
	}
	if len(m.Failures) != 2 {
		t.Fatalf("failures = %v, want 2", m.Failures)
	}
	// Failures are sorted by product id for stable manifests.
	if m.Failures[0].ProductID != "222222222" || m.Failures[1].ProductID != "333333333" {
		t.Errorf("failure order = %v", m.Failures)
	}
}

func TestLetterboxAspect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			src.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}

	out := letterbox(src, 200)
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 200 {
		t.Fatalf("bounds = %v", b)
	}

	// The top band is padding and must stay white.
	r, g, b, _ := out.At(100, 10).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("padding pixel = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}

	// The center carries the scaled image.
	_, _, b2, _ := out.At(100, 100).RGBA()
	if b2>>8 < 200 {
		t.Errorf("center pixel blue = %d, want near 255", b2>>8)
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image-variants.json")
	m := &Manifest{GeneratedAt: "2025-11-02T10:00:00Z", Sizes: Sizes, Products: 1}

	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("manifest not written: %v", err)
	}
}

// Package images generates the sized product image variants served next to
// each product's details file. Source renditions are letterboxed onto a
// white square so every variant of a size is exactly that size.
package images

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
)

// Sizes are the square variant edge lengths generated per product.
var Sizes = []int{50, 200, 400}

const jpegQuality = 85

// Failure records one product whose variants could not be generated.
type Failure struct {
	ProductID string `json:"productId"`
	Error     string `json:"error"`
}

// Manifest is the image-variants.json summary written after a run.
type Manifest struct {
	GeneratedAt     string    `json:"generatedAt"`
	Sizes           []int     `json:"sizes"`
	Products        int       `json:"products"`
	VariantsCreated int       `json:"variantsCreated"`
	Skipped         int       `json:"skipped"`
	Failures        []Failure `json:"failures,omitempty"`
}

// Generator produces sized variants across product directories with a
// bounded worker pool.
type Generator struct {
	workers int
	logger  *slog.Logger
}

// NewGenerator creates a generator. workers <= 0 selects the default pool
// size of min(8, NumCPU).
func NewGenerator(workers int, logger *slog.Logger) *Generator {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > 8 {
			workers = 8
		}
	}
	return &Generator{
		workers: workers,
		logger:  logger.With("component", "image_variants"),
	}
}

// Run generates variants for every product directory. A product that fails
// is recorded in the manifest and does not stop the run.
func (g *Generator) Run(productDirs []string) *Manifest {
	m := &Manifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Sizes:       Sizes,
		Products:    len(productDirs),
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, g.workers)
	)

	for _, dir := range productDirs {
		wg.Add(1)
		sem <- struct{}{}
		go func(dir string) {
			defer wg.Done()
			defer func() { <-sem }()

			created, skipped, err := g.processDir(dir)

			mu.Lock()
			defer mu.Unlock()
			m.VariantsCreated += created
			m.Skipped += skipped
			if err != nil {
				m.Failures = append(m.Failures, Failure{
					ProductID: filepath.Base(dir),
					Error:     err.Error(),
				})
			}
		}(dir)
	}
	wg.Wait()

	sort.Slice(m.Failures, func(i, j int) bool {
		return m.Failures[i].ProductID < m.Failures[j].ProductID
	})

	g.logger.Info("variant generation complete",
		"products", m.Products,
		"created", m.VariantsCreated,
		"skipped", m.Skipped,
		"failures", len(m.Failures))
	return m
}

// processDir generates the missing variants for one product directory.
func (g *Generator) processDir(dir string) (created, skipped int, err error) {
	src, err := findSource(dir)
	if err != nil {
		return 0, 0, err
	}

	var img image.Image
	for _, size := range Sizes {
		out := variantPath(dir, size)
		if _, statErr := os.Stat(out); statErr == nil {
			skipped++
			continue
		}

		if img == nil {
			img, err = decode(src)
			if err != nil {
				return created, skipped, err
			}
		}

		if err := writeVariant(out, letterbox(img, size)); err != nil {
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}

func variantPath(dir string, size int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.jpg", filepath.Base(dir), size))
}

// findSource picks the source rendition for a product directory: the
// largest non-variant jpg or png present.
func findSource(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	variants := make(map[string]bool, len(Sizes))
	for _, size := range Sizes {
		variants[filepath.Base(variantPath(dir, size))] = true
	}

	var best string
	var bestSize int64
	for _, e := range entries {
		if e.IsDir() || variants[e.Name()] {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if best == "" || info.Size() > bestSize {
			best = filepath.Join(dir, e.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", fmt.Errorf("no source image in %s", dir)
	}
	return best, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// letterbox scales img to fit a size x size square on a white background,
// centered, preserving aspect ratio.
func letterbox(img image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return dst
	}

	var fitW, fitH int
	if w >= h {
		fitW = size
		fitH = h * size / w
	} else {
		fitH = size
		fitW = w * size / h
	}
	if fitW < 1 {
		fitW = 1
	}
	if fitH < 1 {
		fitH = 1
	}

	x := (size - fitW) / 2
	y := (size - fitH) / 2
	target := image.Rect(x, y, x+fitW, y+fitH)
	xdraw.CatmullRom.Scale(dst, target, img, b, xdraw.Over, nil)
	return dst
}

func writeVariant(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
}

// WriteManifest writes the run summary next to the product directories.
func WriteManifest(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

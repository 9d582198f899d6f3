package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"
)

// encodeTestImage produces a PNG of the given dimensions.
func encodeTestImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	return img
}

func TestOptimizeDownscalesLargeImages(t *testing.T) {
	out, err := Optimize(encodeTestImage(t, 3840, 2160))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeJPEG(t, out).Bounds()
	if got.Dx() != 1920 || got.Dy() != 1080 {
		t.Errorf("optimized = %dx%d, want 1920x1080", got.Dx(), got.Dy())
	}
}

func TestOptimizeNeverEnlarges(t *testing.T) {
	out, err := Optimize(encodeTestImage(t, 640, 480))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeJPEG(t, out).Bounds()
	if got.Dx() != 640 || got.Dy() != 480 {
		t.Errorf("optimized = %dx%d, want original 640x480", got.Dx(), got.Dy())
	}
}

func TestOptimizePassesThroughNonImages(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	out, err := Optimize(svg)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, svg) {
		t.Error("non-raster input should pass through unchanged")
	}
}

func TestThumbnailIsSquare(t *testing.T) {
	out, err := Thumbnail(encodeTestImage(t, 1600, 900))
	if err != nil {
		t.Fatal(err)
	}
	got := decodeJPEG(t, out).Bounds()
	if got.Dx() != 300 || got.Dy() != 300 {
		t.Errorf("thumbnail = %dx%d, want 300x300", got.Dx(), got.Dy())
	}
}

func TestThumbnailSkipsNonImages(t *testing.T) {
	out, err := Thumbnail([]byte("definitely not an image"))
	if err != nil {
		t.Fatal(err)
	}
	if out != nil {
		t.Error("non-image input should yield no thumbnail")
	}
}

package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// ImageFormat selects the screenshot encoding.
type ImageFormat string

// Supported screenshot formats.
const (
	FormatPNG ImageFormat = "png"
	FormatBMP ImageFormat = "bmp"
)

// ParseImageFormat accepts "png" or "bmp" in any case. Empty means PNG.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatBMP:
		return f, nil
	default:
		return "", fmt.Errorf("image format %q: want %q or %q", s, FormatPNG, FormatBMP)
	}
}

func (f ImageFormat) encode(w io.Writer, img image.Image) error {
	if f == FormatBMP {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

// ScreenshotName returns dir/prefix_<timestamp>.<format>.
func ScreenshotName(dir, prefix string, format ImageFormat, at time.Time) string {
	if format == "" {
		format = FormatPNG
	}
	name := fmt.Sprintf("%s_%s.%s", prefix, at.Format("2006-01-02_15-04-05"), format)
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// FramebufferImage converts bottom-up RGBA pixels read back from OpenGL into
// a top-down image.
func FramebufferImage(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := range height {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// SaveScreenshot encodes framebuffer pixels and returns the written path.
func SaveScreenshot(dir, prefix string, format ImageFormat, pixels []byte, width, height int) (string, error) {
	img, err := FramebufferImage(pixels, width, height)
	if err != nil {
		return "", err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := ScreenshotName(dir, prefix, format, time.Now())
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := format.encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", format, err)
	}
	return filename, nil
}

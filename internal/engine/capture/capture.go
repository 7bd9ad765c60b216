// Package capture writes rendered frames to image files.
package capture

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
	"golang.org/x/image/tiff"
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PNG, BMP, TIFF:
		return f, nil
	case "":
		return PNG, nil
	case "tif":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unknown capture format %q", s)
	}
}

func (f Format) encode(w io.Writer, img image.Image) error {
	switch f {
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

// Capturer saves screenshots and numbered frame sequences.
type Capturer struct {
	outputDir string
	prefix    string
	format    Format

	recording bool
	sequence  int // number of the current or last sequence
	frame     int // frames written in the current sequence

	now func() time.Time
}

// New creates a capturer writing into outputDir.
func New(outputDir, prefix string, format Format) *Capturer {
	return &Capturer{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// FromPixels builds an image from bottom-up RGBA rows as read back from
// OpenGL, flipping it upright.
func FromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// Screenshot writes a single image named after the current time to the
// millisecond. A numeric suffix is added if that name is already taken.
func (c *Capturer) Screenshot(pixels []byte, width, height int) (string, error) {
	now := c.now()
	base := fmt.Sprintf("%s_%s_%03d", c.prefix, now.Format("2006-01-02_15-04-05"), now.Nanosecond()/int(time.Millisecond))
	name := fmt.Sprintf("%s.%s", base, c.format)
	for i := 2; exists(c.path(name)); i++ {
		name = fmt.Sprintf("%s_%d.%s", base, i, c.format)
	}
	return c.write(name, pixels, width, height)
}

// Recording reports whether a frame sequence is in progress.
func (c *Capturer) Recording() bool {
	return c.recording
}

// Toggle starts a new frame sequence or stops the current one, and returns
// whether recording is now on.
func (c *Capturer) Toggle() bool {
	if c.recording {
		c.recording = false
		return false
	}
	c.recording = true
	c.sequence++
	for c.sequenceTaken(c.sequence) {
		c.sequence++
	}
	c.frame = 0
	return true
}

// sequenceTaken reports whether frames of sequence n already exist in the
// output directory, e.g. from an earlier run.
func (c *Capturer) sequenceTaken(n int) bool {
	matches, err := filepath.Glob(c.path(fmt.Sprintf("%s_seq%02d_*", c.prefix, n)))
	return err == nil && len(matches) > 0
}

func (c *Capturer) path(name string) string {
	if c.outputDir == "" {
		return name
	}
	return filepath.Join(c.outputDir, name)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Frame writes the next image of the current sequence. It does nothing
// when not recording.
func (c *Capturer) Frame(pixels []byte, width, height int) (string, error) {
	if !c.recording {
		return "", nil
	}
	name := fmt.Sprintf("%s_seq%02d_%05d.%s", c.prefix, c.sequence, c.frame, c.format)
	path, err := c.write(name, pixels, width, height)
	if err != nil {
		c.recording = false
		return "", err
	}
	c.frame++
	return path, nil
}

func (c *Capturer) write(name string, pixels []byte, width, height int) (string, error) {
	img, err := FromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}

	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	name = c.path(name)

	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := c.format.encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", c.format, err)
	}
	return name, nil
}

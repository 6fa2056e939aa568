package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	_ "image/png"
)

const (
	// maxImageDimension bounds the staged input so the pipeline never sees
	// arbitrarily large images.
	maxImageDimension = 1024
	jpegQuality       = 85
)

// orientation extracts the EXIF orientation tag, defaulting to 1 (upright)
// when the image carries no usable EXIF data.
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// applyOrientation maps the source pixels so the image displays upright.
// Mirrored orientations (5, 7) are folded into their rotated counterparts;
// cameras virtually never emit them.
func applyOrientation(img image.Image, orient int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	var at func(x, y int) (int, int)

	switch orient {
	case 2: // mirrored horizontally
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		at = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotated 180
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		at = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // mirrored vertically
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
		at = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5, 6: // rotated 90 CW
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		at = func(x, y int) (int, int) { return h - 1 - y, x }
	case 7, 8: // rotated 90 CCW
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
		at = func(x, y int) (int, int) { return y, w - 1 - x }
	default:
		return img
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := at(x, y)
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Normalize decodes an uploaded image, corrects its EXIF orientation, scales
// it down to fit maxImageDimension while preserving aspect ratio, and writes
// it to destPath as JPEG. Supports every format on the upload allow-list.
func Normalize(r io.Reader, destPath string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read image data: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if orient := orientation(data); orient != 1 {
		img = applyOrientation(img, orient)
		log.Debugf("Applied orientation correction: %d", orient)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxImageDimension || height > maxImageDimension {
		scale := float64(maxImageDimension) / float64(width)
		if s := float64(maxImageDimension) / float64(height); s < scale {
			scale = s
		}
		newWidth := int(float64(width) * scale)
		newHeight := int(float64(height) * scale)
		// Extreme aspect ratios can truncate a dimension to zero.
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}

		scaled := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return nil
}

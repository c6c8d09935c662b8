// Package export writes rendered frames to files, encoders and object storage.
package export

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Save writes img to path, picking the format from the file extension
// (png, jpg, gif, tif or bmp)
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w in the named format, e.g. "png" or "jpg"
func Encode(w io.Writer, img image.Image, format string) error {
	f, err := imaging.FormatFromExtension(strings.TrimPrefix(format, "."))
	if err != nil {
		return fmt.Errorf("unknown image format %q: %w", format, err)
	}
	return imaging.Encode(w, img, f)
}

// Open decodes the image stored at path
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return img, nil
}

// Scale stretches img to size×size with bilinear interpolation. A
// non-positive size returns img unchanged.
func Scale(img image.Image, size int) image.Image {
	if size <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.Bilinear)
}

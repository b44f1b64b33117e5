// Package imaging normalizes uploaded pictures before they are stored
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

const (
	AvatarSize = 250

	// MaxPixels bounds the decoded area of an upload. Compressed files far
	// below the upload limit can declare dimensions worth gigabytes
	MaxPixels = 25_000_000
)

var (
	ErrInvalidImage  = errors.New("invalid image data")
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// Avatar decodes src, scales it to cover a size x size square, crops the
// overflow around the center and encodes the result as PNG
func Avatar(src io.Reader, size int) ([]byte, error) {
	if size <= 0 {
		size = AvatarSize
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read image, %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidImage, err)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, ErrImageTooLarge)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrInvalidImage
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, coverCrop(bounds), xdraw.Src, nil)

	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode png, %w", err)
	}

	return buf.Bytes(), nil
}

// coverCrop returns the largest centered square inside b
func coverCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == h {
		return b
	}

	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}

	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}

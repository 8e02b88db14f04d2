// Package imaging decodes report photos and normalizes their color format
// before they are handed to the embedding backend.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // GIF support
	"image/jpeg"
	_ "image/png" // PNG support

	"github.com/pawtrail/petmatch-backend/internal/domain"
)

// jpegQuality is used when re-encoding normalized images for the wire.
const jpegQuality = 90

// Decode parses photo bytes into an RGB-normalized image. Alpha is composited
// against white so that transparent PNGs embed the same as their flattened
// JPEG counterparts. Undecodable bytes yield domain.ErrInvalidImage.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty photo data: %w", domain.ErrInvalidImage)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %v: %w", err, domain.ErrInvalidImage)
	}

	// JPEG is already opaque YCbCr/gray; only flatten when needed.
	if format == "jpeg" {
		return img, nil
	}
	return flatten(img), nil
}

// EncodeJPEG serializes an image as baseline JPEG for transport to the
// embedding backend.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// flatten redraws an image onto an opaque white RGBA canvas.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

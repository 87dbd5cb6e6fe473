package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned when there are no image bytes to convert.
var ErrEmptyImage = errors.New("empty image data")

// ImageService prepares cover art for embedding in ID3 tags.
//
// ImageService is used to:
//   - Decode artwork in whatever format the catalog serves (JPEG, PNG, GIF,
//     WebP, BMP)
//   - Resize images to fit maximum dimensions
//   - Re-encode images as PNG, the format written into the APIC frame
//
// Example usage:
//
//	svc := NewImageService()
//
//	// Convert catalog artwork for embedding
//	cover, err := svc.ConvertToPNG(ctx, song.Artwork)
//
//	// Or shrink it first
//	cover, err = svc.ResizeImage(ctx, song.Artwork, 1000, 1000)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions
// and returns it PNG-encoded.
//
// The aspect ratio is preserved. Images that already fit are re-encoded
// without scaling. The Catmull-Rom algorithm is used for resizing.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x666
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, err := decode(ctx, data)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxWidth <= 0 || maxHeight <= 0 || (width <= maxWidth && height <= maxHeight) {
		return encodePNG(img)
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = max(1, int(float64(maxHeight)*ratio))
		height = maxHeight
	} else {
		height = max(1, int(float64(maxWidth)/ratio))
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodePNG(dst)
}

// ConvertToPNG decodes an image of any registered format and re-encodes it
// as PNG.
//
// Returns an error if the data is empty or not a recognized image format.
//
// Example:
//
//	jpegData, _ := client.Get(ctx, picURL)
//	pngData, err := svc.ConvertToPNG(ctx, jpegData)
func (s *ImageService) ConvertToPNG(ctx context.Context, data []byte) ([]byte, error) {
	img, err := decode(ctx, data)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func decode(ctx context.Context, data []byte) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package service

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/stonefield-io/brickscan/internal/domain"
)

// ThumbnailProcessor generates gallery thumbnails from uploaded images.
type ThumbnailProcessor interface {
	// Thumbnail scales the image down to fit the gallery bounds and returns
	// it re-encoded as JPEG.
	Thumbnail(data []byte) ([]byte, error)
}

// imagingProcessor implements ThumbnailProcessor with the imaging library.
type imagingProcessor struct{}

// NewThumbnailProcessor creates the default thumbnail processor.
func NewThumbnailProcessor() ThumbnailProcessor {
	return &imagingProcessor{}
}

// Thumbnail decodes the source image, scales it to fit within the thumbnail
// bounds preserving aspect ratio, and encodes the result as JPEG. Images
// already within bounds are re-encoded without scaling.
func (p *imagingProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, domain.ThumbnailMaxWidth, domain.ThumbnailMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(domain.ThumbnailJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

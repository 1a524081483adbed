package analysis

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers webp decoding

	"github.com/NancyCima/Azure-Dashboard/internal/llm"
)

// Upload is one image file received with an analysis request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageNormalizer turns raw upload bytes into an image the LLM accepts.
type ImageNormalizer interface {
	Normalize(data []byte) (llm.Image, error)
}

// JPEGNormalizer flattens onto white, fits within MaxDimension and
// re-encodes as JPEG.
type JPEGNormalizer struct {
	MaxDimension int
	Quality      int
}

// DefaultImageNormalizer bounds images to 1024x1024 at quality 85.
func DefaultImageNormalizer() JPEGNormalizer {
	return JPEGNormalizer{MaxDimension: 1024, Quality: 85}
}

// Normalize decodes data and returns a base64 JPEG.
func (n JPEGNormalizer) Normalize(data []byte) (llm.Image, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return llm.Image{}, fmt.Errorf("decode image: %w", err)
	}

	maxDim := n.MaxDimension
	if maxDim <= 0 {
		maxDim = 1024
	}
	fitted := imaging.Fit(src, maxDim, maxDim, imaging.Lanczos)

	b := fitted.Bounds()
	flat := imaging.New(b.Dx(), b.Dy(), color.White)
	flat = imaging.Overlay(flat, fitted, image.Pt(0, 0), 1.0)

	quality := n.Quality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return llm.Image{}, fmt.Errorf("encode image: %w", err)
	}
	return llm.Image{MIMEType: "image/jpeg", Base64: base64.StdEncoding.EncodeToString(buf.Bytes())}, nil
}

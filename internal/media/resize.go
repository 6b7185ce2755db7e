package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/circleone/member-directory/internal/constants"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// JPEGQuality is used whenever the output is re-encoded as JPEG.
const JPEGQuality = 85

// Processed is an image ready to be stored.
type Processed struct {
	Data        []byte
	Ext         string
	ContentType string
	Width       int
	Height      int
}

// Fit decodes r, scales it down to fit inside maxSide×maxSide keeping the aspect ratio,
// and re-encodes it. Smaller images keep their size. Sources that may carry
// transparency (png, gif, webp with alpha) become PNG; everything else JPEG.
// Images above constants.MaxImagePixels are rejected before any pixel is decoded.
func Fit(r io.Reader, ext string, maxSide int) (*Processed, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > constants.MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d is over the pixel limit", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	b := src.Bounds()
	w, h := scaledSize(b.Dx(), b.Dy(), maxSide)

	var img image.Image = src
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	out := &Processed{Width: w, Height: h}
	if keepsAlpha(ext, src) {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		out.Ext, out.ContentType = "png", "image/png"
	} else {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
		out.Ext, out.ContentType = "jpg", "image/jpeg"
	}
	out.Data = buf.Bytes()
	return out, nil
}

func scaledSize(w, h, side int) (int, int) {
	if side <= 0 || (w <= side && h <= side) {
		return w, h
	}
	if w >= h {
		return side, max(1, h*side/w)
	}
	return max(1, w*side/h), side
}

func keepsAlpha(ext string, img image.Image) bool {
	switch ext {
	case "png", "gif":
		return true
	case "webp":
		if o, ok := img.(interface{ Opaque() bool }); ok {
			return !o.Opaque()
		}
		return true
	default:
		return false
	}
}

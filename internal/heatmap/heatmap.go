// internal/heatmap/heatmap.go
// Package heatmap renders a pseudo-attention overlay for a blood-cell image.
// Brightness stands in for model attention: bright pixels are pushed toward
// red, mid-tones toward yellow, dark pixels toward blue. The overlay is then
// multiplicatively blended over the source at a configurable opacity.
//
// The result is illustrative only. It is derived from pixel intensity, not
// from any model gradients or activations, and must be presented as such.
package heatmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/util"
)

// DefaultOpacity is the blend strength used when the caller does not choose one.
const DefaultOpacity = 70

// Intensity cutoffs between the blue, yellow and red bands.
const (
	hotThreshold  = 150
	warmThreshold = 100
)

// ErrBadOpacity is returned for opacities outside 0..100.
var ErrBadOpacity = errors.New("heatmap: opacity must be between 0 and 100")

// Decode parses PNG, JPEG or GIF image bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("heatmap: decoding image: %w", err)
	}
	return img, nil
}

// Render builds the pseudo-attention overlay. Each pixel is classified by its
// mean channel intensity and tinted accordingly.
func Render(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, ca := src.At(x, y).RGBA()
			r := int(cr >> 8)
			g := int(cg >> 8)
			b := int(cb >> 8)

			intensity := (r + g + b) / 3
			switch {
			case intensity > hotThreshold:
				// likely parasite region: hot red
				r += 100
				g -= 50
				b -= 50
			case intensity > warmThreshold:
				// mid activation: yellow
				r += 50
				g += 50
				b -= 30
			default:
				// low activation: blue
				r -= 30
				g -= 30
				b += 50
			}

			i := out.PixOffset(x, y)
			out.Pix[i+0] = util.Clamp8(r)
			out.Pix[i+1] = util.Clamp8(g)
			out.Pix[i+2] = util.Clamp8(b)
			out.Pix[i+3] = uint8(ca >> 8)
		}
	}
	return out
}

// Composite blends the overlay onto the source. At opacity 0 the source is
// returned unchanged; at 100 every pixel is fully multiplied by the overlay.
func Composite(src image.Image, overlay *image.RGBA, opacity int) (*image.RGBA, error) {
	if opacity < 0 || opacity > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrBadOpacity, opacity)
	}

	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	alpha := float64(opacity) / 100

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, ca := src.At(x, y).RGBA()
			sr := float64(cr >> 8)
			sg := float64(cg >> 8)
			sb := float64(cb >> 8)

			i := overlay.PixOffset(x, y)
			or := float64(overlay.Pix[i+0])
			og := float64(overlay.Pix[i+1])
			ob := float64(overlay.Pix[i+2])

			j := out.PixOffset(x, y)
			out.Pix[j+0] = util.Clamp8(int(sr*(1-alpha) + sr*or/255*alpha))
			out.Pix[j+1] = util.Clamp8(int(sg*(1-alpha) + sg*og/255*alpha))
			out.Pix[j+2] = util.Clamp8(int(sb*(1-alpha) + sb*ob/255*alpha))
			out.Pix[j+3] = uint8(ca >> 8)
		}
	}
	return out, nil
}

// Apply renders the overlay and composites it in one step.
func Apply(src image.Image, opacity int) (*image.RGBA, error) {
	return Composite(src, Render(src), opacity)
}

// WritePNG encodes the image to path.
func WritePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("heatmap: encoding %s: %w", path, err)
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("heatmap: writing %s: %w", path, err)
	}
	return nil
}

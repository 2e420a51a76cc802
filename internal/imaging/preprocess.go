package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxUpscale bounds how far Preprocess enlarges small photos.
const maxUpscale = 4

// lightnessSamples is the number of grid points per axis MeanLightness reads.
const lightnessSamples = 64

// PreprocessOptions controls the preparation of a label photo for OCR.
type PreprocessOptions struct {
	// MinHeight upscales images shorter than this many pixels (0 disables).
	MinHeight int

	// DarkThreshold inverts the image when its mean CIE L* lightness
	// (0..1) is below this value, turning light-on-dark print into dark-on-light.
	// 0 disables inversion.
	DarkThreshold float64

	// Sharpen applies a 3x3 sharpening kernel after grayscale conversion.
	Sharpen bool
}

// PreprocessReport describes what Preprocess did to an image.
type PreprocessReport struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Upscaled  bool    `json:"upscaled"`
	Inverted  bool    `json:"inverted"`
	Sharpened bool    `json:"sharpened"`
	Lightness float64 `json:"lightness"`
}

// Preprocess converts a label photo into the grayscale image handed to OCR.
//
// The steps run in a fixed order: optional upscale (Lanczos), grayscale,
// optional inversion for dark packaging, optional sharpening.
func Preprocess(img image.Image, opts PreprocessOptions) (image.Image, PreprocessReport) {
	var report PreprocessReport

	if h := img.Bounds().Dy(); opts.MinHeight > 0 && h > 0 && h < opts.MinHeight {
		target := opts.MinHeight
		if target > h*maxUpscale {
			target = h * maxUpscale
		}
		img = imaging.Resize(img, 0, target, imaging.Lanczos)
		report.Upscaled = true
	}

	var out image.Image = effect.Grayscale(img)

	report.Lightness = MeanLightness(out)
	if opts.DarkThreshold > 0 && report.Lightness < opts.DarkThreshold {
		out = effect.Invert(out)
		report.Inverted = true
	}

	if opts.Sharpen {
		out = effect.Sharpen(out)
		report.Sharpened = true
	}

	b := out.Bounds()
	report.Width, report.Height = b.Dx(), b.Dy()
	return out, report
}

// MeanLightness returns the average CIE L* lightness (0 = black, 1 = white)
// over a sample grid of the image. Fully transparent pixels are ignored; an
// image with nothing to sample reports 1.
func MeanLightness(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 1
	}

	stepX := max(1, b.Dx()/lightnessSamples)
	stepY := max(1, b.Dy()/lightnessSamples)

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += stepY {
		for x := b.Min.X; x < b.Max.X; x += stepX {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Options controls how oversized uploads are reduced.
type Options struct {
	MaxBytes     int
	MaxDimension int
	StartQuality int
	MinQuality   int
	QualityStep  int
}

// DefaultOptions matches the vision providers' payload limits.
func DefaultOptions() Options {
	return Options{
		MaxBytes:     4 * 1024 * 1024,
		MaxDimension: 1920,
		StartQuality: 85,
		MinQuality:   20,
		QualityStep:  10,
	}
}

// DecodeError is returned when the upload cannot be interpreted as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Result describes what Prepare did to an upload.
type Result struct {
	Data          []byte
	OriginalBytes int
	Recompressed  bool
	Format        string
	Width         int
	Height        int
	Quality       int
	WithinBudget  bool
}

// Preparer shrinks images until they fit a byte budget.
type Preparer struct {
	opts Options
}

// NewPreparer fills zero-valued options from DefaultOptions.
func NewPreparer(opts Options) *Preparer {
	def := DefaultOptions()
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = def.MaxDimension
	}
	if opts.StartQuality <= 0 || opts.StartQuality > 100 {
		opts.StartQuality = def.StartQuality
	}
	if opts.MinQuality <= 0 {
		opts.MinQuality = def.MinQuality
	}
	if opts.MinQuality > opts.StartQuality {
		opts.MinQuality = opts.StartQuality
	}
	if opts.QualityStep <= 0 {
		opts.QualityStep = def.QualityStep
	}
	return &Preparer{opts: opts}
}

// Options returns the effective options.
func (p *Preparer) Options() Options {
	return p.opts
}

// Prepare returns data unchanged when it already fits the budget. Otherwise
// the image is downscaled, flattened, oriented and re-encoded as JPEG at
// decreasing quality. When even the minimum quality exceeds the budget the
// smallest encoding is returned.
func (p *Preparer) Prepare(data []byte) (*Result, error) {
	if len(data) <= p.opts.MaxBytes {
		return &Result{
			Data:          data,
			OriginalBytes: len(data),
			WithinBudget:  true,
		}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	// Longest side is unchanged by rotation, so shrink before the pixel work.
	img = p.downscale(img)
	if needsFlatten(img) {
		img = flatten(img)
	}
	orientation := readOrientation(data)
	if orientation != 1 {
		img = applyOrientation(img, orientation)
	}

	bounds := img.Bounds()
	result := &Result{
		OriginalBytes: len(data),
		Recompressed:  true,
		Format:        format,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
	}

	var buf bytes.Buffer
	for quality := p.opts.StartQuality; quality >= p.opts.MinQuality; quality -= p.opts.QualityStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		result.Quality = quality
		if buf.Len() <= p.opts.MaxBytes {
			result.WithinBudget = true
			break
		}
	}
	result.Data = append([]byte(nil), buf.Bytes()...)

	logrus.WithFields(logrus.Fields{
		"original_bytes": len(data),
		"prepared_bytes": len(result.Data),
		"format":         format,
		"width":          result.Width,
		"height":         result.Height,
		"quality":        result.Quality,
		"orientation":    orientation,
		"within_budget":  result.WithinBudget,
	}).Info("image recompressed")

	return result, nil
}

func (p *Preparer) downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	longest := width
	if height > longest {
		longest = height
	}
	if longest <= p.opts.MaxDimension {
		return img
	}

	scale := float64(p.opts.MaxDimension) / float64(longest)
	newWidth := int(float64(width)*scale + 0.5)
	newHeight := int(float64(height)*scale + 0.5)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	if newWidth > p.opts.MaxDimension {
		newWidth = p.opts.MaxDimension
	}
	if newHeight > p.opts.MaxDimension {
		newHeight = p.opts.MaxDimension
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func needsFlatten(img image.Image) bool {
	if _, ok := img.(*image.Paletted); ok {
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}

// flatten composites img over opaque white. Transparency is lost.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"
)

func noiseImage(width, height int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestPrepareWithinBudgetIsPassthrough(t *testing.T) {
	data := encodePNG(t, noiseImage(32, 32, 1))
	p := NewPreparer(Options{MaxBytes: len(data)})

	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatal("expected byte-identical output")
	}
	if result.Recompressed {
		t.Fatal("expected no recompression")
	}
	if !result.WithinBudget {
		t.Fatal("expected within budget")
	}
}

func TestPrepareDownscalesLongSide(t *testing.T) {
	data := encodePNG(t, noiseImage(2400, 1200, 2))
	p := NewPreparer(Options{MaxBytes: 256 * 1024})

	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	img, format, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode prepared: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg got %s", format)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 1920 {
		t.Fatalf("expected width 1920 got %d", bounds.Dx())
	}
	if bounds.Dy() != 960 {
		t.Fatalf("expected height 960 got %d", bounds.Dy())
	}
	if result.Width != 1920 || result.Height != 960 {
		t.Fatalf("expected result dims 1920x960 got %dx%d", result.Width, result.Height)
	}
}

func TestPrepareStopsAtQualityFloor(t *testing.T) {
	data := encodePNG(t, noiseImage(200, 200, 3))
	p := NewPreparer(Options{MaxBytes: 100})

	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatal("expected best-effort output")
	}
	if result.WithinBudget {
		t.Fatal("100 byte budget should not be reachable")
	}
	if result.Quality != 25 {
		t.Fatalf("expected final quality 25 got %d", result.Quality)
	}
	if result.Quality < p.Options().MinQuality {
		t.Fatalf("quality %d below floor", result.Quality)
	}
}

func TestPrepareStopsAtFirstFittingQuality(t *testing.T) {
	src := noiseImage(128, 128, 5)
	data := encodePNG(t, src)

	var first bytes.Buffer
	if err := jpeg.Encode(&first, src, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if len(data) <= first.Len() {
		t.Fatalf("setup: png %d bytes not larger than jpeg %d bytes", len(data), first.Len())
	}
	p := NewPreparer(Options{MaxBytes: first.Len()})

	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if !result.WithinBudget {
		t.Fatal("expected first encoding to fit")
	}
	if result.Quality != 85 {
		t.Fatalf("expected first quality step 85 got %d", result.Quality)
	}
	if !bytes.Equal(result.Data, first.Bytes()) {
		t.Fatal("expected output to equal the quality 85 encoding")
	}
}

func TestPrepareFlattensTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	data := encodePNG(t, src)
	p := NewPreparer(Options{MaxBytes: 10})

	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	r, g, b, _ := img.At(32, 32).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Fatalf("expected white background got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestPrepareFlattensPalette(t *testing.T) {
	palette := color.Palette{color.Transparent, color.RGBA{R: 200, A: 255}}
	src := image.NewPaletted(image.Rect(0, 0, 40, 40), palette)
	for x := 0; x < 20; x++ {
		for y := 0; y < 40; y++ {
			src.SetColorIndex(x, y, 1)
		}
	}
	data := encodePNG(t, src)
	p := NewPreparer(Options{MaxBytes: 10})

	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	r, g, b, _ := img.At(35, 20).RGBA()
	if r>>8 < 230 || g>>8 < 230 || b>>8 < 230 {
		t.Fatalf("expected transparent palette entry to become white got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestPrepareDecodeError(t *testing.T) {
	p := NewPreparer(Options{MaxBytes: 4})
	_, err := p.Prepare([]byte("definitely not an image"))
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError got %v", err)
	}
}

func TestNewPreparerDefaults(t *testing.T) {
	opts := NewPreparer(Options{}).Options()
	if opts != DefaultOptions() {
		t.Fatalf("expected defaults got %+v", opts)
	}
	clamped := NewPreparer(Options{StartQuality: 50, MinQuality: 70}).Options()
	if clamped.MinQuality != 50 {
		t.Fatalf("expected min quality clamped to 50 got %d", clamped.MinQuality)
	}
}

func TestApplyOrientation(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	marker := color.RGBA{R: 255, A: 255}
	src.Set(0, 0, marker)

	tests := []struct {
		orientation int
		width       int
		height      int
		x, y        int
	}{
		{1, 3, 2, 0, 0},
		{2, 3, 2, 2, 0},
		{3, 3, 2, 2, 1},
		{4, 3, 2, 0, 1},
		{5, 2, 3, 0, 0},
		{6, 2, 3, 1, 0},
		{7, 2, 3, 1, 2},
		{8, 2, 3, 0, 2},
	}

	for _, tc := range tests {
		out := applyOrientation(src, tc.orientation)
		b := out.Bounds()
		if b.Dx() != tc.width || b.Dy() != tc.height {
			t.Fatalf("orientation %d: expected %dx%d got %dx%d", tc.orientation, tc.width, tc.height, b.Dx(), b.Dy())
		}
		r, _, _, _ := out.At(tc.x, tc.y).RGBA()
		if r>>8 != 255 {
			t.Fatalf("orientation %d: expected marker at %d,%d", tc.orientation, tc.x, tc.y)
		}
	}
}

func TestReadOrientationWithoutExif(t *testing.T) {
	data := encodePNG(t, noiseImage(4, 4, 4))
	if got := readOrientation(data); got != 1 {
		t.Fatalf("expected 1 got %d", got)
	}
}

// withOrientation splices a minimal little-endian EXIF APP1 segment carrying
// only the orientation tag directly after the JPEG SOI marker.
func withOrientation(t *testing.T, data []byte, orientation uint16) []byte {
	t.Helper()
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Fatalf("expected JPEG input")
	}
	tiff := []byte{
		'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x12, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, byte(orientation), byte(orientation >> 8), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	length := len(payload) + 2
	segment := append([]byte{0xFF, 0xE1, byte(length >> 8), byte(length)}, payload...)

	out := append([]byte{}, data[:2]...)
	out = append(out, segment...)
	return append(out, data[2:]...)
}

func TestPrepareRotatesAfterDownscale(t *testing.T) {
	// Left half red, right half blue. Orientation 6 turns the left half into the top half.
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 400; x++ {
			c := color.RGBA{B: 255, A: 255}
			if x < 200 {
				c = color.RGBA{R: 255, A: 255}
			}
			src.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := withOrientation(t, buf.Bytes(), 6)
	if got := readOrientation(data); got != 6 {
		t.Fatalf("expected orientation 6 in fixture got %d", got)
	}

	p := NewPreparer(Options{MaxBytes: len(data) - 1, MaxDimension: 100})
	result, err := p.Prepare(data)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if result.Width != 50 || result.Height != 100 {
		t.Fatalf("expected 50x100 got %dx%d", result.Width, result.Height)
	}

	out, err := jpeg.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 50 || b.Dy() != 100 {
		t.Fatalf("expected encoded 50x100 got %dx%d", b.Dx(), b.Dy())
	}
	top := color.RGBAModel.Convert(out.At(25, 20)).(color.RGBA)
	bottom := color.RGBAModel.Convert(out.At(25, 80)).(color.RGBA)
	if top.R < 200 || top.B > 60 {
		t.Fatalf("expected red top half got %+v", top)
	}
	if bottom.B < 200 || bottom.R > 60 {
		t.Fatalf("expected blue bottom half got %+v", bottom)
	}
}

func TestApplyOrientationConvertsNonRGBA(t *testing.T) {
	src := image.NewYCbCr(image.Rect(10, 10, 70, 50), image.YCbCrSubsampleRatio420)
	out := applyOrientation(src, 8)
	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 60 {
		t.Fatalf("expected 40x60 got %dx%d", b.Dx(), b.Dy())
	}
	if got := applyOrientation(src, 1); got != image.Image(src) {
		t.Fatalf("expected orientation 1 to return the input")
	}
}

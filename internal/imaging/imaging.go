package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ErrUnsupportedFormat is returned for input that is not a JPEG or PNG image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ProcessResult contains the processed image data.
type ProcessResult struct {
	Data []byte
	MIME string
}

// Process reads image data, validates the format by sniffing bytes,
// downscales if larger than MaxDimension, and re-encodes as JPEG.
func Process(r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Client headers are not trusted.
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupportedFormat, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", ErrUnsupportedFormat, err)
	}

	return encodeJPEG(downscale(img, MaxDimension))
}

// Placeholder renders the default item image: a cardboard box on a light
// background, size pixels square, encoded as JPEG.
func Placeholder(size int) (*ProcessResult, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid placeholder size %d", size)
	}

	// Drawn at a fixed base resolution and scaled to the requested size.
	const base = 64
	src := image.NewRGBA(image.Rect(0, 0, base, base))
	background := color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	cardboard := color.RGBA{0xc8, 0x9b, 0x62, 0xff}
	lid := color.RGBA{0xa8, 0x7c, 0x46, 0xff}
	tape := color.RGBA{0xe8, 0xd8, 0xa8, 0xff}

	draw.Draw(src, src.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(12, 20, 52, 52), &image.Uniform{cardboard}, image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(10, 14, 54, 22), &image.Uniform{lid}, image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(29, 14, 35, 52), &image.Uniform{tape}, image.Point{}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return encodeJPEG(dst)
}

func encodeJPEG(img image.Image) (*ProcessResult, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &ProcessResult{
		Data: buf.Bytes(),
		MIME: "image/jpeg",
	}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}

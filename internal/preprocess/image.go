package preprocess

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type Mode string

const (
	// Fit scales the image to fit inside Width x Height keeping its aspect
	// ratio, so one side may come out shorter than requested.
	Fit Mode = "fit"
	// Exact stretches the image to exactly Width x Height.
	Exact Mode = "exact"
)

const channels = 3

type Options struct {
	Width  int
	Height int
	Mode   Mode
}

func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid target size %dx%d", o.Width, o.Height)
	}
	if o.Mode != Fit && o.Mode != Exact {
		return fmt.Errorf("unknown resize mode %q", o.Mode)
	}
	return nil
}

// LoadTensor opens the image at path and converts it into the model's input
// tensor. Any open or decode failure is reported as model.ErrImageLoad.
func LoadTensor(path string, opts Options) (model.Tensor, error) {
	if err := opts.Validate(); err != nil {
		return model.Tensor{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return model.Tensor{}, fmt.Errorf("%w: %v", model.ErrImageLoad, err)
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return model.Tensor{}, err
	}

	log.Debug().
		Str("path", path).
		Str("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("decoded image")

	return ToTensor(img, opts), nil
}

func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", model.ErrImageLoad, err)
	}
	return img, format, nil
}

// ToTensor resizes img with a bilinear (triangle) filter and scales every
// RGB byte v to v/127.5 - 1. Gray images are expanded to three equal
// channels. Alpha is dropped, but the resampler works on premultiplied
// color: once the image is actually rescaled, fully transparent pixels come
// out black whatever RGB they stored. An image already at the target size
// is not resampled and keeps its stored RGB.
func ToTensor(img image.Image, opts Options) model.Tensor {
	width, height := opts.Width, opts.Height
	if opts.Mode == Fit {
		width, height = fitDimensions(img.Bounds().Dx(), img.Bounds().Dy(), opts.Width, opts.Height)
	}

	resized := resize.Resize(uint(width), uint(height), img, resize.Bilinear)

	bounds := resized.Bounds()
	width, height = bounds.Dx(), bounds.Dy()

	data := make([]float32, channels*width*height)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(resized.At(x, y)).(color.NRGBA)
			data[i] = normalize(c.R)
			data[i+1] = normalize(c.G)
			data[i+2] = normalize(c.B)
			i += channels
		}
	}

	log.Debug().
		Int("width", width).
		Int("height", height).
		Int("values", len(data)).
		Msg("preprocessed image")

	return model.Tensor{
		Data:     data,
		Height:   height,
		Width:    width,
		Channels: channels,
	}
}

func normalize(v uint8) float32 {
	return float32(v)/127.5 - 1.0
}

// fitDimensions returns the largest size with the source aspect ratio that
// fits inside maxW x maxH. Small images are scaled up.
func fitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return maxW, maxH
	}

	wRatio := float64(maxW) / float64(srcW)
	hRatio := float64(maxH) / float64(srcH)
	ratio := math.Min(wRatio, hRatio)

	w := int(math.Max(math.Round(float64(srcW)*ratio), 1))
	h := int(math.Max(math.Round(float64(srcH)*ratio), 1))
	return min(w, maxW), min(h, maxH)
}

package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brownie44l1/densenet-classify/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

func square(size int) Options {
	return Options{Width: size, Height: size, Mode: Exact}
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.png")
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x + y), A: 255})
		}
	}
	return img
}

// TestLoadTensor_Black verifies an all-black image maps to -1 everywhere.
func TestLoadTensor_Black(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 224, 224))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	path := writePNG(t, img)

	tensor, err := LoadTensor(path, square(224))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 224, 224, 3}, tensor.Shape())
	require.Len(t, tensor.Data, 224*224*3)
	for i, v := range tensor.Data {
		require.Equal(t, float32(-1), v, "value %d", i)
	}
}

// TestToTensor_Layout verifies row-major pixels with interleaved RGB.
func TestToTensor_Layout(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.NRGBA{R: 0, G: 0, B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	tensor := ToTensor(img, square(2))
	want := []float32{
		-1, 1, -1,
		1, -1, -1,
		-1, -1, 1,
		1, 1, 1,
	}
	assert.Equal(t, want, tensor.Data)
}

func TestToTensor_Range(t *testing.T) {
	tensor := ToTensor(gradient(97, 61), square(32))
	require.Len(t, tensor.Data, 32*32*3)
	for i, v := range tensor.Data {
		require.GreaterOrEqual(t, v, float32(-1), "value %d", i)
		require.LessOrEqual(t, v, float32(1), "value %d", i)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, float32(-1), normalize(0))
	assert.Equal(t, float32(1), normalize(255))
	assert.InDelta(t, 0.0039, normalize(128), 1e-3)
}

// TestToTensor_Deterministic verifies identical input yields identical output.
func TestToTensor_Deterministic(t *testing.T) {
	path := writePNG(t, gradient(300, 200))

	first, err := LoadTensor(path, square(224))
	require.NoError(t, err)
	second, err := LoadTensor(path, square(224))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestToTensor_GrayExpandsChannels(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 51
	}

	tensor := ToTensor(img, square(4))
	for i := 0; i < len(tensor.Data); i += 3 {
		assert.Equal(t, tensor.Data[i], tensor.Data[i+1])
		assert.Equal(t, tensor.Data[i], tensor.Data[i+2])
	}
	assert.InDelta(t, 51/127.5-1, tensor.Data[0], 1e-6)
}

func TestToTensor_FitKeepsAspectRatio(t *testing.T) {
	tensor := ToTensor(gradient(400, 200), Options{Width: 224, Height: 224, Mode: Fit})
	assert.Equal(t, 224, tensor.Width)
	assert.Equal(t, 112, tensor.Height)
	assert.Len(t, tensor.Data, 224*112*3)
}

func TestToTensor_ExactIgnoresAspectRatio(t *testing.T) {
	tensor := ToTensor(gradient(400, 200), square(224))
	assert.Equal(t, 224, tensor.Width)
	assert.Equal(t, 224, tensor.Height)
}

func TestFitDimensions(t *testing.T) {
	testCases := []struct {
		srcW, srcH int
		wantW      int
		wantH      int
	}{
		{224, 224, 224, 224},
		{1000, 500, 224, 112},
		{300, 600, 112, 224},
		{50, 50, 224, 224},
		{10000, 1, 224, 1},
	}

	for _, tc := range testCases {
		w, h := fitDimensions(tc.srcW, tc.srcH, 224, 224)
		assert.Equal(t, tc.wantW, w, "%dx%d", tc.srcW, tc.srcH)
		assert.Equal(t, tc.wantH, h, "%dx%d", tc.srcW, tc.srcH)
	}
}

func TestLoadTensor_MissingFile(t *testing.T) {
	_, err := LoadTensor(filepath.Join(t.TempDir(), "missing.png"), square(224))
	assert.ErrorIs(t, err, model.ErrImageLoad)
}

func TestLoadTensor_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0o644))

	_, err := LoadTensor(path, square(224))
	assert.ErrorIs(t, err, model.ErrImageLoad)
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, square(224).Validate())
	assert.Error(t, Options{Width: 0, Height: 224, Mode: Exact}.Validate())
	assert.Error(t, Options{Width: 224, Height: 224, Mode: "crop"}.Validate())
}

// TestToTensor_TransparentPixels pins how alpha is dropped: resampling
// premultiplies, so transparent pixels lose their stored color.
func TestToTensor_TransparentPixels(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 128, B: 0, A: 0})
		}
	}

	resampled := ToTensor(img, square(2))
	for i, v := range resampled.Data {
		assert.Equal(t, float32(-1), v, "value %d", i)
	}

	same := ToTensor(img, square(4))
	assert.Equal(t, float32(1), same.Data[0])
	assert.Equal(t, normalize(128), same.Data[1])
	assert.Equal(t, float32(-1), same.Data[2])
}

// TestToTensor_FitScalesUp verifies small images grow to fill the target.
func TestToTensor_FitScalesUp(t *testing.T) {
	tensor := ToTensor(gradient(50, 100), Options{Width: 224, Height: 224, Mode: Fit})
	assert.Equal(t, 112, tensor.Width)
	assert.Equal(t, 224, tensor.Height)
	assert.Len(t, tensor.Data, 112*224*3)
}

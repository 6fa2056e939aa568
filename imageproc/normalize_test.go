package imageproc

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeStaged(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	return img
}

func TestNormalize_WritesJPEG(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input_test.jpg")

	err := Normalize(bytes.NewReader(encodePNG(t, 64, 48)), dest)
	require.NoError(t, err)

	img := decodeStaged(t, dest)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestNormalize_DownscalesLargeImages(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input_test.jpg")

	err := Normalize(bytes.NewReader(encodePNG(t, 2048, 1024)), dest)
	require.NoError(t, err)

	img := decodeStaged(t, dest)
	assert.Equal(t, maxImageDimension, img.Bounds().Dx())
	assert.Equal(t, maxImageDimension/2, img.Bounds().Dy())
}

func TestNormalize_ExtremeAspectRatioKeepsBothDimensions(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input_test.jpg")

	err := Normalize(bytes.NewReader(encodePNG(t, 4000, 1)), dest)
	require.NoError(t, err)

	img := decodeStaged(t, dest)
	assert.Equal(t, maxImageDimension, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestNormalize_RejectsUndecodableData(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "input_test.jpg")

	err := Normalize(bytes.NewReader([]byte("not an image")), dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApplyOrientation_Rotate90SwapsDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))

	got := applyOrientation(img, 6)

	assert.Equal(t, 2, got.Bounds().Dx())
	assert.Equal(t, 4, got.Bounds().Dy())
}

func TestApplyOrientation_UprightIsUntouched(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))

	assert.Equal(t, img, applyOrientation(img, 1))
}

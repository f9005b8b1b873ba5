package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = []string{"image/jpeg", "image/png", "image/gif"}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessAvatar_DownscalesKeepingAspect(t *testing.T) {
	p := NewProcessor(85, 5<<20, allowed)

	res, err := p.ProcessAvatar(encodePNG(t, 600, 300), 300)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, ".png", res.Extension)
	assert.Equal(t, 300, res.Width)
	assert.Equal(t, 150, res.Height)

	decoded, err := png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
}

func TestProcessAvatar_SmallImageNotUpscaled(t *testing.T) {
	p := NewProcessor(85, 5<<20, allowed)

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	res, err := p.ProcessAvatar(buf.Bytes(), 300)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 20, res.Height)
}

func TestDetectType(t *testing.T) {
	p := NewProcessor(85, 64, allowed)

	_, err := p.DetectType([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = p.DetectType(bytes.Repeat([]byte{0}, 65))
	assert.ErrorIs(t, err, ErrTooLarge)
}

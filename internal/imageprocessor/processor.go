package imageprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // регистрация декодера GIF
	"image/jpeg"
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

var (
	ErrTooLarge        = errors.New("image exceeds the maximum size")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// Result - обработанное изображение
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// Processor handles image processing operations
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxSize      int64
	allowedTypes map[string]struct{}
}

// NewProcessor creates a new image processor
func NewProcessor(quality int, maxSize int64, allowedTypes []string) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85 // Default quality
	}
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = struct{}{}
	}
	return &Processor{
		quality:      quality,
		maxSize:      maxSize,
		allowedTypes: allowed,
	}
}

// DetectType определяет MIME-тип по содержимому и проверяет его по списку разрешенных
func (p *Processor) DetectType(data []byte) (string, error) {
	if p.maxSize > 0 && int64(len(data)) > p.maxSize {
		return "", ErrTooLarge
	}
	mime := mimetype.Detect(data).String()
	if _, ok := p.allowedTypes[mime]; !ok {
		return mime, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
	return mime, nil
}

// ProcessAvatar вписывает изображение в квадрат size x size без увеличения.
// JPEG остается JPEG, остальные форматы кодируются в PNG.
func (p *Processor) ProcessAvatar(data []byte, size int) (*Result, error) {
	mime, err := p.DetectType(data)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img, size, size)

	var buf bytes.Buffer
	res := &Result{Width: resized.Bounds().Dx(), Height: resized.Bounds().Dy()}
	if mime == "image/jpeg" {
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.ContentType, res.Extension = "image/jpeg", ".jpg"
	} else {
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.ContentType, res.Extension = "image/png", ".png"
	}
	res.Data = buf.Bytes()
	return res, nil
}

// resize уменьшает изображение с сохранением пропорций; меньшие не увеличиваются
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if maxWidth <= 0 || maxHeight <= 0 || (width <= maxWidth && height <= maxHeight) {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

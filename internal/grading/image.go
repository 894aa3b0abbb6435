package grading

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNoFile means no image was chosen. Callers ignore it silently.
	ErrNoFile = errors.New("grading: no file selected")
	// ErrNotImage means the chosen file is not a recognised image.
	ErrNotImage = errors.New("grading: file is not an image")
)

// Image is an essay photo ready for upload.
type Image struct {
	Name     string
	Data     []byte
	MIMEType string
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// LoadImage reads path and sniffs its content type. An empty path yields
// ErrNoFile.
func LoadImage(path string) (Image, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Image{}, ErrNoFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("grading: read image: %w", err)
	}
	return NewImage(path, data)
}

// NewImage wraps raw bytes, rejecting anything that is not an image.
func NewImage(name string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %s is empty", ErrNotImage, name)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: %s is %s", ErrNotImage, name, mt.String())
	}
	return Image{Name: name, Data: data, MIMEType: mt.String()}, nil
}

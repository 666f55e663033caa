package client

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes caps the poster file read by EncodeImageFile.
const MaxImageBytes = 5 << 20

// EncodeImageFile reads an image file and returns it as a base64 data URI.
// The media type is detected from the content, not the file name.
func EncodeImageFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return "", apperr.Validation("image is too large", map[string]string{"image": "must be at most 5 MiB"})
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return EncodeImage(data)
}

// EncodeImage returns data as a base64 data URI. Content that is not an image
// is rejected.
func EncodeImage(data []byte) (string, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", apperr.Validation("file is not an image", map[string]string{"image": "unsupported type " + mt.String()})
	}

	// Detected types may carry parameters such as charset.
	mediaType, _, _ := strings.Cut(mt.String(), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

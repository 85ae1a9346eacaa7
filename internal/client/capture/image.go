// Package capture turns camera frames and uploaded files into one shape: a
// base64 payload with a MIME type sniffed from the bytes themselves.
package capture

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Image is an encoded still ready to send to the AI service.
type Image struct {
	Base64   string
	MIMEType string
}

// Encode detects the MIME type from data and base64-encodes it.
// File names and extensions are never consulted.
func Encode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Image{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	return Image{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: mt.String(),
	}, nil
}

// FromReader reads r fully and encodes it.
func FromReader(r io.Reader) (Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	return Encode(data)
}

// FromFile is the upload path: it loads one user-selected file.
func FromFile(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	return Encode(data)
}

// FromDataURL parses a "data:<mime>;base64,<payload>" preview string. The MIME
// type is re-detected from the decoded payload.
func FromDataURL(s string) (Image, error) {
	_, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(s, "data:") {
		return Image{}, fmt.Errorf("%w: not a data URL", ErrNotImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("decode data URL: %w", err)
	}
	return Encode(data)
}

// Bytes decodes the payload.
func (i Image) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Base64)
}

// DataURL renders the image as a preview string, the form stored in history
// entries and profile pictures.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64
}

// IsZero reports whether no image has been captured.
func (i Image) IsZero() bool {
	return i.Base64 == ""
}

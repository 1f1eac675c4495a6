package storage

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrInvalidDataURI   = errors.New("image must be a base64 data URI")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrEmptyImage       = errors.New("image is empty")
)

// allowedImageTypes are the content types accepted for recipe images.
var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Image is a decoded upload ready to be handed to a BlobStore.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeDataURI decodes "data:<type>;base64,<payload>". The declared type is
// ignored; the content type is sniffed from the payload itself.
func DecodeDataURI(uri string) (*Image, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, ErrInvalidDataURI
	}
	header, payload, found := strings.Cut(uri[len("data:"):], ",")
	if !found || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, ErrInvalidDataURI
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	mtype := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return &Image{Data: data, ContentType: allowed, Extension: mtype.Extension()}, nil
		}
	}
	return nil, ErrUnsupportedImage
}

// NewObjectKey returns a fresh key under the recipe image prefix.
func NewObjectKey(ext string) string {
	return "recipes/images/" + uuid.NewString() + ext
}

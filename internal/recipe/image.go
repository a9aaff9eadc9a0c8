package recipe

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	dataURIPrefix   = "data:image/"
	magicNumberSeek = 512
)

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrNotDataURI          = errors.New("expected a base64 data URI")
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
)

type Image struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// DecodeImage decodes an inline image of the form
// "data:image/<format>;base64,<payload>". The payload's actual content type
// is sniffed and checked against the allowlist; the declared format is not
// trusted.
func DecodeImage(uri string) (*Image, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return nil, ErrNotDataURI
	}

	_, payload, found := strings.Cut(uri, ";base64,")
	if !found {
		return nil, ErrNotDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", errors.Join(ErrNotDataURI, err))
	}

	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &Image{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}

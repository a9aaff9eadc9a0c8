package recipe

import (
	"encoding/base64"
	"errors"
	"testing"
)

var (
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	gifHeader  = []byte("GIF89a")
)

func dataURI(declared string, payload []byte) string {
	return "data:image/" + declared + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantErr    error
		wantMime   string
		wantSuffix string
	}{
		{
			name:       "png",
			uri:        dataURI("png", pngHeader),
			wantMime:   "image/png",
			wantSuffix: ".png",
		},
		{
			name:       "jpeg",
			uri:        dataURI("jpeg", jpegHeader),
			wantMime:   "image/jpeg",
			wantSuffix: ".jpg",
		},
		{
			name:       "gif",
			uri:        dataURI("gif", gifHeader),
			wantMime:   "image/gif",
			wantSuffix: ".gif",
		},
		{
			name:       "declared format is not trusted",
			uri:        dataURI("jpeg", pngHeader),
			wantMime:   "image/png",
			wantSuffix: ".png",
		},
		{
			name:    "missing data prefix",
			uri:     base64.StdEncoding.EncodeToString(pngHeader),
			wantErr: ErrNotDataURI,
		},
		{
			name:    "missing base64 marker",
			uri:     "data:image/png," + base64.StdEncoding.EncodeToString(pngHeader),
			wantErr: ErrNotDataURI,
		},
		{
			name:    "payload is not an image",
			uri:     dataURI("png", []byte("just some text, nothing more")),
			wantErr: ErrUnsupportedMimeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.uri)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeImage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeImage() error = %v", err)
			}
			if img.MimeType != tt.wantMime {
				t.Errorf("MimeType = %q, want %q", img.MimeType, tt.wantMime)
			}
			if img.Suffix != tt.wantSuffix {
				t.Errorf("Suffix = %q, want %q", img.Suffix, tt.wantSuffix)
			}
			if img.Size != int64(len(img.Data)) {
				t.Errorf("Size = %d, want %d", img.Size, len(img.Data))
			}
		})
	}
}

func TestDecodeImage_InvalidBase64(t *testing.T) {
	_, err := DecodeImage("data:image/png;base64,!!!not-base64!!!")
	if err == nil {
		t.Fatal("expected error for invalid base64 payload")
	}
	// Corrupt payloads are a client error, same as a malformed URI.
	if !errors.Is(err, ErrNotDataURI) {
		t.Errorf("err = %v, want ErrNotDataURI", err)
	}
}

package model

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUpload(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	tests := []struct {
		name     string
		declared string
		data     []byte
		wantMIME string
		wantErr  error
	}{
		{"declared pdf", "application/pdf", pdf, "application/pdf", nil},
		{"declared with params", "image/JPEG; charset=binary", []byte{0xff, 0xd8, 0xff}, "image/jpeg", nil},
		{"declared video", "video/mp4", []byte("...."), "video/mp4", nil},
		{"sniffed pdf", "", pdf, "application/pdf", nil},
		{"sniffed png from octet-stream", "application/octet-stream", png, "image/png", nil},
		{"text rejected", "text/plain", []byte("hello"), "text/plain", ErrUnsupportedMedia},
		{"sniffed text rejected", "", []byte("hello world"), "", ErrUnsupportedMedia},
		{"empty", "application/pdf", nil, "application/pdf", ErrEmptyUpload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUpload("f", tt.declared, tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewUpload() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMIME != "" && u.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", u.MIMEType, tt.wantMIME)
			}
		})
	}
}

func TestUploadDataURL(t *testing.T) {
	u := Upload{MIMEType: "image/png", Data: []byte("abc")}
	if u.Base64() != "YWJj" {
		t.Errorf("Base64() = %q", u.Base64())
	}
	if got := u.DataURL(); got != "data:image/png;base64,YWJj" {
		t.Errorf("DataURL() = %q", got)
	}
	if !strings.HasPrefix(u.DataURL(), "data:image/png") || u.Size() != 3 {
		t.Error("unexpected upload helpers")
	}
}

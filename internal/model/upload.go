package model

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrEmptyUpload is returned for a file with no content.
	ErrEmptyUpload = errors.New("uploaded file is empty")
	// ErrUnsupportedMedia is returned for files that are not PDF, image or video.
	ErrUnsupportedMedia = errors.New("unsupported file type: upload a PDF, image or video")
)

// Upload is a study-material file selected for generation.
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

// NewUpload builds an Upload. When the declared type is missing or
// generic, the type is sniffed from the content.
func NewUpload(name, declaredType string, data []byte) (Upload, error) {
	u := Upload{Name: name, MIMEType: normalizeMIME(declaredType), Data: data}
	if len(data) == 0 {
		return u, ErrEmptyUpload
	}
	if u.MIMEType == "" || u.MIMEType == "application/octet-stream" {
		u.MIMEType = normalizeMIME(mimetype.Detect(data).String())
	}
	if !AcceptedMIME(u.MIMEType) {
		return u, ErrUnsupportedMedia
	}
	return u, nil
}

// AcceptedMIME reports whether files of this type can be sent to the model.
func AcceptedMIME(mt string) bool {
	return mt == "application/pdf" || strings.HasPrefix(mt, "image/") || strings.HasPrefix(mt, "video/")
}

// Size returns the file size in bytes.
func (u Upload) Size() int {
	return len(u.Data)
}

// Base64 returns the standard base64 encoding of the file content.
func (u Upload) Base64() string {
	return base64.StdEncoding.EncodeToString(u.Data)
}

// DataURL returns the content as a data: URL.
func (u Upload) DataURL() string {
	return "data:" + u.MIMEType + ";base64," + u.Base64()
}

func normalizeMIME(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pavelanni/quizforge/internal/model"
)

var errNoUpload = errors.New("no file in request")

// readUpload returns the file posted in the "file" field. errNoUpload
// means the form carried no file, which is fine when the session
// already has one.
func readUpload(r *http.Request) (model.Upload, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return model.Upload{}, errNoUpload
	}
	if err != nil {
		return model.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return model.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	up, err := model.NewUpload(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		return up, err
	}
	slog.Info("received study material", "filename", up.Name, "mime", up.MIMEType, "bytes", up.Size())
	return up, nil
}

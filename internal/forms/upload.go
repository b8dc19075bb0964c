// internal/forms/upload.go
package forms

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/codr1/leaguedesk/internal/gateway"
)

const (
	DefaultMaxUploadBytes = 5 << 20

	// ImageInput is the file input name used by every upload form.
	ImageInput = "image_file"
)

var ErrFileTooLarge = errors.New("file too large")

// Upload is a file attached to a draft. Nothing is sent until the draft is
// submitted.
type Upload struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// PreviewURL renders the upload inline as a data URL.
func (u *Upload) PreviewURL() string {
	if u == nil || len(u.Data) == 0 {
		return ""
	}
	return "data:" + u.ContentType + ";base64," + base64.StdEncoding.EncodeToString(u.Data)
}

func (u *Upload) File() gateway.File {
	return gateway.File{Field: u.Field, Name: u.Name, ContentType: u.ContentType, Data: u.Data}
}

func attach(payload *gateway.Payload, upload *Upload) *gateway.Payload {
	if upload != nil && len(upload.Data) > 0 {
		payload.Attach(upload.File())
	}
	return payload
}

// ReadUpload reads the file posted under input and names it field for the
// upstream request. It returns nil when no file was chosen.
func ReadUpload(form *multipart.Form, input, field string, maxBytes int64) (*Upload, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[input]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, nil
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	header := headers[0]
	if header.Size > maxBytes {
		return nil, fmt.Errorf("%s: %w", header.Filename, ErrFileTooLarge)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", input, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", input, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%s: %w", header.Filename, ErrFileTooLarge)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%s is not an image", header.Filename)
	}
	return &Upload{Field: field, Name: header.Filename, ContentType: contentType, Data: data}, nil
}

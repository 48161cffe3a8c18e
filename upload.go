package dispatch

import (
	"fmt"
	"io"
	"mime/multipart"
)

// FileUpload holds one file from a multipart form. Form binds it for
// struct fields of type FileUpload or []FileUpload tagged `form`.
type FileUpload struct {
	Filename string
	Size     int64
	Header   *multipart.FileHeader
	file     multipart.File
}

// Open returns a reader for the uploaded file contents. The caller owns
// closing it.
func (f *FileUpload) Open() (io.ReadCloser, error) {
	if f.file != nil {
		return f.file, nil
	}
	if f.Header == nil {
		return nil, fmt.Errorf("no file header")
	}
	file, err := f.Header.Open()
	if err != nil {
		return nil, err
	}
	f.file = file
	return file, nil
}

func uploadFromHeader(h *multipart.FileHeader) FileUpload {
	return FileUpload{
		Filename: h.Filename,
		Size:     h.Size,
		Header:   h,
	}
}

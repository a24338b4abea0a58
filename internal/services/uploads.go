package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

// AllowedExtensions lists the resume file types accepted from uploads and sources.
var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

func isAllowedFile(name string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(name))]
}

type UploadReader interface {
	// Read never fails the batch: a file that cannot be accepted comes back
	// as a Document with Err set.
	Read(file *multipart.FileHeader) models.Document
}

type uploadReader struct {
	maxFileSize int64
}

func NewUploadReader(maxFileSize int64) UploadReader {
	return &uploadReader{
		maxFileSize: maxFileSize,
	}
}

// Read validates an uploaded file and loads it into memory.
func (u *uploadReader) Read(file *multipart.FileHeader) models.Document {
	name := filepath.Base(file.Filename)

	if !isAllowedFile(file.Filename) {
		return models.Failed(name, fmt.Errorf("%w: %s", ErrInvalidExtension, filepath.Ext(file.Filename)))
	}

	if u.maxFileSize > 0 && file.Size > u.maxFileSize {
		return models.Failed(name, fmt.Errorf("%w: max size %d bytes", ErrFileTooLarge, u.maxFileSize))
	}

	src, err := file.Open()
	if err != nil {
		return models.Failed(name, fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	content, err := readLimited(src, u.maxFileSize)
	if err != nil {
		return models.Failed(name, err)
	}

	return models.Document{
		Name:        name,
		Content:     content,
		ContentType: file.Header.Get("Content-Type"),
	}
}

// readLimited reads r fully, failing with ErrFileTooLarge past limit bytes.
// A non-positive limit disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return content, nil
	}

	content, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("%w: max size %d bytes", ErrFileTooLarge, limit)
	}
	return content, nil
}

// Package storage persists uploaded shift report photos on the local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// shiftReportsSubdir is where shift report photos live under the uploads root.
const shiftReportsSubdir = "shift_reports"

// allowedExtensions is the upload whitelist. Anything else is rejected before
// touching the disk.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// ErrUnsupportedType is returned for uploads outside the image whitelist.
var ErrUnsupportedType = fmt.Errorf("unsupported file type, allowed: jpg, jpeg, png, gif, bmp")

// FileService writes uploads under a configured root directory and hands back
// relative paths suitable for persistence.
type FileService struct {
	root string
}

// NewFileService creates the service and its directory layout.
func NewFileService(root string) (*FileService, error) {
	dir := filepath.Join(root, shiftReportsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir %s: %w", dir, err)
	}
	return &FileService{root: root}, nil
}

// Root returns the uploads root directory.
func (s *FileService) Root() string {
	return s.root
}

// ShiftReportsDir returns the absolute directory holding shift report photos.
func (s *FileService) ShiftReportsDir() string {
	return filepath.Join(s.root, shiftReportsSubdir)
}

// SaveShiftReportPhoto stores an uploaded photo under a random name, keeping
// the original extension. Returns the path relative to the uploads root.
func (s *FileService) SaveShiftReportPhoto(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	relative := filepath.Join(shiftReportsSubdir, name)
	target := filepath.Join(s.root, relative)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("write %s: %w", target, err)
	}

	return relative, nil
}

// Delete removes a previously saved photo by its relative path. Missing files
// are not an error.
func (s *FileService) Delete(relative string) error {
	err := os.Remove(filepath.Join(s.root, relative))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", relative, err)
	}
	return nil
}

// AbsolutePath maps a stored relative path back to a file on disk.
func (s *FileService) AbsolutePath(relative string) string {
	return filepath.Join(s.root, relative)
}

// URLFor maps a stored relative path to the public URL the static route
// serves it under.
func (s *FileService) URLFor(relative string) string {
	return "/uploads/" + filepath.ToSlash(relative)
}

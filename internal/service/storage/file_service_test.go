package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadHeader builds a real multipart.FileHeader around the given content.
func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["photo"]
	require.Len(t, files, 1)
	return files[0]
}

func TestSaveShiftReportPhoto(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	require.NoError(t, err)

	content := []byte("not really a jpeg")
	relative, err := svc.SaveShiftReportPhoto(uploadHeader(t, "report.JPG", content))
	require.NoError(t, err)

	assert.Equal(t, "shift_reports", filepath.Dir(relative))
	assert.Equal(t, ".jpg", filepath.Ext(relative), "extension is lowercased")

	saved, err := os.ReadFile(svc.AbsolutePath(relative))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	require.NoError(t, err)

	for _, filename := range []string{"report.pdf", "report.exe", "report", "report.svg"} {
		_, err := svc.SaveShiftReportPhoto(uploadHeader(t, filename, []byte("x")))
		assert.ErrorIs(t, err, ErrUnsupportedType, "filename %s", filename)
	}
}

func TestSaveAcceptsWhitelistedExtensions(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	require.NoError(t, err)

	for _, filename := range []string{"a.jpg", "b.jpeg", "c.png", "d.gif", "e.bmp"} {
		_, err := svc.SaveShiftReportPhoto(uploadHeader(t, filename, []byte("x")))
		assert.NoError(t, err, "filename %s", filename)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	require.NoError(t, err)

	first, err := svc.SaveShiftReportPhoto(uploadHeader(t, "same.jpg", []byte("one")))
	require.NoError(t, err)
	second, err := svc.SaveShiftReportPhoto(uploadHeader(t, "same.jpg", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDelete(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	require.NoError(t, err)

	relative, err := svc.SaveShiftReportPhoto(uploadHeader(t, "x.png", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(relative))
	_, err = os.Stat(svc.AbsolutePath(relative))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	assert.NoError(t, svc.Delete(relative))
}

func TestURLFor(t *testing.T) {
	svc, err := NewFileService(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/uploads/shift_reports/a.jpg", svc.URLFor(filepath.Join("shift_reports", "a.jpg")))
}

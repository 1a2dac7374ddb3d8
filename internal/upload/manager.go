// Package upload stores attachment files on disk and shapes them into
// attachment descriptors. The core never reads the raw bytes; it only
// sees the descriptor produced here.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/tmvuong/todofile/internal/apperr"
	"github.com/tmvuong/todofile/internal/logging"
	"github.com/tmvuong/todofile/internal/models"
	"github.com/tmvuong/todofile/internal/todo"
)

// Manager writes attachment files under a base directory.
type Manager struct {
	baseDir string
}

// NewManager creates a Manager rooted at baseDir, creating the directory
// if needed.
func NewManager(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// Dir returns the base directory files are stored under.
func (m *Manager) Dir() string {
	return m.baseDir
}

// Save stores the uploaded content and returns its attachment descriptor
// (without id and upload timestamp; the service assigns those). The
// content is buffered to a temporary file first so the MIME type can be
// sniffed and validated before anything lands in the upload directory.
func (m *Manager) Save(originalName string, r io.Reader) (*models.Attachment, error) {
	tmp, err := os.CreateTemp(m.baseDir, "upload-*")
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to create temp file", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to buffer uploaded file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to close temp file", err)
	}

	mtype, err := mimetype.DetectFile(tmp.Name())
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to detect file type", err)
	}

	if msgs := todo.ValidateUploadFile(mtype.String(), size); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))
	if err := os.Rename(tmp.Name(), filepath.Join(m.baseDir, filename)); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to store uploaded file", err)
	}

	return &models.Attachment{
		Filename:     filename,
		OriginalName: originalName,
		MimeType:     mtype.String(),
		Size:         size,
		URL:          "/uploads/" + filename,
	}, nil
}

// Remove deletes a stored attachment file. A missing file is not an
// error; the descriptor may outlive the file.
func (m *Manager) Remove(filename string) error {
	err := os.Remove(filepath.Join(m.baseDir, sanitizeName(filename)))
	if err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.ErrStorage, "failed to remove attachment file", err)
	}
	return nil
}

// Release removes the files behind orphaned attachment descriptors,
// logging failures instead of propagating them: the records are already
// gone and a leftover file must not fail the request.
func (m *Manager) Release(orphaned []models.Attachment) {
	for _, att := range orphaned {
		if err := m.Remove(att.Filename); err != nil {
			logging.Warn("failed to release attachment file", map[string]interface{}{
				"filename": att.Filename,
				"error":    err.Error(),
			})
		}
	}
}

// sanitizeName strips path components and characters that do not belong
// in a stored filename.
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

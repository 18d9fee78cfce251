package ingestion

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store is the content store holding uploaded CVs and cover letters.
type Store interface {
	// Read returns the document bytes or ErrDocumentNotFound.
	Read(ctx context.Context, filename string) ([]byte, error)
	// HasFile reports whether a document exists under filename.
	HasFile(ctx context.Context, filename string) bool
	// Save stores r under a generated name that keeps the original extension.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// FileStore keeps documents as flat files in one directory of an afero filesystem.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates a store rooted at dir on fs.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir}
}

// NewOSFileStore creates a store on the local disk.
func NewOSFileStore(dir string) *FileStore {
	return NewFileStore(afero.NewOsFs(), dir)
}

// path resolves filename inside the store directory. Only the base name is used so
// stored names can never escape dir.
func (s *FileStore) path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

func (s *FileStore) Read(_ context.Context, filename string) ([]byte, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: empty filename", ErrDocumentNotFound)
	}

	data, err := afero.ReadFile(s.fs, s.path(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read document %s: %w", filename, err)
	}
	return data, nil
}

func (s *FileStore) HasFile(_ context.Context, filename string) bool {
	if strings.TrimSpace(filename) == "" {
		return false
	}
	ok, err := afero.Exists(s.fs, s.path(filename))
	return err == nil && ok
}

func (s *FileStore) Save(_ context.Context, originalName string, r io.Reader) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	f, err := s.fs.Create(s.path(name))
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to save document: %w", err)
	}
	return name, nil
}

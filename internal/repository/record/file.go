package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/central-publisher/internal/config"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
)

// DefaultFilename is the record file name inside the build directory.
const DefaultFilename = "deployment.yaml"

// Repository defines persistence operations for the deployment record.
type Repository interface {
	Load(ctx context.Context) (*domain.Record, error)
	Save(ctx context.Context, record *domain.Record) error
	Delete(ctx context.Context) error
}

var _ Repository = (*FileRepository)(nil)

// FileRepository persists the deployment record to a YAML file on disk.
type FileRepository struct {
	// path is the filesystem location of the record file.
	path string
	// mu protects concurrent access to the record file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when no deployment has been recorded yet.
	ErrNotFound = errors.New("deployment record not found")
	// errRecordIsNotSet is returned when a nil record is saved.
	errRecordIsNotSet = errors.New("deployment record is not set")
)

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// ForBuildDir creates a repository for the record kept in a build directory.
func ForBuildDir(buildDir string) *FileRepository {
	return NewFileRepository(filepath.Join(buildDir, DefaultFilename))
}

// Path returns the record file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the record from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read deployment record: %w", err)
	}

	var record domain.Record
	if err = yaml.Unmarshal(contents, &record); err != nil {
		return nil, fmt.Errorf("decode deployment record: %w", err)
	}

	return &record, nil
}

// Save replaces the record on disk. The file is written next to its final
// location first so a reader never sees a partial record.
func (r *FileRepository) Save(_ context.Context, record *domain.Record) error {
	if record == nil {
		return errRecordIsNotSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode deployment record: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temporary record: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write deployment record: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write deployment record: %w", err)
	}

	if err = os.Chmod(tmpName, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("chmod deployment record: %w", err)
	}

	if err = os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace deployment record: %w", err)
	}

	return nil
}

// Delete removes the record. A missing record is not an error.
func (r *FileRepository) Delete(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete deployment record: %w", err)
	}

	return nil
}

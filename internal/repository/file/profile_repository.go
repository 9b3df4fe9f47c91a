// Package file stores the profile collection as a JSON document on local disk.
package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
	"profile-service/internal/repository/document"
)

type ProfileRepository struct {
	path string
}

func NewProfileRepository(path string) repository.ProfileRepository {
	return &ProfileRepository{path: filepath.Clean(path)}
}

func (r *ProfileRepository) Load(ctx context.Context) ([]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("load", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, domain.NewStorageError("load", fmt.Errorf("read %s: %w", r.path, err))
	}

	profiles, err := document.DecodeBytes(data)
	if err != nil {
		return nil, domain.NewStorageError("load", fmt.Errorf("parse %s: %w", r.path, err))
	}
	return profiles, nil
}

// Save writes the document to a temporary sibling file and renames it over the
// target, so a failed write never leaves a truncated document behind.
func (r *ProfileRepository) Save(ctx context.Context, profiles []domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("save", err)
	}

	// records carried over keep their created_at spelling
	prev, _ := os.ReadFile(r.path)

	var buf bytes.Buffer
	if err := document.EncodeKeeping(&buf, profiles, document.ReadTimestamps(prev)); err != nil {
		return domain.NewStorageError("save", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewStorageError("save", fmt.Errorf("create data dir: %w", err))
	}

	if err := writeAtomic(dir, r.path, buf.Bytes()); err != nil {
		return domain.NewStorageError("save", err)
	}
	return nil
}

// documentPerm is the mode of a document created by Save. An existing
// document keeps its mode.
const documentPerm os.FileMode = 0o644

func writeAtomic(dir, target string, data []byte) (err error) {
	perm := documentPerm
	if info, statErr := os.Stat(target); statErr == nil && info.Mode().IsRegular() {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}

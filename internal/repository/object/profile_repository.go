// Package object stores the profile document as a single object in remote object storage.
package object

import (
	"bytes"
	"context"

	"profile-service/internal/domain"
	"profile-service/internal/repository"
	"profile-service/internal/repository/document"
	"profile-service/internal/storage"
)

const contentType = "application/json"

type ProfileRepository struct {
	store  storage.ObjectStore
	bucket string
	key    string
}

func NewProfileRepository(store storage.ObjectStore, bucket, key string) repository.ProfileRepository {
	return &ProfileRepository{store: store, bucket: bucket, key: key}
}

func (r *ProfileRepository) Load(ctx context.Context) ([]domain.Profile, error) {
	body, err := r.store.GetObject(ctx, r.bucket, r.key)
	if err != nil {
		return nil, domain.NewStorageError("load", err)
	}

	profiles, err := document.DecodeBytes(body)
	if err != nil {
		return nil, domain.NewStorageError("load", err)
	}
	return profiles, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profiles []domain.Profile) error {
	// records carried over keep their created_at spelling
	prev, _ := r.store.GetObject(ctx, r.bucket, r.key)

	var buf bytes.Buffer
	if err := document.EncodeKeeping(&buf, profiles, document.ReadTimestamps(prev)); err != nil {
		return domain.NewStorageError("save", err)
	}
	body := buf.Bytes()

	if err := r.store.PutObject(ctx, r.bucket, r.key, body, contentType); err != nil {
		return domain.NewStorageError("save", err)
	}
	return nil
}

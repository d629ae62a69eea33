package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

// Bucket holding visit photos and prescription scans.
const Bucket = "prescriptions"

// URLExpiry bounds how long a signed download link stays valid.
const URLExpiry = 15 * time.Minute

type MediaService interface {
	Upload(ctx context.Context, sc *session.Scope, patientID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error)
	SignedURL(ctx context.Context, sc *session.Scope, objectPath string) (string, error)
	Delete(ctx context.Context, sc *session.Scope, objectPath string) error
}

type Service struct {
	client *minio.Client
}

func NewService(endpoint, accessKey, secretKey string, useSSL bool) (*Service, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &Service{client: client}, nil
}

func (s *Service) EnsureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !found {
		if err := s.client.MakeBucket(ctx, Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Upload stores the blob under <clinic>/<patient>/<id>-<filename>.
// Namespacing by clinic and patient keeps paths collision-free and makes
// path-based authorization auditable. Upload failures and URL failures
// are reported with distinct causes; this method only ever fails with
// the former.
func (s *Service) Upload(ctx context.Context, sc *session.Scope, patientID uuid.UUID, filename, contentType string, r io.Reader, size int64) (string, error) {
	if sc == nil {
		return "", apperrors.AuthorizationDenied(nil)
	}

	objectPath := fmt.Sprintf("%s/%s/%s-%s", sc.ClinicID, patientID, uuid.New(), filename)
	_, err := s.client.PutObject(ctx, Bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", apperrors.Upstream("media upload", err)
	}
	return objectPath, nil
}

// SignedURL returns a time-bounded download link for an object owned by
// the caller's clinic.
func (s *Service) SignedURL(ctx context.Context, sc *session.Scope, objectPath string) (string, error) {
	if sc == nil {
		return "", apperrors.AuthorizationDenied(nil)
	}
	if !ownedByClinic(sc, objectPath) {
		return "", apperrors.NotFound("media object", nil)
	}

	url, err := s.client.PresignedGetObject(ctx, Bucket, objectPath, URLExpiry, nil)
	if err != nil {
		return "", apperrors.Upstream("media URL generation", err)
	}
	return url.String(), nil
}

func (s *Service) Delete(ctx context.Context, sc *session.Scope, objectPath string) error {
	if sc == nil {
		return apperrors.AuthorizationDenied(nil)
	}
	if !ownedByClinic(sc, objectPath) {
		return apperrors.NotFound("media object", nil)
	}

	if err := s.client.RemoveObject(ctx, Bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.Upstream("media delete", err)
	}
	return nil
}

// ownedByClinic enforces the clinic prefix on object paths. Everything
// outside the caller's folder looks like a missing object.
func ownedByClinic(sc *session.Scope, objectPath string) bool {
	prefix := sc.ClinicID.String() + "/"
	return len(objectPath) > len(prefix) && objectPath[:len(prefix)] == prefix
}

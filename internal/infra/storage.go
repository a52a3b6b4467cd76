package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// ErrDocumentoNoEncontrado is returned by Abrir for an unknown path.
var ErrDocumentoNoEncontrado = errors.New("documento no encontrado")

// DocumentStore persists generated documents (receipts, quotes) and returns
// an opaque path that is saved alongside the record.
type DocumentStore interface {
	Guardar(ctx context.Context, nombre string, data []byte) (string, error)
	Abrir(ctx context.Context, path string) ([]byte, error)
}

// NombreDocumento builds "<tipo>/<yyyy>/<mm>/<tipo>-<numero>-<cliente>.pdf".
func NombreDocumento(tipo, numero, cliente string, fecha time.Time) string {
	base := slug.Make(fmt.Sprintf("%s %s %s", tipo, numero, cliente))
	return fmt.Sprintf("%s/%s/%s.pdf", tipo, fecha.Format("2006/01"), base)
}

// ── Local filesystem ──────────────────────────────────────────────────────────

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Guardar(_ context.Context, nombre string, data []byte) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(nombre))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write: %w", err)
	}
	return nombre, nil
}

func (s *LocalStore) Abrir(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(filepath.Clean("/"+path))))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrDocumentoNoEncontrado
	}
	return data, err
}

// ── MinIO ─────────────────────────────────────────────────────────────────────

type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects and creates the bucket when missing.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: make bucket: %w", err)
		}
		log.Info().Str("bucket", bucket).Msg("minio: bucket creado")
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

func (s *MinioStore) Guardar(ctx context.Context, nombre string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, nombre, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("minio: upload: %w", err)
	}
	return nombre, nil
}

func (s *MinioStore) Abrir(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get: %w", err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrDocumentoNoEncontrado
		}
		return nil, fmt.Errorf("minio: read: %w", err)
	}
	return data, nil
}

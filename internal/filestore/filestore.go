package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/paperie/shop-backend/internal/config"
)

var ErrUploadFailed = errors.New("upload failed")

// FileStore — внешнее объектное хранилище для чеков об оплате.
type FileStore interface {
	// Upload кладёт файл и возвращает публичный URL.
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// SupabaseStore ходит в storage-REST хостинга напрямую, без SDK:
// нужен ровно один вызов загрузки и детерминированный публичный URL.
type SupabaseStore struct {
	client  *http.Client
	baseURL string
	bucket  string
	key     string
}

func NewSupabaseStore(cfg config.StorageConfig) *SupabaseStore {
	return &SupabaseStore{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: cfg.BaseURL,
		bucket:  cfg.Bucket,
		key:     cfg.ServiceKey,
	}
}

func (s *SupabaseStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, body)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, name)
	return publicURL, nil
}

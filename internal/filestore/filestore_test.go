package filestore_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paperie/shop-backend/internal/config"
	"github.com/paperie/shop-backend/internal/filestore"
)

func TestSupabaseStore_Upload_Success(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := filestore.NewSupabaseStore(config.StorageConfig{
		BaseURL:    srv.URL,
		Bucket:     "transaction-images",
		ServiceKey: "service-key",
	})

	url, err := store.Upload(context.Background(), "transaction_123.png", "image/png", []byte("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/transaction-images/transaction_123.png", url)
	assert.Equal(t, "/storage/v1/object/transaction-images/transaction_123.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, []byte("png-bytes"), gotBody)
}

func TestSupabaseStore_Upload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	store := filestore.NewSupabaseStore(config.StorageConfig{
		BaseURL: srv.URL,
		Bucket:  "transaction-images",
	})

	url, err := store.Upload(context.Background(), "transaction_123.png", "image/png", []byte("png-bytes"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, filestore.ErrUploadFailed))
	assert.Empty(t, url)
}

func TestSupabaseStore_Upload_Unreachable(t *testing.T) {
	store := filestore.NewSupabaseStore(config.StorageConfig{
		BaseURL: "http://127.0.0.1:1",
		Bucket:  "transaction-images",
	})

	url, err := store.Upload(context.Background(), "transaction_123.png", "image/png", nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, filestore.ErrUploadFailed))
	assert.Empty(t, url)
}

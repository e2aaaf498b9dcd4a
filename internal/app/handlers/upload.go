package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/paperie/shop-backend/internal/filestore"
)

// Ограничение на размер чека об оплате
const maxUploadSize = 10 << 20 // 10 MiB

// UploadResponse — публичный URL загруженного файла.
type UploadResponse struct {
	URL string `json:"url"`
}

// UploadTransactionImageHandler обрабатывает POST /upload-transaction-image.
// Файл уходит во внешнее хранилище до создания заказа: без URL чека форма
// предоплаченный заказ не отправляет.
func UploadTransactionImageHandler(log *slog.Logger, store filestore.FileStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UploadTransactionImageHandler"
		logger := log.With(slog.String("op", op))

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("image")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Error("failed to read uploaded file", slog.Any("error", err))
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read file"})
			return
		}

		name := fmt.Sprintf("transaction_%d%s", time.Now().UnixMilli(), path.Ext(header.Filename))
		contentType := header.Header.Get("Content-Type")

		url, err := store.Upload(r.Context(), name, contentType, data)
		if err != nil {
			logger.Error("failed to upload image", slog.Any("error", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to upload image"})
			return
		}

		logger.Info("transaction image uploaded", slog.String("name", name))
		writeJSON(w, http.StatusOK, UploadResponse{URL: url})
	}
}

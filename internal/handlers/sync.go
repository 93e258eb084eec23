package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"JournalVault/internal/config"
	"JournalVault/internal/service"

	"go.uber.org/zap"
)

const defaultMaxPayload = 10 << 20

// SyncHandler: API хранения зашифрованных журналов.
type SyncHandler struct {
	BlobService *service.BlobService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewSyncHandler создаёт хендлер /api/sync
func NewSyncHandler(blobService *service.BlobService, logger *zap.SugaredLogger, cfg *config.Config) *SyncHandler {
	return &SyncHandler{BlobService: blobService, Logger: logger, Config: cfg}
}

// response: общий конверт ответа.
type response struct {
	Success   bool    `json:"success"`
	Data      *string `json:"data,omitempty"`
	Error     string  `json:"error,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// fetchResponse отдаёт data всегда, null: если блоба нет.
type fetchResponse struct {
	Success   bool    `json:"success"`
	Data      *string `json:"data"`
	Timestamp string  `json:"timestamp"`
}

// StoreRequest: тело POST /api/sync.
type StoreRequest struct {
	VaultID string `json:"vaultId,omitempty"`
	Data    string `json:"data"`
}

// Health проверка доступности (без ключа)
func (h *SyncHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": now()})
}

// Fetch отдаёт шифротекст хранилища
func (h *SyncHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	vaultID := r.URL.Query().Get("vaultId")
	data, found, err := h.BlobService.Fetch(r.Context(), vaultID)
	if err != nil {
		h.fail(w, "Fetch", vaultID, err)
		return
	}
	resp := fetchResponse{Success: true, Timestamp: now()}
	if found {
		resp.Data = &data
	}
	writeJSON(w, http.StatusOK, resp)
}

// Store сохраняет шифротекст хранилища
func (h *SyncHandler) Store(w http.ResponseWriter, r *http.Request) {
	vaultID := r.URL.Query().Get("vaultId")
	limit := h.maxPayload()
	if r.ContentLength > limit {
		h.tooLarge(w, vaultID, r.ContentLength)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req StoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			h.tooLarge(w, vaultID, mbe.Limit)
			return
		}
		h.Logger.Warnw("Store: invalid request body", "vault", vaultID, "error", err)
		writeJSON(w, http.StatusBadRequest, response{Error: "Invalid data format", Timestamp: now()})
		return
	}
	if vaultID == "" {
		vaultID = req.VaultID
	}
	if err := h.BlobService.Store(r.Context(), vaultID, req.Data); err != nil {
		h.fail(w, "Store", vaultID, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Timestamp: now()})
}

// Delete удаляет шифротекст хранилища
func (h *SyncHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vaultID := r.URL.Query().Get("vaultId")
	if err := h.BlobService.Delete(r.Context(), vaultID); err != nil {
		h.fail(w, "Delete", vaultID, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Timestamp: now()})
}

func (h *SyncHandler) fail(w http.ResponseWriter, op, vaultID string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidVaultID), errors.Is(err, service.ErrInvalidPayload):
		h.Logger.Warnw(op+": bad request", "vault", vaultID, "error", err)
		writeJSON(w, http.StatusBadRequest, response{Error: err.Error(), Timestamp: now()})
	default:
		h.Logger.Errorw(op+": service error", "vault", vaultID, "error", err)
		writeJSON(w, http.StatusInternalServerError, response{Error: "internal error", Timestamp: now()})
	}
}

func (h *SyncHandler) tooLarge(w http.ResponseWriter, vaultID string, size int64) {
	h.Logger.Warnw("Store: payload too large", "vault", vaultID, "size", size, "limit", h.maxPayload())
	msg := fmt.Sprintf("Payload too large. Maximum size is %dMB", h.maxPayload()>>20)
	writeJSON(w, http.StatusRequestEntityTooLarge, response{Error: msg, Timestamp: now()})
}

func (h *SyncHandler) maxPayload() int64 {
	if n := h.Config.MaxPayloadBytes(); n > 0 {
		return n
	}
	return defaultMaxPayload
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

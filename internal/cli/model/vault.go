package model

import (
	"time"

	"github.com/google/uuid"
)

// VaultIdentity: идентичность хранилища (vault) на этом устройстве.
// VaultID одновременно служит ключом блоба на сервере.
type VaultIdentity struct {
	VaultID    string    `json:"vaultId"`
	CreatedAt  time.Time `json:"createdAt"`
	BackendURL string    `json:"backendUrl,omitempty"`
	APIKey     string    `json:"apiKey,omitempty"`
}

// NewVaultIdentity создаёт новое хранилище со случайным идентификатором.
func NewVaultIdentity(now time.Time, backendURL, apiKey string) VaultIdentity {
	return VaultIdentity{
		VaultID:    uuid.NewString(),
		CreatedAt:  now.UTC(),
		BackendURL: backendURL,
		APIKey:     apiKey,
	}
}

// WithCredential возвращает копию с новым ключом API (единственное допустимое изменение).
func (v VaultIdentity) WithCredential(apiKey string) VaultIdentity {
	v.APIKey = apiKey
	return v
}

// QueuedSync: элемент исходящей очереди синхронизации.
type QueuedSync struct {
	VaultID    string
	Ciphertext string
	EnqueuedAt time.Time
}

package service

import "errors"

var (
	// ErrLocked: операция требует разблокированного хранилища.
	ErrLocked = errors.New("vault is locked")
	// ErrNoVault: хранилище на этом устройстве не настроено.
	ErrNoVault = errors.New("vault is not configured")
	// ErrVaultExists: хранилище уже настроено, сначала нужен reset.
	ErrVaultExists = errors.New("vault already configured")
	// ErrUnlockInProgress: разблокировка или синхронизация уже выполняется.
	ErrUnlockInProgress = errors.New("unlock already in progress")
	// ErrWrongPassword: не удалось расшифровать данные хранилища.
	ErrWrongPassword = errors.New("wrong password")
	// ErrConfiguration: сервер отверг ключ доступа при подключении хранилища.
	ErrConfiguration = errors.New("sync configuration rejected")
	// ErrOffline: сервер синхронизации недоступен или не настроен.
	ErrOffline = errors.New("sync backend unavailable")
	// ErrEntryNotFound: записи за дату нет.
	ErrEntryNotFound = errors.New("entry not found")
)

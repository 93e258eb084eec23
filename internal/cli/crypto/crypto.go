package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// keyLen: длина ключа для AES‑256 (в байтах).
	keyLen = 32
	// saltLen: длина соли PBKDF2.
	saltLen = 16
	// nonceLen: длина nonce для GCM (96 бит).
	nonceLen = 12
	// Iterations: число итераций PBKDF2-HMAC-SHA256.
	Iterations = 100_000
)

// ErrDecryption: блоб не удалось расшифровать (неверный пароль, повреждённые или
// обрезанные данные). Причины не различаются.
var ErrDecryption = errors.New("decryption failed: wrong password or corrupted data")

// randReader: источник случайности; подменяется в тестах.
var randReader io.Reader = rand.Reader

// DeriveKey выводит 256-битный ключ из пароля и соли (PBKDF2, SHA-256, 100 000 итераций).
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, Iterations, keyLen, sha256.New)
}

// Encrypt шифрует plaintext ключом, выведенным из password, с новой солью и nonce.
// Возвращает base64(salt ‖ nonce ‖ ciphertext).
func Encrypt(plaintext, password string) (string, error) {
	buf := make([]byte, saltLen+nonceLen)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	salt, nonce := buf[:saltLen], buf[saltLen:]

	gcm, err := newGCM(DeriveKey(password, salt))
	if err != nil {
		return "", err
	}
	out := gcm.Seal(buf, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt расшифровывает блоб, созданный Encrypt. Любая ошибка: ErrDecryption.
func Decrypt(blob, password string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrDecryption
	}
	if len(data) < saltLen+nonceLen {
		return "", ErrDecryption
	}
	salt := data[:saltLen]
	nonce := data[saltLen : saltLen+nonceLen]
	ct := data[saltLen+nonceLen:]

	gcm, err := newGCM(DeriveKey(password, salt))
	if err != nil {
		return "", ErrDecryption
	}
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plain), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceLen)
}

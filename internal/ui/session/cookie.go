// Пакет session — браузерные сессии UI СтройДок.
// Идентификатор сессии передаётся в cookie, зашифрованном AES-256-GCM;
// состояние интерфейса хранится на сервере в LRU-кэше с TTL.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CookieName — имя cookie с билетом сессии.
const CookieName = "stroydoc_session"

// Ticket — содержимое cookie сессии.
type Ticket struct {
	// ID — ключ состояния сессии в Store
	ID string `json:"id"`
	// IssuedAt — время выдачи билета (Unix timestamp)
	IssuedAt int64 `json:"iat"`
}

// Manager шифрует и дешифрует Ticket в HTTP cookie через AES-256-GCM.
type Manager struct {
	gcm    cipher.AEAD
	secure bool
	maxAge time.Duration
}

// NewManager создаёт менеджер cookie сессий.
// key — base64 32-байтовый ключ или произвольная строка (хешируется SHA-256);
// пустой key — случайный ключ, сессии не переживают рестарт.
// maxAge — срок жизни cookie, совпадает с TTL состояния.
func NewManager(key string, secure bool, maxAge time.Duration) (*Manager, error) {
	var keyBytes []byte

	if key == "" {
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			h := sha256.Sum256([]byte(key))
			keyBytes = h[:]
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &Manager{gcm: gcm, secure: secure, maxAge: maxAge}, nil
}

// Encrypt шифрует Ticket и возвращает base64-строку.
func (m *Manager) Encrypt(t *Ticket) (string, error) {
	plaintext, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации билета: %w", err)
	}

	nonce := make([]byte, m.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	// nonce предшествует ciphertext
	ciphertext := m.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt дешифрует base64-строку обратно в Ticket.
func (m *Manager) Decrypt(encrypted string) (*Ticket, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}

	nonceSize := m.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("зашифрованные данные слишком короткие")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := m.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка дешифрования билета: %w", err)
	}

	var t Ticket
	if err := json.Unmarshal(plaintext, &t); err != nil {
		return nil, fmt.Errorf("ошибка десериализации билета: %w", err)
	}
	if t.ID == "" {
		return nil, errors.New("билет без идентификатора сессии")
	}
	return &t, nil
}

// SetCookie устанавливает cookie с зашифрованным билетом.
func (m *Manager) SetCookie(w http.ResponseWriter, t *Ticket) error {
	encrypted, err := m.Encrypt(t)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest извлекает Ticket из cookie запроса.
// Возвращает nil, nil если cookie отсутствует.
func (m *Manager) FromRequest(r *http.Request) (*Ticket, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}
	return m.Decrypt(cookie.Value)
}

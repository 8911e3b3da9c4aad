package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const flashCookieName = "storybook_flash"

// Flash categories.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Flasher stores flash messages in an HMAC-signed cookie.
type Flasher struct {
	key []byte
}

// NewFlasher creates a Flasher signing with secret.
func NewFlasher(secret string) *Flasher {
	return &Flasher{key: []byte(secret)}
}

// Add queues a message for the next page rendered for this client.
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, category, message string) {
	flashes := append(f.read(r), Flash{Category: category, Message: message})
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    f.encode(flashes),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the queued messages and clears them.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := f.read(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
	return flashes
}

func (f *Flasher) read(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}
	flashes, ok := f.decode(c.Value)
	if !ok {
		return nil
	}
	return flashes
}

func (f *Flasher) encode(flashes []Flash) string {
	payload, _ := json.Marshal(flashes)
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + base64.RawURLEncoding.EncodeToString(f.sign(body))
}

func (f *Flasher) decode(value string) ([]Flash, bool) {
	body, sig, ok := strings.Cut(value, ".")
	if !ok {
		return nil, false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, f.sign(body)) {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, false
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil, false
	}
	return flashes, true
}

func (f *Flasher) sign(body string) []byte {
	mac := hmac.New(sha256.New, f.key)
	mac.Write([]byte(body))
	return mac.Sum(nil)
}

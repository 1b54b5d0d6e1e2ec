package web

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Flash messages survive the POST-redirect-GET dance inside a signed
// cookie, so the server keeps no session state. A tampered, expired or
// otherwise unreadable cookie simply yields no messages.

const flashCookie = "homelib_flash"

const (
	flashSuccess = "success"
	flashError   = "error"
)

type Flash struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type flashClaims struct {
	Messages []Flash `json:"msgs"`
	jwt.RegisteredClaims
}

type FlashCodec struct {
	secret string
	ttl    time.Duration
}

func NewFlashCodec(secret string) *FlashCodec {
	return &FlashCodec{secret: secret, ttl: 5 * time.Minute}
}

// Push appends a message to the pending cookie.
func (f *FlashCodec) Push(w http.ResponseWriter, r *http.Request, level, text string) {
	msgs := append(f.peek(r), Flash{Level: level, Text: text})

	claims := flashClaims{
		Messages: msgs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(f.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(f.secret))
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending messages and clears the cookie.
func (f *FlashCodec) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	msgs := f.peek(r)
	if _, err := r.Cookie(flashCookie); err == nil {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return msgs
}

func (f *FlashCodec) peek(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	claims := &flashClaims{}
	t, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return []byte(f.secret), nil
	})
	if err != nil || !t.Valid {
		return nil
	}
	return claims.Messages
}

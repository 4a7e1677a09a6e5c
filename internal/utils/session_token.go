package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

func base64UrlEncode(input []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(input), "=")
}

func base64UrlDecode(input string) ([]byte, error) {
	padded := input
	if m := len(input) % 4; m != 0 {
		padded += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(padded)
}

func signSession(secret, payloadB64 string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("cart:" + payloadB64))
	return mac.Sum(nil)
}

// CreateCartSessionToken returns "<b64(sessionID)>.<b64(hmac)>".
func CreateCartSessionToken(secret, sessionID string) string {
	payloadB64 := base64UrlEncode([]byte(sessionID))
	return payloadB64 + "." + base64UrlEncode(signSession(secret, payloadB64))
}

// VerifyCartSessionToken returns the session id carried by a valid token.
func VerifyCartSessionToken(secret, token string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", false
	}

	expected := signSession(secret, parts[0])
	actual, err := base64UrlDecode(parts[1])
	if err != nil || !hmac.Equal(actual, expected) {
		return "", false
	}

	payload, err := base64UrlDecode(parts[0])
	if err != nil || len(payload) == 0 {
		return "", false
	}
	return string(payload), true
}

package binance

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
)

// signQuery produces the hex HMAC-SHA256 signature the wallet endpoints
// expect over the raw query string.
func signQuery(query, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// signPayload produces the hex HMAC-SHA512 signature the pay endpoints
// expect over "timestamp\nnonce\npayload\n".
func signPayload(payload, timestamp, nonce, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	fmt.Fprintf(mac, "%s\n%s\n%s\n", timestamp, nonce, payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func newNonce() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

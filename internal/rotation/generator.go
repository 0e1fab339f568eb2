package rotation

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Character sets for generated credentials. SSIDs stay lowercase so they
// read cleanly on the kiosk display; passphrases use the full alphanumeric
// range.
const (
	ssidCharset     = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateSSID produces prefix + length random characters from crypto/rand.
func GenerateSSID(prefix string, length int) (string, error) {
	suffix, err := randomString(ssidCharset, length)
	if err != nil {
		return "", fmt.Errorf("generate ssid: %w", err)
	}
	return prefix + suffix, nil
}

// GeneratePassword produces a random alphanumeric passphrase.
func GeneratePassword(length int) (string, error) {
	pass, err := randomString(passwordCharset, length)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return pass, nil
}

func randomString(charset string, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}
	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}

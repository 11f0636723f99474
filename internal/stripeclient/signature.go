package stripeclient

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Tolerance максимально допустимый возраст подписи webhook-события.
const Tolerance = 5 * time.Minute

var (
	// ErrInvalidSignature возвращается при неверной или просроченной подписи.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// VerifySignature проверяет подпись webhook-события из заголовка
// Stripe-Signature вида "t=<unix>,v1=<hex>". Подпись считается верной,
// если хотя бы одна v1-схема совпадает с HMAC-SHA256 от "<t>.<payload>"
// и метка времени не старше Tolerance.
func VerifySignature(payload []byte, header, secret string, now time.Time) error {
	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return ErrInvalidSignature
	}
	if now.Sub(time.Unix(timestamp, 0)) > Tolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

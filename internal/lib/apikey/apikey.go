// Package apikey реализует генерацию токенов для доступа к API.
//
// Токен выдается пользователю один раз при создании ключа,
// повторно получить его значение нельзя.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Prefix префикс всех выдаваемых токенов.
const Prefix = "ref_"

// tokenBytes длина случайной части токена в байтах.
const tokenBytes = 24

// Generate возвращает новый случайный токен вида ref_<48 hex символов>.
func Generate() (string, error) {
	const op = "apikey.Generate"
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return Prefix + hex.EncodeToString(buf), nil
}

// IsValidFormat проверяет, что строка похожа на выданный сервисом токен.
func IsValidFormat(token string) bool {
	if !strings.HasPrefix(token, Prefix) {
		return false
	}
	rest := strings.TrimPrefix(token, Prefix)
	if len(rest) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(rest)
	return err == nil
}

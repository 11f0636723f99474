// Package clientinfo извлекает сведения о клиенте из HTTP-запроса:
// адрес, источник перехода и разобранный user-agent (браузер, ОС, тип устройства).
// Эти поля сохраняются вместе с каждым переходом по реферальной ссылке.
package clientinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Info содержит разобранные данные о клиенте запроса.
type Info struct {
	IPAddress  string
	UserAgent  string
	RefererURL string
	DeviceType string
	Browser    string
	OS         string
}

// FromRequest собирает Info из заголовков запроса.
//
// IP берется из первого значения X-Forwarded-For, затем из X-Real-IP,
// затем из RemoteAddr. Тип устройства по умолчанию — desktop.
func FromRequest(r *http.Request) Info {
	raw := r.Header.Get("User-Agent")
	ua := useragent.New(raw)

	browser, _ := ua.Browser()
	device := "desktop"
	if ua.Bot() {
		device = "bot"
	} else if ua.Mobile() {
		device = "mobile"
	}

	return Info{
		IPAddress:  clientIP(r),
		UserAgent:  raw,
		RefererURL: r.Header.Get("Referer"),
		DeviceType: device,
		Browser:    browser,
		OS:         ua.OSInfo().Name,
	}
}

// clientIP возвращает первый адрес из цепочки проксей.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.Split(fwd, ",")[0]
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

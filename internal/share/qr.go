package share

import (
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Link joins the share token onto baseURL as the "trip" query parameter.
func Link(baseURL, token string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid share base URL %q", baseURL)
	}
	q := u.Query()
	q.Set("trip", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// QRCode renders the share link for token as a PNG of size pixels.
func QRCode(baseURL, token string, size int) ([]byte, error) {
	link, err := Link(baseURL, token)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}

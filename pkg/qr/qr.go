// Package qr builds image URLs for an external QR rendering endpoint.
// Purely presentational; there is no contract beyond URL templating.
package qr

import (
	"fmt"
	"net/url"
)

const endpoint = "https://api.qrserver.com/v1/create-qr-code/"

// DefaultSize is the pixel size used when none is given.
const DefaultSize = 200

// ImageURL returns a URL rendering data as a size x size QR image.
// Non-positive sizes fall back to DefaultSize.
func ImageURL(data string, size int) string {
	if size <= 0 {
		size = DefaultSize
	}
	return fmt.Sprintf("%s?size=%dx%d&data=%s", endpoint, size, size, url.QueryEscape(data))
}

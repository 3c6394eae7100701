package checker

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"strings"

	"github.com/Houeta/storewatch/internal/models"
)

// Key returns the identity of a product across snapshots: the normalized link,
// else the case-folded title, else the image path. It depends only on the
// product's own fields, so two keyless identical records share a key.
func Key(p models.Product) string {
	if link := strings.TrimSpace(p.Link); link != "" {
		return normalizeURL(link)
	}
	if title := strings.ToLower(strings.TrimSpace(p.Title)); title != "" {
		return title
	}
	if img := strings.TrimSpace(p.Image); img != "" {
		if u, err := url.Parse(img); err == nil && u.Path != "" {
			return "image:" + u.Path
		}
		return "image:" + img
	}

	return "anon:" + calculateHash([]byte(p.Price+"\x00"+p.Rating))
}

// normalizeURL keeps scheme, host and path. Query and fragment are dropped.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	if u.Host == "" {
		u.RawQuery, u.Fragment, u.RawFragment = "", "", ""
		u.ForceQuery = false
		return strings.ToLower(u.String())
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.EscapedPath()
}

// calculateHash calculates the SHA256 hash for a slice of bytes.
func calculateHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

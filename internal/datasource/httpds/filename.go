package httpds

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// nameCleaner replaces runs of characters that do not belong in a watchlist
// name with "_".
var nameCleaner = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// NameFromURL derives a default watchlist name from a download URL. The last
// path segment without its extension wins, e.g. ".../exports/HighRisk.csv"
// gives "HighRisk". Otherwise the cleaned query string is used, and as a last
// resort a stable hash of the whole URL.
func NameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return hashName(rawURL)
	}

	base := path.Base(u.Path)
	base = strings.TrimSuffix(base, path.Ext(base))
	if clean := strings.Trim(nameCleaner.ReplaceAllString(base, "_"), "_"); clean != "" && base != "." && base != "/" {
		return clean
	}
	if clean := strings.Trim(nameCleaner.ReplaceAllString(u.RawQuery, "_"), "_"); clean != "" {
		return clean
	}
	return hashName(rawURL)
}

func hashName(s string) string {
	return "wl_" + strconv.FormatUint(xxh3.HashString(s), 16)
}

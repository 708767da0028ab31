package content

import (
	"strings"

	"github.com/google/uuid"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://streamdex/content"))

// NewID derives a stable record id from the provider name and the
// provider-native key (page URL or native id).
func NewID(sourceName, key string) string {
	name := strings.ToLower(strings.TrimSpace(sourceName)) + "\x00" + strings.TrimSpace(key)
	return uuid.NewSHA1(namespace, []byte(name)).String()
}

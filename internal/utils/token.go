package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateVerificationToken returns an opaque, URL-safe, single-use token
// for email verification links. It is deliberately not a JWT: a millisecond
// timestamp plus two random components, base64url-encoded without padding.
func GenerateVerificationToken() string {
	raw := fmt.Sprintf("%d-%s-%s",
		time.Now().UnixMilli(),
		strings.ReplaceAll(uuid.NewString(), "-", ""),
		strings.ReplaceAll(uuid.NewString(), "-", ""),
	)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

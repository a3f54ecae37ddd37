package booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewConfirmationCode builds a short human readable code such as "BKLX2J9Q1C-4F1A09B2".
// The random suffix keeps codes unique when several appointments are created in the same millisecond.
func NewConfirmationCode(now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return strings.ToUpper("BK" + stamp + "-" + suffix)
}

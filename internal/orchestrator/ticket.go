package orchestrator

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketPattern matches identifiers produced by NewTicketID.
var TicketPattern = regexp.MustCompile(`^TKT-\d{14}-[0-9A-F]{8}$`)

// TicketIssuer produces escalation ticket identifiers.
type TicketIssuer func() string

// NewTicketID returns TKT-<UTC yyyymmddhhmmss>-<8 hex chars>.
func NewTicketID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "TKT-" + now.UTC().Format("20060102150405") + "-" + suffix
}

func defaultIssuer() string {
	return NewTicketID(time.Now())
}

package cache

import (
	"context"
	"time"

	"github.com/1cbyc/view0x/internal/model"
)

// DefaultTTL is the retention window for cached reports.
const DefaultTTL = 24 * time.Hour

// Store maps a unit fingerprint to the last report computed for it. Entries
// are replaced wholesale on Put, never patched, and expire after the
// retention window. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*model.Report, bool, error)
	Put(ctx context.Context, fingerprint string, report *model.Report) error
	Expire(ctx context.Context, now time.Time) error
}

// Package capabilities declares the external collaborators the ledger consumes
// but does not own: a key-value cache, a report job queue, a notification
// sink and a file URL signer.
package capabilities

import (
	"context"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// KeyValueCache is a string cache with per-key expiry.
type KeyValueCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ReportQueue hands report jobs to the external worker.
type ReportQueue interface {
	EnqueueReportJob(ctx context.Context, job domain.ReportJob) error
}

// Notifier delivers a notification. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// FileURLSigner issues expiring download links for stored files.
type FileURLSigner interface {
	SignDownloadURL(ctx context.Context, fileKey string, ttl time.Duration) (string, time.Time, error)
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/guonaihong/gout"
	"go.uber.org/zap"
)

// ImageStore abstracts the external object store holding product images.
// The backend only ever asks it to release a resource it no longer
// references; uploads happen client-side against the provider directly.
type ImageStore interface {
	Release(ctx context.Context, url string) error
}

// HTTPImageStore releases images through the provider's delete endpoint.
type HTTPImageStore struct {
	endpoint string
	timeout  time.Duration
}

func NewHTTPImageStore(endpoint string) *HTTPImageStore {
	return &HTTPImageStore{endpoint: endpoint, timeout: 10 * time.Second}
}

func (s *HTTPImageStore) Release(ctx context.Context, url string) error {
	var code int
	err := gout.DELETE(s.endpoint).
		WithContext(ctx).
		SetQuery(gout.H{"url": url}).
		SetTimeout(s.timeout).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code >= 300 {
		return fmt.Errorf("image store returned status %d", code)
	}
	return nil
}

// NoopImageStore is used when no image provider is configured; it only
// records what would have been removed.
type NoopImageStore struct{}

func (NoopImageStore) Release(_ context.Context, url string) error {
	zap.L().Debug("image release skipped, no store configured", zap.String("url", url))
	return nil
}

package cache

import (
	"ReferralHub/internal/core/ports"
	"context"
	"time"
)

// MultiLevelCache reads the local layer first and falls back to the
// remote one, refilling local on a remote hit. Local entries live for half
// the remote TTL so stale names do not linger on one instance.
type MultiLevelCache struct {
	local  ports.Cache
	remote ports.Cache
	ttl    time.Duration
}

var _ ports.Cache = (*MultiLevelCache)(nil)

// NewMultiLevelCache layers local over remote. ttl is the remote TTL used
// to size local refills.
func NewMultiLevelCache(local, remote ports.Cache, ttl time.Duration) *MultiLevelCache {
	return &MultiLevelCache{local: local, remote: remote, ttl: ttl}
}

func (m *MultiLevelCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := m.local.Get(ctx, key); err == nil {
		return v, nil
	}

	v, err := m.remote.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = m.local.Set(ctx, key, v, m.ttl/2)
	return v, nil
}

func (m *MultiLevelCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_ = m.local.Set(ctx, key, value, ttl/2)
	return m.remote.Set(ctx, key, value, ttl)
}

func (m *MultiLevelCache) Delete(ctx context.Context, key string) error {
	_ = m.local.Delete(ctx, key)
	return m.remote.Delete(ctx, key)
}

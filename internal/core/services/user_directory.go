package services

import (
	"ReferralHub/internal/core/domain"
	"ReferralHub/internal/core/ports"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const directoryKeyPrefix = "user_summary:"

type cachedSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// cachedDirectory is a read-through cache over UserRepository.Summaries.
type cachedDirectory struct {
	users ports.UserRepository
	cache ports.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

var _ ports.UserDirectory = (*cachedDirectory)(nil)

func NewCachedDirectory(users ports.UserRepository, cache ports.Cache, ttl time.Duration, baseLogger *zerolog.Logger) ports.UserDirectory {
	return &cachedDirectory{
		users: users,
		cache: cache,
		ttl:   ttl,
		log:   baseLogger.With().Str("component", "user_directory").Logger(),
	}
}

func (d *cachedDirectory) Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error) {
	result := make(map[uuid.UUID]domain.UserSummary, len(ids))
	var missing []uuid.UUID

	for _, id := range ids {
		raw, err := d.cache.Get(ctx, directoryKeyPrefix+id.String())
		if err != nil {
			if !errors.Is(err, ports.ErrCacheMiss) {
				d.log.Warn().Err(err).Str("user_id", id.String()).Msg("Cache read failed")
			}
			missing = append(missing, id)
			continue
		}
		var cs cachedSummary
		if err := json.Unmarshal(raw, &cs); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = domain.UserSummary{ID: id, Name: cs.Name, Email: cs.Email}
	}

	if len(missing) == 0 {
		return result, nil
	}

	fresh, err := d.users.Summaries(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, summary := range fresh {
		result[id] = summary
		raw, _ := json.Marshal(cachedSummary{Name: summary.Name, Email: summary.Email})
		if err := d.cache.Set(ctx, directoryKeyPrefix+id.String(), raw, d.ttl); err != nil {
			d.log.Warn().Err(err).Str("user_id", id.String()).Msg("Cache write failed")
		}
	}
	return result, nil
}

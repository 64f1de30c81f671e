package cache

import (
	"fmt"
	"time"

	"github.com/campusmeet/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// SummaryTTL bounds staleness of cached admission summaries; the
// coordinator invalidates eagerly on every mutation, the TTL is the
// backstop.
const SummaryTTL = 2 * time.Minute

// GroupSummary is the read-side snapshot of a group's admission state.
// It is advisory: the coordinator always re-reads the row inside the
// critical section.
type GroupSummary struct {
	GroupID   uint               `msgpack:"group_id"`
	Capacity  int                `msgpack:"capacity"`
	Occupancy int                `msgpack:"occupancy"`
	Status    models.GroupStatus `msgpack:"status"`
}

// GroupCache caches admission summaries. All methods are safe on a nil
// receiver or without Redis, so the engine runs uncached when Redis is
// down.
type GroupCache struct {
	redis *RedisCache
}

func NewGroupCache(redis *RedisCache) *GroupCache {
	return &GroupCache{redis: redis}
}

func summaryKey(groupID uint) string {
	return fmt.Sprintf("group:summary:%d", groupID)
}

// GetSummary retrieves a cached admission summary
func (gc *GroupCache) GetSummary(groupID uint) (*GroupSummary, bool) {
	if gc == nil || gc.redis == nil {
		return nil, false
	}
	data, err := gc.redis.Get(summaryKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var summary GroupSummary
	if err := msgpack.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// SetSummary caches an admission summary
func (gc *GroupCache) SetSummary(summary *GroupSummary) error {
	if gc == nil || gc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(summary)
	if err != nil {
		return err
	}
	return gc.redis.Set(summaryKey(summary.GroupID), data, SummaryTTL)
}

// Invalidate drops the cached summary after an admission mutation
func (gc *GroupCache) Invalidate(groupID uint) {
	if gc == nil || gc.redis == nil {
		return
	}
	_ = gc.redis.Delete(summaryKey(groupID))
}

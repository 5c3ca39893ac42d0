package counts

import (
	"context"
	"strconv"
	"time"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Redis hash keys, one hash per counter family, field = entity id.
const (
	likesCountKey     = "post_likes_count"
	commentsCountKey  = "post_comments_count"
	savesCountKey     = "post_saves_count"
	followersCountKey = "user_followers_count"
	followingCountKey = "user_following_count"
)

// Default is the process-wide aggregator, wired in main. A nil Default (or a
// nil cache inside it) degrades to counting ledger rows directly.
var Default *Aggregator

// Aggregator derives counters from the ledger tables. The Redis hash is a
// pure cache: writes invalidate, reads recompute on miss, so a cached value
// can never outlive the ledger row set that produced it.
type Aggregator struct {
	db         *gorm.DB
	cache      *redis.Client
	expiration time.Duration
}

func New(db *gorm.DB, cache *redis.Client, expiration time.Duration) *Aggregator {
	return &Aggregator{db: db, cache: cache, expiration: expiration}
}

func (a *Aggregator) Likes(ctx context.Context, postID uuid.UUID) (int64, error) {
	return a.cached(ctx, likesCountKey, postID, func() (int64, error) {
		return a.count(a.db.Model(&models.Like{}).Where("post_id = ?", postID))
	})
}

func (a *Aggregator) Comments(ctx context.Context, postID uuid.UUID) (int64, error) {
	return a.cached(ctx, commentsCountKey, postID, func() (int64, error) {
		return a.count(a.db.Model(&models.Comment{}).Where("post_id = ?", postID))
	})
}

func (a *Aggregator) Saves(ctx context.Context, postID uuid.UUID) (int64, error) {
	return a.cached(ctx, savesCountKey, postID, func() (int64, error) {
		return a.count(a.db.Model(&models.Save{}).Where("post_id = ?", postID))
	})
}

func (a *Aggregator) Followers(ctx context.Context, userID uuid.UUID) (int64, error) {
	return a.cached(ctx, followersCountKey, userID, func() (int64, error) {
		return a.count(a.db.Model(&models.Follow{}).Where("followee_id = ?", userID))
	})
}

func (a *Aggregator) Following(ctx context.Context, userID uuid.UUID) (int64, error) {
	return a.cached(ctx, followingCountKey, userID, func() (int64, error) {
		return a.count(a.db.Model(&models.Follow{}).Where("follower_id = ?", userID))
	})
}

// InvalidatePost drops every cached counter for a post after a ledger write.
// Never incremented in place: the next read recomputes from the ledger.
func (a *Aggregator) InvalidatePost(ctx context.Context, postID uuid.UUID) {
	if a == nil || a.cache == nil {
		return
	}
	field := postID.String()
	a.cache.HDel(ctx, likesCountKey, field)
	a.cache.HDel(ctx, commentsCountKey, field)
	a.cache.HDel(ctx, savesCountKey, field)
}

// InvalidateUser drops the cached follow counters for a user.
func (a *Aggregator) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if a == nil || a.cache == nil {
		return
	}
	field := userID.String()
	a.cache.HDel(ctx, followersCountKey, field)
	a.cache.HDel(ctx, followingCountKey, field)
}

func (a *Aggregator) cached(ctx context.Context, key string, id uuid.UUID, recompute func() (int64, error)) (int64, error) {
	if a == nil || a.db == nil {
		return 0, apperrors.ErrStoreUnavailable
	}
	if a.cache == nil {
		return recompute()
	}

	field := id.String()
	if raw, err := a.cache.HGet(ctx, key, field).Result(); err == nil {
		if n, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			return n, nil
		}
	}

	n, err := recompute()
	if err != nil {
		return 0, err
	}
	a.cache.HSet(ctx, key, field, strconv.FormatInt(n, 10))
	a.cache.HExpire(ctx, key, a.expiration, field)
	return n, nil
}

func (a *Aggregator) count(q *gorm.DB) (int64, error) {
	var n int64
	err := apperrors.Retry(context.Background(), func() error {
		if cerr := q.Count(&n).Error; cerr != nil {
			return apperrors.FromStore(cerr)
		}
		return nil
	})
	if err != nil {
		log.Errorf("counter recompute failed: %v", err)
		return 0, err
	}
	return n, nil
}

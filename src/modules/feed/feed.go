package feed

import (
	"context"
	"time"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	maxLimit     = 100
)

// FeedPost is a post enriched for rendering: owner identity, current counts
// aggregated from the ledger tables, and the viewer's own like/save
// projection. Counts are computed at read time; no stored counter is
// consulted.
type FeedPost struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Username      string    `json:"username"`
	AvatarURL     string    `json:"avatar_url"`
	MediaURL      string    `json:"media_url"`
	MediaKind     string    `json:"media_kind"`
	Caption       string    `json:"caption"`
	Location      string    `json:"location"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	SavesCount    int64     `json:"saves_count"`
	ViewerLiked   bool      `json:"viewer_liked"`
	ViewerSaved   bool      `json:"viewer_saved"`
	CreatedAt     time.Time `json:"created_at"`
}

// Home returns the home timeline for viewer: all posts, most recent first.
// The feed is deliberately not scoped to the follow graph; Following below
// is the scoped variant.
func Home(db *gorm.DB, viewerID uuid.UUID, limit int, rawCursor string) ([]FeedPost, string, error) {
	return page(postQuery(db, viewerID), limit, rawCursor)
}

// Explore returns the global grid with no viewer projection.
func Explore(db *gorm.DB, limit int, rawCursor string) ([]FeedPost, string, error) {
	return page(postQuery(db, uuid.Nil), limit, rawCursor)
}

// Following is the follow-scoped home timeline.
func Following(db *gorm.DB, viewerID uuid.UUID, limit int, rawCursor string) ([]FeedPost, string, error) {
	q := postQuery(db, viewerID).
		Where("posts.user_id IN (?)", db.Table("follows").Select("followee_id").Where("follower_id = ?", viewerID))
	return page(q, limit, rawCursor)
}

// Profile returns every post by owner, newest first, with the viewer's
// projection applied.
func Profile(db *gorm.DB, viewerID, ownerID uuid.UUID) ([]FeedPost, error) {
	var rows []FeedPost
	err := scanRows(postQuery(db, viewerID).
		Where("posts.user_id = ?", ownerID).
		Order("posts.created_at DESC, posts.id DESC"), &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Saved returns the viewer's saved posts, newest post first. Saves are
// private, so the grid is always scoped to the viewer.
func Saved(db *gorm.DB, viewerID uuid.UUID) ([]FeedPost, error) {
	var rows []FeedPost
	err := scanRows(postQuery(db, viewerID).
		Joins("JOIN saves ON saves.post_id = posts.id AND saves.user_id = ?", viewerID).
		Order("posts.created_at DESC, posts.id DESC"), &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns a single enriched post.
func Get(db *gorm.DB, viewerID, postID uuid.UUID) (*FeedPost, error) {
	var rows []FeedPost
	if err := scanRows(postQuery(db, viewerID).Where("posts.id = ?", postID), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &rows[0], nil
}

// postQuery builds the enrichment query shared by every view: posts joined
// with their owner, counts as correlated subqueries over the ledger, and the
// viewer's like/save membership. A uuid.Nil viewer matches no ledger rows,
// so both flags come back false.
func postQuery(db *gorm.DB, viewerID uuid.UUID) *gorm.DB {
	return db.Table("posts").
		Select(`posts.id, posts.user_id, posts.media_url, posts.media_kind, posts.caption, posts.location, posts.created_at,
			users.username, users.avatar_url,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
			(SELECT COUNT(*) FROM saves WHERE saves.post_id = posts.id) AS saves_count,
			EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS viewer_liked,
			EXISTS(SELECT 1 FROM saves WHERE saves.post_id = posts.id AND saves.user_id = ?) AS viewer_saved`,
			viewerID, viewerID).
		Joins("JOIN users ON users.id = posts.user_id")
}

// page applies keyset pagination over the (created_at, id) descending order.
// Offset pagination would skip or repeat rows when posts land mid-scroll;
// the cursor predicate cannot.
func page(q *gorm.DB, limit int, rawCursor string) ([]FeedPost, string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	cur, err := parseCursor(rawCursor)
	if err != nil {
		return nil, "", err
	}
	if cur != nil {
		q = q.Where("posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?)",
			cur.CreatedAt, cur.CreatedAt, cur.ID)
	}

	var rows []FeedPost
	if err := scanRows(q.Order("posts.created_at DESC, posts.id DESC").Limit(limit), &rows); err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) == limit {
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return rows, next, nil
}

// scanRows executes an enrichment query, retrying while the store is
// unavailable. The destination is reset each attempt.
func scanRows(q *gorm.DB, rows *[]FeedPost) error {
	return apperrors.Retry(context.Background(), func() error {
		*rows = (*rows)[:0]
		if err := q.Scan(rows).Error; err != nil {
			return apperrors.FromStore(err)
		}
		return nil
	})
}

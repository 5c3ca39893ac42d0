package counts

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

// Counts are views over the ledger: removing a row changes the count with no
// counter left behind to go stale.
func TestPostCountsFollowLedger(t *testing.T) {
	db := openTestDB(t)
	agg := New(db, nil, 0)
	ctx := context.Background()

	postID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()

	require.NoError(t, db.Create(&models.Like{ID: uuid.New(), UserID: userA, PostID: postID}).Error)
	require.NoError(t, db.Create(&models.Like{ID: uuid.New(), UserID: userB, PostID: postID}).Error)
	require.NoError(t, db.Create(&models.Comment{ID: uuid.New(), UserID: userA, PostID: postID, Body: "nice"}).Error)
	require.NoError(t, db.Create(&models.Save{ID: uuid.New(), UserID: userA, PostID: postID}).Error)

	likes, err := agg.Likes(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, likes)

	comments, err := agg.Comments(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, comments)

	saves, err := agg.Saves(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, saves)

	require.NoError(t, db.Where("user_id = ? AND post_id = ?", userA, postID).Delete(&models.Like{}).Error)
	likes, err = agg.Likes(ctx, postID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, likes)
}

func TestFollowCounts(t *testing.T) {
	db := openTestDB(t)
	agg := New(db, nil, 0)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	require.NoError(t, db.Create(&models.Follow{ID: uuid.New(), FollowerID: bob, FolloweeID: alice}).Error)
	require.NoError(t, db.Create(&models.Follow{ID: uuid.New(), FollowerID: carol, FolloweeID: alice}).Error)
	require.NoError(t, db.Create(&models.Follow{ID: uuid.New(), FollowerID: alice, FolloweeID: bob}).Error)

	followers, err := agg.Followers(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followers)

	following, err := agg.Following(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 1, following)

	followers, err = agg.Followers(ctx, bob)
	require.NoError(t, err)
	assert.EqualValues(t, 1, followers)
}

func TestCountsForUnknownIdsAreZero(t *testing.T) {
	db := openTestDB(t)
	agg := New(db, nil, 0)
	ctx := context.Background()

	likes, err := agg.Likes(ctx, uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, likes)

	followers, err := agg.Followers(ctx, uuid.New())
	require.NoError(t, err)
	assert.EqualValues(t, 0, followers)
}

func TestNilAggregatorInvalidateIsNoOp(t *testing.T) {
	var agg *Aggregator
	// Must not panic: the ledger invalidates unconditionally.
	agg.InvalidatePost(context.Background(), uuid.New())
	agg.InvalidateUser(context.Background(), uuid.New())
}

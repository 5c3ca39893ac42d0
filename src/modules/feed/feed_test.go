package feed

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
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

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		AuthID:    uuid.New(),
		Username:  username,
		AvatarURL: "https://cdn.example.com/" + username + ".jpg",
		Email:     username + "@example.com",
		Password:  "hashed",
		Role:      models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedPostAt pins created_at (microsecond precision, matching the cursor
// encoding) and optionally the id, for deterministic ordering.
func seedPostAt(t *testing.T, db *gorm.DB, owner *models.User, createdAt time.Time, id ...uuid.UUID) *models.Post {
	t.Helper()
	postID := uuid.New()
	if len(id) > 0 {
		postID = id[0]
	}
	post := &models.Post{
		ID:        postID,
		UserID:    owner.ID,
		MediaURL:  "https://cdn.example.com/p.jpg",
		MediaKind: models.MediaKindImage,
		CreatedAt: createdAt.Truncate(time.Microsecond),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func baseTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestHomeFeedOrdering(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")

	start := baseTime()
	for i := 0; i < 5; i++ {
		seedPostAt(t, db, owner, start.Add(time.Duration(i)*time.Minute))
	}

	posts, _, err := Home(db, viewer.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, posts, 5)

	for i := 1; i < len(posts); i++ {
		assert.True(t, !posts[i].CreatedAt.After(posts[i-1].CreatedAt),
			"posts must be ordered newest first")
	}
	assert.True(t, posts[0].CreatedAt.Equal(start.Add(4*time.Minute)))
}

func TestFeedTimestampTieBrokenByIdDescending(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")

	at := baseTime()
	low := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	high := uuid.MustParse("99999999-9999-9999-9999-999999999999")
	seedPostAt(t, db, owner, at, low)
	seedPostAt(t, db, owner, at, high)

	posts, _, err := Home(db, viewer.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, high, posts[0].ID)
	assert.Equal(t, low, posts[1].ID)
}

func TestFeedCursorPagination(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")

	start := baseTime()
	for i := 0; i < 25; i++ {
		seedPostAt(t, db, owner, start.Add(time.Duration(i)*time.Minute))
	}

	seen := map[uuid.UUID]bool{}
	cursor := ""
	pages := 0
	for {
		posts, next, err := Home(db, viewer.ID, 10, cursor)
		require.NoError(t, err)
		for _, p := range posts {
			assert.False(t, seen[p.ID], "cursor pagination must never repeat a post")
			seen[p.ID] = true
		}
		pages++
		if next == "" || len(posts) == 0 {
			break
		}
		cursor = next
	}

	assert.Len(t, seen, 25, "cursor pagination must never skip a post")
	assert.Equal(t, 3, pages)
}

// A post inserted after the first page was fetched, at a position before the
// cursor, must still show up on the next page; a newer one must not repeat
// earlier pages' rows.
func TestFeedCursorStableUnderConcurrentInsert(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")

	start := baseTime()
	for i := 0; i < 10; i++ {
		seedPostAt(t, db, owner, start.Add(time.Duration(i)*time.Hour))
	}

	page1, cursor, err := Home(db, viewer.ID, 5, "")
	require.NoError(t, err)
	require.Len(t, page1, 5)
	require.NotEmpty(t, cursor)

	// Lands newer than everything: must not disturb the cursor walk.
	seedPostAt(t, db, owner, start.Add(24*time.Hour))
	// Lands before the cursor position: must appear on a later page.
	older := seedPostAt(t, db, owner, start.Add(30*time.Minute))

	var rest []FeedPost
	for cursor != "" {
		var page []FeedPost
		page, cursor, err = Home(db, viewer.ID, 5, cursor)
		require.NoError(t, err)
		rest = append(rest, page...)
	}

	seenOlder := false
	for _, p := range rest {
		assert.NotContains(t, idsOf(page1), p.ID, "no duplicates across pages")
		if p.ID == older.ID {
			seenOlder = true
		}
	}
	assert.True(t, seenOlder, "post inserted before the cursor position must not be skipped")
}

func idsOf(posts []FeedPost) []uuid.UUID {
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestFeedViewerProjection(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	other := seedUser(t, db, "other")

	liked := seedPostAt(t, db, owner, baseTime())
	plain := seedPostAt(t, db, owner, baseTime().Add(time.Minute))

	require.NoError(t, db.Create(&models.Like{ID: uuid.New(), UserID: viewer.ID, PostID: liked.ID}).Error)
	require.NoError(t, db.Create(&models.Like{ID: uuid.New(), UserID: other.ID, PostID: plain.ID}).Error)
	require.NoError(t, db.Create(&models.Save{ID: uuid.New(), UserID: viewer.ID, PostID: liked.ID}).Error)

	posts, _, err := Home(db, viewer.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byID := map[uuid.UUID]FeedPost{}
	for _, p := range posts {
		byID[p.ID] = p
	}

	assert.True(t, byID[liked.ID].ViewerLiked)
	assert.True(t, byID[liked.ID].ViewerSaved)
	assert.EqualValues(t, 1, byID[liked.ID].LikesCount)

	// Someone else's like shows in the count but not in the projection.
	assert.False(t, byID[plain.ID].ViewerLiked)
	assert.False(t, byID[plain.ID].ViewerSaved)
	assert.EqualValues(t, 1, byID[plain.ID].LikesCount)

	assert.Equal(t, "owner", byID[liked.ID].Username)
	assert.Equal(t, owner.AvatarURL, byID[liked.ID].AvatarURL)
}

func TestExploreHasNoViewerProjection(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	post := seedPostAt(t, db, owner, baseTime())
	require.NoError(t, db.Create(&models.Like{ID: uuid.New(), UserID: fan.ID, PostID: post.ID}).Error)

	posts, _, err := Explore(db, 10, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.EqualValues(t, 1, posts[0].LikesCount)
	assert.False(t, posts[0].ViewerLiked)
	assert.False(t, posts[0].ViewerSaved)
}

func TestProfileGrid(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedPostAt(t, db, alice, baseTime())
	seedPostAt(t, db, alice, baseTime().Add(time.Minute))
	seedPostAt(t, db, bob, baseTime().Add(2*time.Minute))

	posts, err := Profile(db, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, alice.ID, p.UserID)
	}
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))
}

func TestSavedGridScopedToViewer(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	postA := seedPostAt(t, db, owner, baseTime())
	postB := seedPostAt(t, db, owner, baseTime().Add(time.Minute))

	require.NoError(t, db.Create(&models.Save{ID: uuid.New(), UserID: alice.ID, PostID: postA.ID}).Error)
	require.NoError(t, db.Create(&models.Save{ID: uuid.New(), UserID: bob.ID, PostID: postB.ID}).Error)

	saved, err := Saved(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, postA.ID, saved[0].ID)
	assert.True(t, saved[0].ViewerSaved)
}

func TestFollowingFeedScopedToFollowGraph(t *testing.T) {
	db := openTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	require.NoError(t, db.Create(&models.Follow{ID: uuid.New(), FollowerID: alice.ID, FolloweeID: bob.ID}).Error)

	seedPostAt(t, db, bob, baseTime())
	seedPostAt(t, db, carol, baseTime().Add(time.Minute))

	posts, _, err := Following(db, alice.ID, 10, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, bob.ID, posts[0].UserID)
}

func TestMalformedCursorRejected(t *testing.T) {
	db := openTestDB(t)
	viewer := seedUser(t, db, "viewer")

	_, _, err := Home(db, viewer.ID, 10, "not-a-cursor")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, _, err = Home(db, viewer.ID, 10, "123::not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCursorRoundTrip(t *testing.T) {
	at := baseTime().Add(90 * time.Second)
	id := uuid.New()

	cur, err := parseCursor(encodeCursor(at, id))
	require.NoError(t, err)
	assert.True(t, cur.CreatedAt.Equal(at))
	assert.Equal(t, id, cur.ID)
}

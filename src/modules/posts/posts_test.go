package posts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/database"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/notifications"

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

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		AuthID:   uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func validInput() CreateInput {
	return CreateInput{
		MediaURL:         "https://cdn.example.com/obj.jpg",
		MediaStoragePath: "owner/obj.jpg",
		MediaKind:        models.MediaKindImage,
	}
}

func TestCreatePostCaptionBoundary(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)

	in := validInput()
	in.Caption = strings.Repeat("a", models.CaptionMaxLen)
	post, err := Create(db, owner.ID, in)
	require.NoError(t, err)
	assert.Len(t, post.Caption, models.CaptionMaxLen)

	in.Caption = strings.Repeat("a", models.CaptionMaxLen+1)
	_, err = Create(db, owner.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreatePostCaptionLimitCountsCharactersNotBytes(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)

	// 2200 two-byte characters is 4400 bytes but exactly the allowance.
	in := validInput()
	in.Caption = strings.Repeat("é", models.CaptionMaxLen)
	_, err := Create(db, owner.ID, in)
	require.NoError(t, err)

	in.Caption = strings.Repeat("é", models.CaptionMaxLen+1)
	_, err = Create(db, owner.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreatePostLocationBoundary(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)

	in := validInput()
	in.Location = strings.Repeat("x", models.LocationMaxLen)
	_, err := Create(db, owner.ID, in)
	require.NoError(t, err)

	in.Location = strings.Repeat("x", models.LocationMaxLen+1)
	_, err = Create(db, owner.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreatePostMediaKind(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)

	in := validInput()
	in.MediaKind = models.MediaKindVideo
	_, err := Create(db, owner.ID, in)
	require.NoError(t, err)

	in.MediaKind = "gif"
	_, err = Create(db, owner.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreatePostRequiresDurableMedia(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)

	in := validInput()
	in.MediaURL = ""
	_, err := Create(db, owner.ID, in)
	assert.ErrorIs(t, err, apperrors.ErrUploadIncomplete)

	var rows int64
	require.NoError(t, db.Model(&models.Post{}).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)
	intruder := seedUser(t, db, "intruder", models.RoleUser)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)

	caption := "updated caption"
	_, err = Update(db, intruder.ID, post.ID, UpdateInput{Caption: &caption})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	updated, err := Update(db, owner.ID, post.ID, UpdateInput{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, caption, updated.Caption)

	tooLong := strings.Repeat("b", models.CaptionMaxLen+1)
	_, err = Update(db, owner.ID, post.ID, UpdateInput{Caption: &tooLong})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeletePostCascadesLedgerRows(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)
	fan := seedUser(t, db, "fan", models.RoleUser)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Like{ID: uuid.New(), UserID: fan.ID, PostID: post.ID}).Error)
	require.NoError(t, db.Create(&models.Save{ID: uuid.New(), UserID: fan.ID, PostID: post.ID}).Error)
	_, _, err = CreateComment(db, fan.ID, post.ID, "first!")
	require.NoError(t, err)

	_, err = Delete(db, owner.ID, owner.Role, post.ID)
	require.NoError(t, err)

	for _, model := range []interface{}{&models.Like{}, &models.Save{}, &models.Comment{}, &models.Post{}} {
		var rows int64
		require.NoError(t, db.Model(model).Count(&rows).Error)
		assert.EqualValues(t, 0, rows)
	}
}

func TestDeletePostAdminOverride(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)
	peer := seedUser(t, db, "peer", models.RoleUser)
	admin := seedUser(t, db, "admin", models.RoleAdmin)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)

	_, err = Delete(db, peer.ID, peer.Role, post.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = Delete(db, admin.ID, admin.Role, post.ID)
	require.NoError(t, err)
}

func TestCreateCommentValidation(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)
	commenter := seedUser(t, db, "commenter", models.RoleUser)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)

	_, _, err = CreateComment(db, commenter.ID, post.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, _, err = CreateComment(db, commenter.ID, uuid.New(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	comment, ownerID, err := CreateComment(db, commenter.ID, post.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID, "fan-out recipient is the post owner")
	assert.Equal(t, "hello", comment.Body)
}

func TestCommentsOldestFirst(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)

	_, _, err = CreateComment(db, owner.ID, post.ID, "first")
	require.NoError(t, err)
	_, _, err = CreateComment(db, owner.ID, post.ID, "second")
	require.NoError(t, err)

	rows, err := Comments(db, post.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Same-timestamp rows fall back to id order; assert by content instead.
	assert.ElementsMatch(t, []string{"first", "second"}, []string{rows[0].Body, rows[1].Body})
}

func TestMentionsExtraction(t *testing.T) {
	assert.Equal(t, []string{"alice", "bob_99"}, Mentions("gm @alice, have you met @bob_99? cc @alice"))
	assert.Equal(t, []string{"alice"}, Mentions("@alice leads"))
	assert.Nil(t, Mentions("mail me at someone@example.com"))
	assert.Nil(t, Mentions("no references here"))
	assert.Nil(t, Mentions("@ab too short"))
}

func TestCommentMentionNotifiesMentionedUser(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)
	alice := seedUser(t, db, "alice", models.RoleUser)
	bob := seedUser(t, db, "bob", models.RoleUser)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)

	prev := notifications.Default
	notifications.Default = notifications.NewDispatcher(db, 16)
	go notifications.Default.Run()
	defer func() { notifications.Default = prev }()

	NotifyMentions(db, bob.ID, post.ID, "nice one @alice, also @nosuchuser")
	notifications.Default.Close()

	var rows []models.Notification
	require.NoError(t, db.Where("kind = ?", models.NotificationMention).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, alice.ID, rows[0].RecipientID)
	assert.Equal(t, bob.ID, rows[0].ActorID)
	require.NotNil(t, rows[0].PostID)
	assert.Equal(t, post.ID, *rows[0].PostID)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db, "owner", models.RoleUser)
	commenter := seedUser(t, db, "commenter", models.RoleUser)
	bystander := seedUser(t, db, "bystander", models.RoleUser)

	post, err := Create(db, owner.ID, validInput())
	require.NoError(t, err)
	comment, _, err := CreateComment(db, commenter.ID, post.ID, "hello")
	require.NoError(t, err)

	err = DeleteComment(db, bystander.ID, bystander.Role, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Post owner may moderate comments on their post.
	err = DeleteComment(db, owner.ID, owner.Role, comment.ID)
	require.NoError(t, err)
}

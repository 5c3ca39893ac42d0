package interactions

import (
	"context"
	"errors"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/metrics"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/counts"
	"github.com/OnyeDev-hub/Reel-Nija/src/modules/notifications"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// State is the resulting side of a toggle.
type State string

const (
	StateOn  State = "on"
	StateOff State = "off"
)

// errLostInsertRace aborts the toggle transaction when a concurrent insert
// won the unique index; the caller re-reads the surviving state.
var errLostInsertRace = errors.New("lost insert race")

// ToggleLike flips the like edge for (actor, post). Exactly one row can ever
// exist per pair; a concurrent duplicate insert is resolved by re-reading
// the winner's row rather than failing.
func ToggleLike(db *gorm.DB, actorID, postID uuid.UUID) (State, error) {
	post, err := fetchPost(db, postID)
	if err != nil {
		return "", err
	}

	state, err := toggleRow(db,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("user_id = ? AND post_id = ?", actorID, postID).Delete(&models.Like{})
		},
		func(tx *gorm.DB) error {
			return tx.Create(&models.Like{ID: uuid.New(), UserID: actorID, PostID: postID}).Error
		},
		func(tx *gorm.DB) (bool, error) {
			return rowExists(tx.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", actorID, postID))
		},
	)
	if err != nil {
		return "", err
	}

	metrics.TogglesTotal.WithLabelValues("like", string(state)).Inc()
	counts.Default.InvalidatePost(context.Background(), postID)
	if state == StateOn {
		notifications.Default.Dispatch(notifications.LikeEvent(post.UserID, actorID, postID))
	}
	return state, nil
}

// ToggleSave flips the save edge for (actor, post). Saves are private, so no
// notification is emitted.
func ToggleSave(db *gorm.DB, actorID, postID uuid.UUID) (State, error) {
	if _, err := fetchPost(db, postID); err != nil {
		return "", err
	}

	state, err := toggleRow(db,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("user_id = ? AND post_id = ?", actorID, postID).Delete(&models.Save{})
		},
		func(tx *gorm.DB) error {
			return tx.Create(&models.Save{ID: uuid.New(), UserID: actorID, PostID: postID}).Error
		},
		func(tx *gorm.DB) (bool, error) {
			return rowExists(tx.Model(&models.Save{}).Where("user_id = ? AND post_id = ?", actorID, postID))
		},
	)
	if err != nil {
		return "", err
	}

	metrics.TogglesTotal.WithLabelValues("save", string(state)).Inc()
	counts.Default.InvalidatePost(context.Background(), postID)
	return state, nil
}

// ToggleFollow flips the follow edge follower -> followee. Following
// yourself is rejected before any row is touched.
func ToggleFollow(db *gorm.DB, followerID, followeeID uuid.UUID) (State, error) {
	if followerID == followeeID {
		return "", apperrors.ErrInvalidSelfReference
	}
	if err := userExists(db, followeeID); err != nil {
		return "", err
	}

	state, err := toggleRow(db,
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&models.Follow{})
		},
		func(tx *gorm.DB) error {
			return tx.Create(&models.Follow{ID: uuid.New(), FollowerID: followerID, FolloweeID: followeeID}).Error
		},
		func(tx *gorm.DB) (bool, error) {
			return rowExists(tx.Model(&models.Follow{}).Where("follower_id = ? AND followee_id = ?", followerID, followeeID))
		},
	)
	if err != nil {
		return "", err
	}

	metrics.TogglesTotal.WithLabelValues("follow", string(state)).Inc()
	counts.Default.InvalidateUser(context.Background(), followerID)
	counts.Default.InvalidateUser(context.Background(), followeeID)
	if state == StateOn {
		notifications.Default.Dispatch(notifications.FollowEvent(followeeID, followerID))
	}
	return state, nil
}

// FollowStatus reports the relationship between viewer and other the way the
// profile page renders it.
func FollowStatus(db *gorm.DB, viewerID, otherID uuid.UUID) (string, error) {
	viewerFollows, err := rowExists(db.Model(&models.Follow{}).Where("follower_id = ? AND followee_id = ?", viewerID, otherID))
	if err != nil {
		return "", apperrors.FromStore(err)
	}
	otherFollows, err := rowExists(db.Model(&models.Follow{}).Where("follower_id = ? AND followee_id = ?", otherID, viewerID))
	if err != nil {
		return "", apperrors.FromStore(err)
	}

	switch {
	case viewerFollows:
		return "following", nil
	case otherFollows:
		return "follow back", nil
	default:
		return "follow", nil
	}
}

// toggleRow flips one ledger row, retrying the whole attempt while the
// store is unavailable. A transient failure rolls the transaction back, so
// re-running it is safe.
func toggleRow(db *gorm.DB, del func(*gorm.DB) *gorm.DB, ins func(*gorm.DB) error, exists func(*gorm.DB) (bool, error)) (State, error) {
	var state State
	err := apperrors.Retry(context.Background(), func() error {
		var terr error
		state, terr = toggleOnce(db, del, ins, exists)
		return terr
	})
	return state, err
}

// toggleOnce runs the delete-first toggle in a single transaction. Deleting a
// missing row is a no-op that falls through to the insert; an insert that
// loses the unique-index race rolls the transaction back and re-reads the
// current state outside it, so the caller never sees AlreadyExists.
func toggleOnce(db *gorm.DB, del func(*gorm.DB) *gorm.DB, ins func(*gorm.DB) error, exists func(*gorm.DB) (bool, error)) (State, error) {
	state := StateOff
	err := db.Transaction(func(tx *gorm.DB) error {
		res := del(tx)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			state = StateOff
			return nil
		}
		if err := ins(tx); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errLostInsertRace
			}
			return err
		}
		state = StateOn
		return nil
	})
	if errors.Is(err, errLostInsertRace) {
		on, rerr := exists(db)
		if rerr != nil {
			return "", apperrors.FromStore(rerr)
		}
		if on {
			state = StateOn
		} else {
			state = StateOff
		}
		return state, nil
	}
	if err != nil {
		return "", apperrors.FromStore(err)
	}
	return state, nil
}

func rowExists(q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func fetchPost(db *gorm.DB, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := db.Select("id", "user_id").First(&post, "id = ?", postID).Error; err != nil {
		return nil, apperrors.FromStore(err)
	}
	return &post, nil
}

func userExists(db *gorm.DB, userID uuid.UUID) error {
	var user models.User
	if err := db.Select("id").First(&user, "id = ?", userID).Error; err != nil {
		return apperrors.FromStore(err)
	}
	return nil
}

package notifications

import (
	"time"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/metrics"
	"github.com/OnyeDev-hub/Reel-Nija/src/core/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultBufferSize = 1024
	deliveryAttempts  = 3
	retryBaseDelay    = 100 * time.Millisecond
)

// Default is the process-wide dispatcher, wired in main. Dispatching on a
// nil dispatcher is a no-op so the ledger never depends on fan-out being up.
var Default *Dispatcher

// Event is a pending notification. Kind decides which references are set;
// the constructors below are the only way events are built, so an invalid
// combination is unrepresentable at the call sites.
type Event struct {
	RecipientID uuid.UUID
	ActorID     uuid.UUID
	Kind        string
	PostID      *uuid.UUID
	CommentID   *uuid.UUID
}

func LikeEvent(recipient, actor, post uuid.UUID) Event {
	return Event{RecipientID: recipient, ActorID: actor, Kind: models.NotificationLike, PostID: &post}
}

func CommentEvent(recipient, actor, post, comment uuid.UUID) Event {
	return Event{RecipientID: recipient, ActorID: actor, Kind: models.NotificationComment, PostID: &post, CommentID: &comment}
}

func FollowEvent(recipient, actor uuid.UUID) Event {
	return Event{RecipientID: recipient, ActorID: actor, Kind: models.NotificationFollow}
}

func MentionEvent(recipient, actor, post uuid.UUID) Event {
	return Event{RecipientID: recipient, ActorID: actor, Kind: models.NotificationMention, PostID: &post}
}

// Dispatcher writes notification rows from a single worker goroutine, so
// notifications for the same recipient land in the order their triggering
// writes dispatched them. The worker stamps each row with a strictly
// increasing sequence number, the listing tiebreaker for rows that share a
// timestamp. Fan-out is best effort: a failed write is retried a bounded
// number of times, then logged and dropped, never failing the operation
// that triggered it.
type Dispatcher struct {
	db   *gorm.DB
	ch   chan Event
	done chan struct{}
	seq  int64
}

func NewDispatcher(db *gorm.DB, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	d := &Dispatcher{
		db:   db,
		ch:   make(chan Event, bufferSize),
		done: make(chan struct{}),
	}
	// Resume the sequence past existing rows so ordering survives restarts.
	if db != nil {
		if err := db.Model(&models.Notification{}).Select("COALESCE(MAX(seq), 0)").Scan(&d.seq).Error; err != nil {
			log.Warnf("notification sequence recovery failed: %v", err)
		}
	}
	return d
}

// Run consumes events until Close. Start it once, from main.
func (d *Dispatcher) Run() {
	for event := range d.ch {
		d.deliver(event)
	}
	close(d.done)
}

// Dispatch enqueues a notification. Self-actions are skipped silently: no
// record, no error. Called only after the triggering ledger write has
// committed.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil {
		return
	}
	if event.RecipientID == event.ActorID {
		return
	}
	select {
	case d.ch <- event:
	default:
		metrics.NotificationFailures.Inc()
		log.WithField("kind", event.Kind).Warn("notification queue full, event dropped")
	}
}

// Close stops the worker after draining queued events.
func (d *Dispatcher) Close() {
	close(d.ch)
	<-d.done
}

func (d *Dispatcher) deliver(event Event) {
	d.seq++
	row := models.Notification{
		ID:          uuid.New(),
		Seq:         d.seq,
		RecipientID: event.RecipientID,
		ActorID:     event.ActorID,
		Kind:        event.Kind,
		PostID:      event.PostID,
		CommentID:   event.CommentID,
	}

	var err error
	for attempt := 1; attempt <= deliveryAttempts; attempt++ {
		if err = d.db.Create(&row).Error; err == nil {
			metrics.NotificationsTotal.WithLabelValues(event.Kind).Inc()
			return
		}
		time.Sleep(retryBaseDelay * time.Duration(attempt))
	}

	metrics.NotificationFailures.Inc()
	log.WithFields(log.Fields{
		"kind":      event.Kind,
		"recipient": event.RecipientID,
	}).Errorf("notification write abandoned: %v", err)
}

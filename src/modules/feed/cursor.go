package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/OnyeDev-hub/Reel-Nija/src/core/apperrors"
	"github.com/google/uuid"
)

// cursor pins a position in the (created_at, id) descending total order.
// Encoded as "<unixmicro>::<uuid>"; an empty string means start from the top.
type cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func parseCursor(raw string) (*cursor, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, "::")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: malformed cursor", apperrors.ErrValidationFailed)
	}

	micros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor timestamp", apperrors.ErrValidationFailed)
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor id", apperrors.ErrValidationFailed)
	}

	return &cursor{CreatedAt: time.UnixMicro(micros).UTC(), ID: id}, nil
}

func encodeCursor(createdAt time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%d::%s", createdAt.UnixMicro(), id)
}

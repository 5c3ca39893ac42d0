package authentication

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaultUsername(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-e5f6-4789-8abc-def012345678")
	username := DefaultUsername(id)

	assert.Equal(t, "user_a1b2c3d4e5f6", username)
	assert.GreaterOrEqual(t, len(username), 3)
	assert.LessOrEqual(t, len(username), 30)
}

func TestDefaultUsernameDistinctPerUser(t *testing.T) {
	a := DefaultUsername(uuid.New())
	b := DefaultUsername(uuid.New())
	assert.NotEqual(t, a, b)
}

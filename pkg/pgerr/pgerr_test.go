package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "uq_booking_slots_active"}
	wrapped := fmt.Errorf("insert: %w", unique)

	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsSerializationFailure(wrapped))
	assert.Equal(t, "uq_booking_slots_active", Constraint(wrapped))

	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))

	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.Equal(t, "", Constraint(errors.New("plain")))
}

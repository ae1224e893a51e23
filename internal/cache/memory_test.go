package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory(0)
	songID := uuid.New()

	_, ok := m.Get(context.TODO(), songID, 1)
	assert.False(t, ok)

	m.Set(context.TODO(), songID, 1, "A\nB\nC")

	got, ok := m.Get(context.TODO(), songID, 1)
	assert.True(t, ok)
	assert.Equal(t, "A\nB\nC", got)

	// versions are distinct entries
	_, ok = m.Get(context.TODO(), songID, 2)
	assert.False(t, ok)
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory(0)
	songID := uuid.New()

	m.Set(context.TODO(), songID, 1, "one")
	m.Set(context.TODO(), songID, 2, "two")

	m.Delete(context.TODO(), songID, 1)

	_, ok := m.Get(context.TODO(), songID, 1)
	assert.False(t, ok)
	got, ok := m.Get(context.TODO(), songID, 2)
	assert.True(t, ok)
	assert.Equal(t, "two", got)

	// deleting an absent entry is a no-op
	m.Delete(context.TODO(), songID, 9)
}

func TestMemory_Eviction(t *testing.T) {
	m := NewMemory(2)
	songID := uuid.New()

	m.Set(context.TODO(), songID, 1, "one")
	m.Set(context.TODO(), songID, 2, "two")
	m.Set(context.TODO(), songID, 3, "three")

	assert.LessOrEqual(t, len(m.entries), 2)

	got, ok := m.Get(context.TODO(), songID, 3)
	assert.True(t, ok)
	assert.Equal(t, "three", got)
}

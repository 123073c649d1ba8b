package cases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRegistryRoundTrip(t *testing.T) {
	reg := NewSessionRegistry(0)
	set := testStagingSet()

	id := reg.Create(set)
	require.NotEmpty(t, id)

	got, err := reg.Get(id)
	require.NoError(t, err)
	assert.Same(t, set, got)
	assert.Equal(t, 1, reg.Len())
}

func TestSessionRegistryUnknownID(t *testing.T) {
	reg := NewSessionRegistry(0)
	_, err := reg.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRegistryDiscard(t *testing.T) {
	reg := NewSessionRegistry(0)
	id := reg.Create(testStagingSet())

	reg.Discard(id)
	_, err := reg.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Discarding twice is harmless.
	reg.Discard(id)
}

func TestSessionRegistryExpiry(t *testing.T) {
	reg := NewSessionRegistry(10 * time.Millisecond)
	id := reg.Create(testStagingSet())

	time.Sleep(30 * time.Millisecond)

	_, err := reg.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, reg.Len())
}

func TestSessionRegistrySweep(t *testing.T) {
	reg := NewSessionRegistry(10 * time.Millisecond)
	reg.Create(testStagingSet())
	reg.Create(testStagingSet())

	time.Sleep(30 * time.Millisecond)
	reg.sweep()

	assert.Equal(t, 0, reg.Len())
}

package services

import (
	"errors"
	"testing"

	"shelfwise/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_Register(t *testing.T) {
	r := NewRoster()

	member, err := r.Register("Ann", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), member.ID)
	assert.Equal(t, "Ann", member.Name)
	assert.Equal(t, "a@x.com", member.Contact)

	second, err := r.Register("Bob", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestRoster_Register_EmptyName(t *testing.T) {
	r := NewRoster()
	_, err := r.Register("  ", "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, r.List())
}

func TestRoster_Lookup(t *testing.T) {
	r := NewRoster()
	member, err := r.Register("Ann", "a@x.com")
	require.NoError(t, err)

	got, err := r.Lookup(member.ID)
	require.NoError(t, err)
	assert.Equal(t, member, got)

	_, err = r.Lookup(99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRoster_Remove(t *testing.T) {
	r := NewRoster()
	member, err := r.Register("Ann", "a@x.com")
	require.NoError(t, err)

	require.NoError(t, r.Remove(member.ID))
	assert.Empty(t, r.List())

	err = r.Remove(member.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRoster_List_RegistrationOrder(t *testing.T) {
	r := NewRoster()
	for _, name := range []string{"Carol", "Ann", "Bob"} {
		_, err := r.Register(name, "")
		require.NoError(t, err)
	}

	members := r.List()
	require.Len(t, members, 3)
	assert.Equal(t, "Carol", members[0].Name)
	assert.Equal(t, "Ann", members[1].Name)
	assert.Equal(t, "Bob", members[2].Name)
}

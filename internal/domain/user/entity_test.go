package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Lifecycle(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	u := NewUser(Registration{Login: "alice", Password: "pw", Name: "Alice"}, "", at)

	require.True(t, u.IsActive())
	assert.Equal(t, Stamp{At: at}, u.Created)
	assert.Nil(t, u.Modified)

	revoked := u.Revoke("admin", at.Add(time.Hour))
	assert.True(t, u.IsActive(), "receiver is not mutated")
	require.False(t, revoked.IsActive())
	assert.Equal(t, &Stamp{At: at.Add(time.Hour), By: "admin"}, revoked.Revoked)
	assert.Nil(t, revoked.Modified)

	restored := revoked.Restore()
	assert.True(t, restored.IsActive())
	assert.Nil(t, restored.Revoked)
	assert.Equal(t, u.ID, restored.ID)
}

func TestUser_WithChanges(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	u := NewUser(Registration{Login: "alice", Password: "pw", Name: "Alice", Birthday: &b}, "admin", at)

	name := "Alicia"
	changed := u.WithProfile(ProfileChange{Name: &name}, "alice", at.Add(time.Minute))
	assert.Equal(t, "Alicia", changed.Name)
	assert.Equal(t, b, *changed.Birthday)
	assert.Equal(t, &Stamp{At: at.Add(time.Minute), By: "alice"}, changed.Modified)
	assert.Equal(t, "Alice", u.Name)

	assert.Equal(t, "pw2", u.WithPassword("pw2", "admin", at).Password)
	moved := u.WithLogin("alicia", "admin", at)
	assert.Equal(t, "alicia", moved.Login)
	assert.Equal(t, "admin", moved.Modified.By)
}

func TestUser_AgeAt(t *testing.T) {
	b := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	u := User{Birthday: &b}

	assert.Equal(t, 25, u.AgeAt(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 26, u.AgeAt(time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, User{}.AgeAt(b))
}

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCreateAndGet(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(time.Hour)

	sess, err := sm.Create("alice")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.Username)

	got, ok := sm.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)
}

func TestSessionIDsAreUnique(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		sess, err := sm.Create("alice")
		require.NoError(t, err)
		assert.False(t, seen[sess.ID], "duplicate session id")
		seen[sess.ID] = true
	}
}

func TestSessionExpires(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(time.Millisecond)

	sess, err := sm.Create("alice")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, ok := sm.Get(sess.ID)
	assert.False(t, ok, "expired session must not resolve")
}

func TestSessionDelete(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(time.Hour)

	sess, err := sm.Create("alice")
	require.NoError(t, err)

	sm.Delete(sess.ID)

	_, ok := sm.Get(sess.ID)
	assert.False(t, ok)
}

func TestSessionFromRequest(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(time.Hour)
	sess, err := sm.Create("alice")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: sess.ID})

	got, ok := sm.FromRequest(r)
	require.True(t, ok)
	assert.Equal(t, "alice", got.Username)

	// No cookie at all.
	bare := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	_, ok = sm.FromRequest(bare)
	assert.False(t, ok)

	// Cookie naming a session that does not exist.
	forged := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	forged.AddCookie(&http.Cookie{Name: sessionCookie, Value: "nope"})
	_, ok = sm.FromRequest(forged)
	assert.False(t, ok)
}

func TestSetCookieAttributes(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(time.Hour)
	w := httptest.NewRecorder()
	sm.SetCookie(w, "abc", false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, sessionCookie, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
}

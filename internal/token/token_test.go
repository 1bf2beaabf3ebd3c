package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evermart/shop-api/internal/domain/user"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	u := &user.User{ID: "u1", Role: user.RoleAdmin}

	signed, err := m.Issue(u)
	require.NoError(t, err)

	claims, err := m.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_WrongSecret(t *testing.T) {
	m := NewManager([]byte("secret-a"), time.Hour)
	signed, err := m.Issue(&user.User{ID: "u1", Role: user.RoleUser})
	require.NoError(t, err)

	other := NewManager([]byte("secret-b"), time.Hour)
	_, err = other.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Minute)
	signed, err := m.Issue(&user.User{ID: "u1", Role: user.RoleUser})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	_, err := m.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRemaining(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	signed, err := m.Issue(&user.User{ID: "u1", Role: user.RoleUser})
	require.NoError(t, err)

	claims, err := m.Verify(signed)
	require.NoError(t, err)

	rem := m.Remaining(claims)
	assert.Greater(t, rem, 55*time.Minute)
	assert.LessOrEqual(t, rem, time.Hour)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, time.Duration(0), m.Remaining(claims))
}

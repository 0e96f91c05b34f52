package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/paletar/paletar/internal/shared"
)

type mockRepo struct {
	users map[string]*User
}

func (m *mockRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) FindByID(_ context.Context, id int64) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newRepoWithUser(t *testing.T, email, password string, active bool) *mockRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockRepo{users: map[string]*User{
		email: {
			ID:           1,
			Email:        email,
			PasswordHash: string(hash),
			FullName:     "Ana Ionescu",
			Role:         "sales",
			Active:       active,
		},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "ana@paletar.local", "secret123", true))

	user, err := svc.Authenticate(context.Background(), "ana@paletar.local", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "sales", user.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "ana@paletar.local", "secret123", true))

	_, err := svc.Authenticate(context.Background(), "ana@paletar.local", "nope")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "ana@paletar.local", "secret123", true))

	_, err := svc.Authenticate(context.Background(), "ghost@paletar.local", "secret123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	svc := NewService(newRepoWithUser(t, "ana@paletar.local", "secret123", false))

	_, err := svc.Authenticate(context.Background(), "ana@paletar.local", "secret123")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

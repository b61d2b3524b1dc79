package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edtech-progress-api/internal/models"
	appErrors "github.com/noah-isme/edtech-progress-api/pkg/errors"
)

type mockAuthRepo struct {
	users   map[string]*models.User
	created []*models.User
	nextID  int64
}

func newMockAuthRepo() *mockAuthRepo {
	return &mockAuthRepo{users: make(map[string]*models.User)}
}

func (m *mockAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockAuthRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.users[user.Username] = user
	m.created = append(m.created, user)
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret:   "secret",
		TokenExpiry:   time.Hour,
		Issuer:        "test",
		AdminUsername: "admin",
		AdminPassword: "admin123",
	})
}

func TestAuthenticateSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockAuthRepo()
	repo.users["alice"] = &models.User{ID: 1, Username: "alice", PasswordHash: string(hash), Role: models.RoleStudent}
	svc := newTestAuthService(repo)

	user, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "alice", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	repo := newMockAuthRepo()
	repo.users["alice"] = &models.User{ID: 1, Username: "alice", PasswordHash: string(hash), Role: models.RoleStudent}
	svc := newTestAuthService(repo)

	_, wrongPass := svc.Authenticate(context.Background(), models.LoginRequest{Username: "alice", Password: "nope"})
	_, unknownUser := svc.Authenticate(context.Background(), models.LoginRequest{Username: "ghost", Password: "nope"})

	require.Error(t, wrongPass)
	require.Error(t, unknownUser)
	assert.Equal(t, appErrors.FromError(wrongPass).Code, appErrors.FromError(unknownUser).Code)
	assert.Equal(t, appErrors.FromError(wrongPass).Message, appErrors.FromError(unknownUser).Message)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(wrongPass).Code)
}

func TestEnsureDefaultAdminSeedsWhenEmpty(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "admin", repo.created[0].Username)
	assert.Equal(t, models.RoleAdmin, repo.created[0].Role)

	admin, err := svc.Authenticate(context.Background(), models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.Authenticate(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestEnsureDefaultAdminSkipsWhenPopulated(t *testing.T) {
	repo := newMockAuthRepo()
	repo.users["someone"] = &models.User{ID: 1, Username: "someone", Role: models.RoleStudent}
	svc := newTestAuthService(repo)

	require.NoError(t, svc.EnsureDefaultAdmin(context.Background()))
	assert.Empty(t, repo.created)
}

func TestIssueAndValidateToken(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	user := &models.User{ID: 9, Username: "alice", Role: models.RoleStudent}
	token, expiresAt, err := svc.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

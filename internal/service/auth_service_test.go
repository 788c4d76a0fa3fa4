package service

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/internal/domain"
	"github.com/vidora/vidora-backend/internal/repository"
	"github.com/vidora/vidora-backend/pkg/jwt"
)

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager("test-secret-key-for-testing-only-32b!", "test-refresh-secret-for-testing-32b!", 900, 86400)
}

func newAuthFixture(t *testing.T) (AuthService, repository.UserRepository, *fakeMedia) {
	t.Helper()
	users := repository.NewUserRepository(newServiceTestDB(t))
	media := &fakeMedia{}
	return NewAuthService(users, newTestJWTManager(), media), users, media
}

func registerRequest(username string) *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Username: username,
		FullName: "Test " + username,
		Email:    username + "@example.com",
		Password: "password123",
		Avatar:   &multipart.FileHeader{Filename: "avatar.png", Size: 10},
	}
}

func TestRegister_Success(t *testing.T) {
	svc, users, media := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, registerRequest("Alice"))

	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, 1, media.uploads)

	stored, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.Password)
	assert.Equal(t, result.RefreshToken, stored.RefreshToken)
}

func TestRegister_AvatarRequired(t *testing.T) {
	svc, _, media := newAuthFixture(t)
	req := registerRequest("bob")
	req.Avatar = nil

	_, err := svc.Register(context.Background(), req)

	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Equal(t, 0, media.uploads)
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("carol"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("CAROL"))
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestRegister_MediaUnavailable(t *testing.T) {
	svc, users, media := newAuthFixture(t)
	media.failWith = common.ErrMediaUnavailable

	_, err := svc.Register(context.Background(), registerRequest("dave"))

	assert.ErrorIs(t, err, common.ErrMediaUnavailable)
	u, err := users.FindByUsername(context.Background(), "dave")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest("erin"))
	require.NoError(t, err)

	res, err := svc.Login(ctx, &domain.LoginRequest{Username: "erin", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	res, err = svc.Login(ctx, &domain.LoginRequest{Email: "ERIN@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "erin", res.User.Username)
}

func TestLogin_Failures(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest("frank"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, &domain.LoginRequest{Username: "frank", Password: "wrong-password"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	_, err = svc.Login(ctx, &domain.LoginRequest{Password: "password123"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	first, err := svc.Register(ctx, registerRequest("gina"))
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The rotated-out token is no longer accepted
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	// Access tokens are not refresh tokens
	_, err = svc.Refresh(ctx, second.AccessToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLogout_InvalidatesRefreshToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, registerRequest("hank"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.User.ID))

	_, err = svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	res, err := svc.Register(ctx, registerRequest("iris"))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, res.User.ID, &domain.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpassword1"})
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(ctx, res.User.ID, &domain.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword1"}))

	_, err = svc.Login(ctx, &domain.LoginRequest{Username: "iris", Password: "newpassword1"})
	assert.NoError(t, err)
}

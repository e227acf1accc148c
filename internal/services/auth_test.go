package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/pathways-backend/internal/platform/apierr"
	"github.com/yungbote/pathways-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathways-backend/internal/services"
)

func requireAPIErr(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var ae *apierr.Error
	require.True(t, errors.As(err, &ae), "want *apierr.Error, got %T: %v", err, err)
	require.Equal(t, status, ae.Status)
	require.Equal(t, code, ae.Code)
}

func TestSignupAndLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.auth.Signup(ctx, services.SignupInput{Email: " Parent@Example.com ", Password: "password123", Name: "Sam"})
	require.NoError(t, err)
	require.Equal(t, "parent@example.com", res.User.Email)
	require.NotEqual(t, "password123", res.User.Password)
	require.Equal(t, 3600, res.ExpiresIn)
	require.NotEmpty(t, res.Token)

	login, err := h.auth.Login(ctx, "PARENT@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, res.User.ID, login.User.ID)

	authed, err := h.auth.SetContextFromToken(ctx, login.Token)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(authed)
	require.NotNil(t, rd)
	require.Equal(t, res.User.ID, rd.UserID)
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.auth.Signup(ctx, services.SignupInput{Email: "nope", Password: "password123", Name: "A"})
	requireAPIErr(t, err, http.StatusBadRequest, "invalid_email")

	_, err = h.auth.Signup(ctx, services.SignupInput{Email: "a@b.co", Password: "short", Name: "A"})
	requireAPIErr(t, err, http.StatusBadRequest, "invalid_password")

	_, err = h.auth.Signup(ctx, services.SignupInput{Email: "a@b.co", Password: "password123", Name: "  "})
	requireAPIErr(t, err, http.StatusBadRequest, "invalid_name")

	_, err = h.auth.Signup(ctx, services.SignupInput{Email: "a@b.co", Password: "password123", Name: "A"})
	require.NoError(t, err)
	_, err = h.auth.Signup(ctx, services.SignupInput{Email: "A@B.co", Password: "password123", Name: "B"})
	requireAPIErr(t, err, http.StatusBadRequest, "email_taken")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newHarness(t)
	h.signup(t, "x@y.org")

	_, err := h.auth.Login(context.Background(), "x@y.org", "wrong-password")
	requireAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")

	_, err = h.auth.Login(context.Background(), "missing@y.org", "password123")
	requireAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")
}

func TestSetContextFromTokenRejects(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	sign := func(secret string, method jwt.SigningMethod, claims jwt.RegisteredClaims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	valid := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": sign("other", jwt.SigningMethodHS256, valid),
		"wrong alg":    sign("test-secret", jwt.SigningMethodHS512, valid),
		"expired": sign("test-secret", jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   valid.Subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}),
		"no expiry":     sign("test-secret", jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: valid.Subject}),
		"bad subject":   sign("test-secret", jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "abc", ExpiresAt: valid.ExpiresAt}),
		"unknown user":  sign("test-secret", jwt.SigningMethodHS256, valid),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.auth.SetContextFromToken(ctx, tok)
			requireAPIErr(t, err, http.StatusUnauthorized, "invalid_token")
		})
	}
}

func TestUserProfile(t *testing.T) {
	h := newHarness(t)
	ctx, u := h.signup(t, "first@example.com")
	h.signup(t, "second@example.com")

	me, err := h.user.GetMe(ctx)
	require.NoError(t, err)
	require.Equal(t, u.ID, me.ID)

	_, err = h.user.UpdateProfile(ctx, services.UpdateProfileInput{})
	requireAPIErr(t, err, http.StatusBadRequest, "invalid_request")

	taken := "Second@example.com"
	_, err = h.user.UpdateProfile(ctx, services.UpdateProfileInput{Email: &taken})
	requireAPIErr(t, err, http.StatusBadRequest, "email_taken")

	name, email := "Renamed", "First@Example.com"
	got, err := h.user.UpdateProfile(ctx, services.UpdateProfileInput{Name: &name, Email: &email})
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, "first@example.com", got.Email)

	_, err = h.user.GetMe(anonymous())
	requireAPIErr(t, err, http.StatusUnauthorized, "unauthorized")
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	ctx, u := h.signup(t, "pw@example.com")

	err := h.user.ChangePassword(ctx, "wrong-one", "newpassword1")
	requireAPIErr(t, err, http.StatusBadRequest, "invalid_password")

	err = h.user.ChangePassword(ctx, "password123", "short")
	requireAPIErr(t, err, http.StatusBadRequest, "invalid_password")

	require.NoError(t, h.user.ChangePassword(ctx, "password123", "newpassword1"))

	_, err = h.auth.Login(context.Background(), u.Email, "password123")
	requireAPIErr(t, err, http.StatusUnauthorized, "invalid_credentials")
	_, err = h.auth.Login(context.Background(), u.Email, "newpassword1")
	require.NoError(t, err)

	reloaded, err := h.user.GetMe(ctx)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("newpassword1")))
}

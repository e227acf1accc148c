package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	domainagg "github.com/yungbote/pathways-backend/internal/domain/aggregates"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
	"github.com/yungbote/pathways-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

const minPasswordLength = 8

type AuthConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type AuthResult struct {
	User      *types.User
	Token     string
	ExpiresIn int
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	cfg      AuthConfig
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, cfg AuthConfig) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		db:       db,
		log:      logger.OrNop(log).With("service", "AuthService"),
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.cfg.AccessTTL }

func (as *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email, err := normalizeEmailInput(in.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Invalid("invalid_name", "name is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.Invalid("invalid_password", "password must be at least %d characters", minPasswordLength)
	}
	hash, err := hashPassword(in.Password, as.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &types.User{Email: email, Name: name, Password: hash}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		taken, err := as.userRepo.EmailExists(dbc, email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken
		}
		_, err = as.userRepo.Create(dbc, []*types.User{user})
		return err
	})
	if err != nil {
		return nil, mapUserWriteError("Auth.Signup", err)
	}

	token, err := as.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	as.log.Info("user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Token: token, ExpiresIn: int(as.cfg.AccessTTL.Seconds())}, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	invalid := apierr.Unauthorized("invalid_credentials", errors.New("invalid email or password"))
	user, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, aggregates.MapError("Auth.Login", err)
	}
	if user == nil {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, invalid
	}
	token, err := as.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresIn: int(as.cfg.AccessTTL.Seconds())}, nil
}

func (as *authService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTTL)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// SetContextFromToken verifies the token and that its subject still exists,
// then attaches the caller identity to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid token: %w", err))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", errors.New("invalid token subject"))
	}
	user, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return ctx, aggregates.MapError("Auth.SetContextFromToken", err)
	}
	if user == nil {
		return ctx, apierr.Unauthorized("invalid_token", errors.New("user no longer exists"))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: userID, Token: tokenString}), nil
}

var errEmailTaken = apierr.Invalid("email_taken", "email already registered")

// mapUserWriteError turns a unique-index race on email into the same error
// as the explicit existence check.
func mapUserWriteError(op string, err error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	mapped := aggregates.MapError(op, err)
	if domainagg.IsCode(mapped, domainagg.CodeConflict) {
		return errEmailTaken
	}
	return mapped
}

func normalizeEmailInput(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw || !strings.Contains(raw, "@") {
		return "", apierr.Invalid("invalid_email", "invalid email address")
	}
	return strings.ToLower(raw), nil
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apierr.Invalid("invalid_password", "password is too long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// requireUserID returns the authenticated caller or a 401.
func requireUserID(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
	}
	return rd.UserID, nil
}

// CurrentUserID returns the authenticated caller or a 401.
func CurrentUserID(ctx context.Context) (uuid.UUID, error) {
	return requireUserID(ctx)
}

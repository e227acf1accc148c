package services

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/pathways-backend/internal/data/aggregates"
	"github.com/yungbote/pathways-backend/internal/data/repos"
	types "github.com/yungbote/pathways-backend/internal/domain"
	"github.com/yungbote/pathways-backend/internal/platform/apierr"
	"github.com/yungbote/pathways-backend/internal/platform/dbctx"
	"github.com/yungbote/pathways-backend/internal/platform/logger"
)

type UpdateProfileInput struct {
	Name  *string
	Email *string
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*types.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

type userService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	bcryptCost int
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, bcryptCost int) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		db:         db,
		log:        logger.OrNop(log).With("service", "UserService"),
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, aggregates.MapError("User.GetMe", err)
	}
	if user == nil {
		return nil, apierr.NotFound("user_not_found", "user not found")
	}
	return user, nil
}

func (us *userService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*types.User, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name == nil && in.Email == nil {
		return nil, apierr.Invalid("invalid_request", "at least one field (name or email) must be provided")
	}
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apierr.Invalid("invalid_name", "name cannot be empty")
		}
		updates["name"] = name
	}
	var email string
	if in.Email != nil {
		email, err = normalizeEmailInput(*in.Email)
		if err != nil {
			return nil, err
		}
		updates["email"] = email
	}

	var out *types.User
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if email != "" {
			taken, err := us.userRepo.EmailExists(dbc, email, userID)
			if err != nil {
				return err
			}
			if taken {
				return errEmailTaken
			}
		}
		if err := us.userRepo.UpdateFields(dbc, userID, updates); err != nil {
			return err
		}
		u, err := us.userRepo.GetByID(dbc, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apierr.NotFound("user_not_found", "user not found")
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, mapUserWriteError("User.UpdateProfile", err)
	}
	return out, nil
}

func (us *userService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	userID, err := requireUserID(ctx)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return apierr.Invalid("invalid_password", "new password must be at least %d characters", minPasswordLength)
	}
	user, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return aggregates.MapError("User.ChangePassword", err)
	}
	if user == nil {
		return apierr.NotFound("user_not_found", "user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return apierr.Invalid("invalid_password", "current password is incorrect")
	}
	if currentPassword == newPassword {
		return apierr.Invalid("invalid_password", "new password must differ from the current password")
	}
	hash, err := hashPassword(newPassword, us.bcryptCost)
	if err != nil {
		return err
	}
	err = us.userRepo.UpdateFields(dbctx.Context{Ctx: ctx}, userID, map[string]interface{}{
		"password":   hash,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return aggregates.MapError("User.ChangePassword", err)
	}
	us.log.Info("password changed", "user_id", userID)
	return nil
}

// Package services holds the server-side account logic: sign-up, password
// login, profile lookup and update. Sessions are stateless tokens issued by
// auth.TokenService.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/dbx"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"github.com/dmitrijs2005/finassist/internal/server/models"
	"github.com/dmitrijs2005/finassist/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	bcryptCost  int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenService, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, repomanager: m, tokens: tokens, bcryptCost: bcryptCost}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return nil
}

// Signup registers a new account and issues its first session token.
func (s *UserService) Signup(ctx context.Context, fullName, email, password string) (*models.User, *auth.Token, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}

	// The token is issued before the insert so a failure here stores nothing.
	// The cause is not wrapped: it must not surface as a client error.
	token, err := s.tokens.Issue(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: issue token: %v", common.ErrorInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		IsActive:     true,
	}

	user, err = s.repomanager.Users(s.db).Insert(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, token, nil
}

// Login checks the password and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *auth.Token, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	if !user.IsActive {
		return nil, nil, common.ErrUserInactive
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("error issuing token: %w", err)
	}

	return user, token, nil
}

// CurrentUser resolves the subject of a validated token to an active account.
func (s *UserService) CurrentUser(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !user.IsActive {
		return nil, common.ErrUserInactive
	}
	return user, nil
}

// UpdateUser applies upd to the account of email inside one transaction.
func (s *UserService) UpdateUser(ctx context.Context, email string, upd models.UserUpdate) (*models.User, error) {
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: fullname must not be empty", common.ErrorValidation)
		}
		upd.FullName = &name
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if !user.IsActive {
			return common.ErrUserInactive
		}

		updated, err = repo.Update(ctx, user.ID, upd)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		if errors.Is(err, common.ErrUserInactive) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return updated, nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mucyobrian123/DevCamp/internal/apperr"
	"github.com/Mucyobrian123/DevCamp/internal/models"
	"github.com/Mucyobrian123/DevCamp/internal/repository"
	"github.com/Mucyobrian123/DevCamp/internal/utils"
)

const resetTokenTTL = 10 * time.Minute

type AuthService struct {
	users  repository.UserRepository
	mailer Mailer
	tokens *utils.JWTManager
	log    *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, mailer Mailer, tokens *utils.JWTManager, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, mailer: mailer, tokens: tokens, log: log}
}

// Register creates an account and issues a session token. The admin role
// is not assignable here; the store's unique email index reports conflicts.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, string, error) {
	if role == "" {
		role = models.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	u.Password = ""

	token, _, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, token, nil
}

// Login verifies credentials. Unknown email and wrong password yield the
// same response so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.BadRequest("please provide an email and password")
	}

	u, err := s.users.FindByEmailWithPassword(ctx, email)
	if err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized("invalid credentials")
	}
	u.Password = ""

	token, _, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, token, nil
}

// UpdateDetails changes the caller's name and/or email.
func (s *AuthService) UpdateDetails(ctx context.Context, userID primitive.ObjectID, name, email string) (*models.User, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = email
	}
	if len(set) == 0 {
		return nil, apperr.BadRequest("nothing to update")
	}
	return s.users.UpdateDetails(ctx, userID, set)
}

// UpdatePassword requires the current password before accepting a new one
// and re-issues the session token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	if len(newPassword) < 6 {
		return "", apperr.BadRequest("password must be at least 6 characters")
	}

	u, err := s.users.FindByIDWithPassword(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		return "", apperr.Unauthorized("password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, u.ID, string(hash)); err != nil {
		return "", err
	}

	token, _, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ForgotPassword stores a hashed one-time secret with a short expiry and
// mails the plaintext reset URL. When the mail cannot be sent the pending
// reset state is rolled back.
func (s *AuthService) ForgotPassword(ctx context.Context, email, baseURL string) error {
	u, err := s.users.FindByEmailWithPassword(ctx, email)
	if err != nil {
		return err
	}

	plain, hashed, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.users.SetResetToken(ctx, u.ID, hashed, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetpassword/%s", baseURL, plain)
	message := fmt.Sprintf("You are receiving this email because you (or someone else) has requested to reset the password. Please make a PUT request to:\n\n%s", resetURL)

	if err := s.mailer.Send(ctx, u.Email, "Password reset token", message); err != nil {
		s.log.Errorw("reset email dispatch failed", "email", u.Email, "error", err)
		if clearErr := s.users.ClearResetToken(ctx, u.ID); clearErr != nil {
			s.log.Errorw("failed to clear pending reset token", "error", clearErr)
		}
		return apperr.Internal("email could not be sent")
	}
	return nil
}

// ResetPassword completes the flow started by ForgotPassword. The stored
// reset state is cleared in the same write that sets the password, so a
// token can be used once at most.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (*models.User, string, error) {
	if len(newPassword) < 6 {
		return nil, "", apperr.BadRequest("password must be at least 6 characters")
	}

	u, err := s.users.FindByResetToken(ctx, utils.HashToken(token), time.Now())
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, u.ID, string(hash)); err != nil {
		return nil, "", err
	}
	u.Password = ""

	signed, _, err := s.tokens.Sign(u.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return u, signed, nil
}

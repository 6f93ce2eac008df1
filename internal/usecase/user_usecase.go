package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"skysend/internal/domain/entity"
	"skysend/internal/domain/repository"
	"skysend/pkg/errors"
)

type UserUseCase struct {
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	firebaseAuth     FirebaseAuthClient
}

func NewUserUseCase(userRepo repository.UserRepository, notificationRepo repository.NotificationRepository, firebaseAuth FirebaseAuthClient) *UserUseCase {
	return &UserUseCase{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		firebaseAuth:     firebaseAuth,
	}
}

type UpdateProfileInput struct {
	Username  string
	Phone     string
	Bio       string
	AvatarURL string
}

type VerifyIdentityInput struct {
	FullName    string
	Address     string
	DateOfBirth time.Time
	IdNumber    string
	IdCardImage string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userId string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userId)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to update user profile", err)
	}

	return user, nil
}

func (uc *UserUseCase) GetUserProfile(ctx context.Context, userId string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userId)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	return user, nil
}

func (uc *UserUseCase) UpdatePassword(ctx context.Context, userId, currentPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, userId)
	if err != nil {
		return errors.NotFound("User", err)
	}

	_, _, err = uc.firebaseAuth.SignInWithEmailPassword(ctx, user.Email, currentPassword)
	if err != nil {
		return errors.Unauthorized("Current password is incorrect", err)
	}

	if err := uc.firebaseAuth.UpdateUserPassword(ctx, userId, newPassword); err != nil {
		return errors.Internal("Failed to update password", err)
	}

	return nil
}

// RegisterPushToken stores the device's Expo push token for notification
// fan-out. An empty token clears the registration.
func (uc *UserUseCase) RegisterPushToken(ctx context.Context, userID, token string) error {
	if err := uc.userRepo.SetPushToken(ctx, userID, token); err != nil {
		return errors.Internal("Failed to register push token", err)
	}
	return nil
}

func (uc *UserUseCase) SubmitVerification(ctx context.Context, userID string, input VerifyIdentityInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if user.VerificationStatus == "verified" {
		return nil, errors.BadRequest("User already verified", nil)
	}

	user.FullName = input.FullName
	user.Address = input.Address
	user.DateOfBirth = input.DateOfBirth
	user.IdNumber = input.IdNumber
	user.IdCardImage = input.IdCardImage
	user.VerificationStatus = "pending"
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to submit verification", err)
	}

	return user, nil
}

// ProcessVerification is the admin decision on a pending KYC submission.
// The user gets a notification either way.
func (uc *UserUseCase) ProcessVerification(ctx context.Context, adminID, userID, status string) (*entity.User, error) {
	if status != "verified" && status != "rejected" {
		return nil, errors.BadRequest("Status must be 'verified' or 'rejected'", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	if user.VerificationStatus != "pending" {
		return nil, errors.BadRequest("Verification is not pending", nil)
	}

	user.VerificationStatus = status
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal("Failed to process verification", err)
	}

	title := "Identity verified"
	body := "Your identity verification was approved. You can now post flights and orders."
	if status == "rejected" {
		title = "Verification rejected"
		body = "Your identity verification was rejected. Please resubmit your documents."
	}

	notification := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      entity.NotificationTypeKyc,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("ProcessVerification: failed to write notification for %s: %v", userID, err)
	}

	return user, nil
}

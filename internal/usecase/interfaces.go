package usecase

import (
	"context"

	"skysend/internal/infrastructure/push"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	SignInWithEmailPassword(ctx context.Context, email, password string) (string, string, error)
	UpdateUserPassword(ctx context.Context, uid, newPassword string) error
	TestConnection(ctx context.Context) error
}

// PushSender delivers a push notification to a device token. Failures are
// logged by callers and never surfaced to the request that triggered them.
type PushSender interface {
	Send(ctx context.Context, msg push.Message) error
}

package database

import (
	"context"

	"moodchat/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// MessageRepository is the persistence collaborator for the message
// pipeline. SaveMessage assigns and returns the message id; the
// pipeline treats any failure as fatal for that submission.
type MessageRepository interface {
	SaveMessage(ctx context.Context, msg *models.Message) (string, error)
	FindMessageByID(ctx context.Context, id string) (*models.Message, error)
	DeleteMessageByID(ctx context.Context, id string) (bool, error)
	FindMessagesByRoom(ctx context.Context, room string, limit int) ([]*models.Message, error)
}

type Database interface {
	UserRepository
	MessageRepository
	Close() error
}

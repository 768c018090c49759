package database

import (
	"context"
	"errors"
	"fmt"

	"moodchat/internal/models"
	"moodchat/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(databaseURL string) (*PostgresDB, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully")
	return &PostgresDB{pool: pool}, nil
}

func (db *PostgresDB) Close() error {
	db.pool.Close()
	return nil
}

// User Repository Implementation
func (db *PostgresDB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, username, email, created_at`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, uuid.NewString(), username, email, passwordHash).Scan(
		&user.ID, &user.Username, &user.Email, &user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (db *PostgresDB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, email, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Message Repository Implementation
func (db *PostgresDB) SaveMessage(ctx context.Context, msg *models.Message) (string, error) {
	query := `
		INSERT INTO messages (id, room, author_id, text, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id string
	err := db.pool.QueryRow(ctx, query,
		uuid.NewString(), msg.Room, msg.AuthorID, msg.Text, msg.Sentiment, msg.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to save message: %w", err)
	}

	return id, nil
}

func (db *PostgresDB) FindMessageByID(ctx context.Context, id string) (*models.Message, error) {
	query := `
		SELECT m.id, m.room, m.author_id, u.username, m.text, m.sentiment, m.created_at
		FROM messages m
		JOIN users u ON m.author_id = u.id
		WHERE m.id = $1`

	msg := &models.Message{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.Room, &msg.AuthorID, &msg.Author, &msg.Text, &msg.Sentiment, &msg.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return msg, nil
}

func (db *PostgresDB) DeleteMessageByID(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (db *PostgresDB) FindMessagesByRoom(ctx context.Context, room string, limit int) ([]*models.Message, error) {
	query := `
		SELECT m.id, m.room, m.author_id, u.username, m.text, m.sentiment, m.created_at
		FROM messages m
		JOIN users u ON m.author_id = u.id
		WHERE m.room = $1
		ORDER BY m.created_at DESC
		LIMIT $2`

	rows, err := db.pool.Query(ctx, query, room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.Room, &msg.AuthorID, &msg.Author, &msg.Text, &msg.Sentiment, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to show oldest first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

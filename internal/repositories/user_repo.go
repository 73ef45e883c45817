package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"vzaimoBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (int, error) {
	query := `
        INSERT INTO users (name, phone, email, password, contacts, rating, is_active, created_at)
        VALUES (?, ?, ?, ?, ?, 5.0, 1, NOW())
    `
	result, err := r.DB.ExecContext(ctx, query, user.Name, user.Phone, user.Email, user.Password, user.Contacts)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	query := `
        SELECT id, name, phone, email, password, contacts, rating, help_given, help_received, is_active, created_at, updated_at
        FROM users WHERE id = ?
    `
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Phone, &user.Email, &user.Password, &user.Contacts,
		&user.Rating, &user.HelpGiven, &user.HelpReceived, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	query := `SELECT id, name, phone, email, password, rating, is_active FROM users WHERE email = ?`
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Phone, &user.Email, &user.Password, &user.Rating, &user.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, nil
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByPhone(ctx context.Context, phone string) (models.User, error) {
	var user models.User
	query := `SELECT id, name, phone, email, password, rating, is_active FROM users WHERE phone = ?`
	err := r.DB.QueryRowContext(ctx, query, phone).Scan(
		&user.ID, &user.Name, &user.Phone, &user.Email, &user.Password, &user.Rating, &user.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, nil
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) error {
	query := `
        UPDATE users SET name = ?, phone = ?, email = ?, contacts = ?, updated_at = NOW()
        WHERE id = ?
    `
	_, err := r.DB.ExecContext(ctx, query, user.Name, user.Phone, user.Email, user.Contacts, user.ID)
	return err
}

func (r *UserRepository) UpdateUserRating(ctx context.Context, userID int, rating float64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET rating = ?, updated_at = NOW() WHERE id = ?`, rating, userID)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = NOW() WHERE id = ?`, hashedPassword, userID)
	return err
}

func (r *UserRepository) UpdateDocOfProof(ctx context.Context, userID int, docPath string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET doc_of_proof = ?, updated_at = NOW() WHERE id = ?`, docPath, userID)
	return err
}

// DeactivateUser soft-deletes; user rows are never removed.
func (r *UserRepository) DeactivateUser(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET is_active = 0, updated_at = NOW() WHERE id = ?`, userID)
	return err
}

func (r *UserRepository) IncrementHelpGiven(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET help_given = help_given + 1 WHERE id = ?`, userID)
	return err
}

func (r *UserRepository) IncrementHelpReceived(ctx context.Context, userID int) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET help_received = help_received + 1 WHERE id = ?`, userID)
	return err
}

func (r *UserRepository) CreateSession(ctx context.Context, userID int, session models.Session) error {
	query := `
        INSERT INTO sessions (user_id, refresh_token, expires_at)
        VALUES (?, ?, ?)
        ON DUPLICATE KEY UPDATE refresh_token = VALUES(refresh_token), expires_at = VALUES(expires_at)
    `
	_, err := r.DB.ExecContext(ctx, query, userID, session.RefreshToken, session.ExpiresAt)
	return err
}

func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error) {
	var session models.Session
	query := `SELECT refresh_token, expires_at FROM sessions WHERE refresh_token = ?`
	err := r.DB.QueryRowContext(ctx, query, refreshToken).Scan(&session.RefreshToken, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, nil
		}
		return models.Session{}, err
	}
	return session, nil
}

func (r *UserRepository) GetUserIDBySessionToken(ctx context.Context, refreshToken string) (int, error) {
	var userID int
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM sessions WHERE refresh_token = ? AND expires_at > ?`, refreshToken, time.Now()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNoRecord
		}
		return 0, err
	}
	return userID, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// CreateAPIKey сохраняет новый ключ доступа и возвращает его метаданные.
func (s *Storage) CreateAPIKey(ctx context.Context, key models.APIKey) (*models.CreatedAPIKey, error) {
	const op = "storage.CreateAPIKey"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO api_keys (id, user_id, key_name, api_key, permissions,
			      expires_at, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, key_name, created_at`
	var created models.CreatedAPIKey
	err := s.DB.QueryRowContext(ctx, query,
		key.ID, key.UserID, key.KeyName, key.APIKey, []byte(key.Permissions),
		key.ExpiresAt, key.IsActive).
		Scan(&created.ID, &created.KeyName, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// DeleteAPIKey удаляет ключ владельца и возвращает количество удалённых строк.
func (s *Storage) DeleteAPIKey(ctx context.Context, userID, id string) (int, error) {
	const op = "storage.DeleteAPIKey"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM api_keys WHERE id = $1 AND user_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// ListCategories возвращает все категории, отсортированные по отображаемому имени.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.ListCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, display_name, color_code, icon_name, created_at
			  FROM categories
			  ORDER BY display_name ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Category
	for rows.Next() {
		var item models.Category
		var iconName sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.DisplayName, &item.ColorCode,
			&iconName, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if iconName.Valid {
			item.IconName = &iconName.String
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

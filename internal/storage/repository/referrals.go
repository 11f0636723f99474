package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// referralColumns набор колонок, читаемых во всех выборках ссылок.
const referralColumns = `id, user_id, name, category, url, custom_slug, logo_color,
			      status, is_featured, display_order, description, created_at, updated_at`

// sortColumns допустимые колонки сортировки списка, значения из запроса
// сверяются с этим набором, в SQL ничего из запроса не подставляется.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"name":          "name",
	"display_order": "display_order",
}

func scanReferral(row interface{ Scan(...any) error }) (*models.Referral, error) {
	var r models.Referral
	var customSlug, description sql.NullString
	var displayOrder sql.NullInt64
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Category, &r.URL, &customSlug,
		&r.LogoColor, &r.Status, &r.IsFeatured, &displayOrder, &description,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if customSlug.Valid {
		r.CustomSlug = &customSlug.String
	}
	if description.Valid {
		r.Description = &description.String
	}
	if displayOrder.Valid {
		order := int(displayOrder.Int64)
		r.DisplayOrder = &order
	}
	return &r, nil
}

// CreateReferral вставляет новую ссылку и возвращает созданную строку.
func (s *Storage) CreateReferral(ctx context.Context, r models.Referral) (*models.Referral, error) {
	const op = "storage.CreateReferral"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO referrals (id, user_id, name, category, url, custom_slug,
			      logo_color, status, is_featured, display_order, description)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + referralColumns
	row := s.DB.QueryRowContext(ctx, query,
		r.ID, r.UserID, r.Name, r.Category, r.URL, r.CustomSlug,
		r.LogoColor, r.Status, r.IsFeatured, r.DisplayOrder, r.Description)
	created, err := scanReferral(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetReferral возвращает ссылку по ID в рамках владельца.
func (s *Storage) GetReferral(ctx context.Context, userID, id string) (*models.Referral, error) {
	const op = "storage.GetReferral"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + referralColumns + `
			  FROM referrals
			  WHERE id = $1 AND user_id = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userID)
	result, err := scanReferral(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReferral частично обновляет ссылку владельца и возвращает обновленную строку.
// NULL-аргументы оставляют соответствующее поле без изменений.
func (s *Storage) UpdateReferral(ctx context.Context, userID, id string, upd models.DummyReferralUpdate) (*models.Referral, error) {
	const op = "storage.UpdateReferral"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE referrals
			  SET name = COALESCE($3, name),
			      category = COALESCE($4, category),
			      url = COALESCE($5, url),
			      custom_slug = COALESCE($6, custom_slug),
			      logo_color = COALESCE($7, logo_color),
			      status = COALESCE($8, status),
			      description = COALESCE($9, description),
			      is_featured = COALESCE($10, is_featured),
			      display_order = COALESCE($11, display_order),
			      updated_at = now()
			  WHERE id = $1 AND user_id = $2
			  RETURNING ` + referralColumns
	row := s.DB.QueryRowContext(ctx, query, id, userID,
		upd.Name, upd.Category, upd.URL, upd.CustomSlug, upd.LogoColor,
		upd.Status, upd.Description, upd.IsFeatured, upd.DisplayOrder)
	result, err := scanReferral(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteReferral удаляет ссылку владельца и возвращает количество удалённых строк.
func (s *Storage) DeleteReferral(ctx context.Context, userID, id string) (int, error) {
	const op = "storage.DeleteReferral"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM referrals WHERE id = $1 AND user_id = $2`
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

// ListReferrals возвращает страницу ссылок пользователя с учетом фильтра
// и общее количество строк под фильтром.
func (s *Storage) ListReferrals(ctx context.Context, userID string, filter models.ReferralFilter) ([]*models.Referral, int, error) {
	const op = "storage.ListReferrals"
	select {
	case <-ctx.Done():
		return nil, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := []string{"user_id = $1"}
	args := []any{userID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM referrals WHERE ` + whereClause
	if err := s.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	sortColumn, ok := sortColumns[filter.Sort]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := `SELECT ` + referralColumns + `
			  FROM referrals
			  WHERE ` + whereClause + `
			  ORDER BY ` + sortColumn + ` ` + direction + `
			  LIMIT $` + fmt.Sprint(len(args)-1) + ` OFFSET $` + fmt.Sprint(len(args))
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Referral
	for rows.Next() {
		item, err := scanReferral(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return result, total, nil
}

// CountUserReferrals подсчитывает все ссылки пользователя, без фильтров.
func (s *Storage) CountUserReferrals(ctx context.Context, userID string) (int, error) {
	const op = "storage.CountUserReferrals"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM referrals WHERE user_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// GetReferralBySlug возвращает цель перехода по короткому слагу.
func (s *Storage) GetReferralBySlug(ctx context.Context, slug string) (*models.RedirectTarget, error) {
	const op = "storage.GetReferralBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, url, status, user_id FROM referrals WHERE custom_slug = $1`
	var target models.RedirectTarget
	err := s.DB.QueryRowContext(ctx, query, slug).
		Scan(&target.ID, &target.URL, &target.Status, &target.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &target, nil
}

// ListTopReferrals возвращает активные ссылки пользователя с числом переходов,
// отсортированные по убыванию переходов, не больше limit строк.
func (s *Storage) ListTopReferrals(ctx context.Context, userID string, limit int) ([]models.TopReferral, error) {
	const op = "storage.ListTopReferrals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.name, r.url, r.category, r.custom_slug, r.logo_color,
			      COUNT(c.id) AS click_count
			  FROM referrals r
			  LEFT JOIN clicks c ON c.referral_id = r.id
			  WHERE r.user_id = $1 AND r.status = $2
			  GROUP BY r.id, r.name, r.url, r.category, r.custom_slug, r.logo_color
			  ORDER BY click_count DESC, r.created_at DESC
			  LIMIT $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, models.ReferralStatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.TopReferral
	for rows.Next() {
		var item models.TopReferral
		var customSlug sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.URL, &item.Category,
			&customSlug, &item.LogoColor, &item.ClickCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if customSlug.Valid {
			item.CustomSlug = &customSlug.String
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPublicReferrals возвращает активные ссылки пользователя для публичного профиля,
// закрепленные первыми, далее по display_order и дате создания.
func (s *Storage) ListPublicReferrals(ctx context.Context, userID string) ([]*models.Referral, error) {
	const op = "storage.ListPublicReferrals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + referralColumns + `
			  FROM referrals
			  WHERE user_id = $1 AND status = $2
			  ORDER BY is_featured DESC, display_order ASC NULLS LAST, created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, models.ReferralStatusActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Referral
	for rows.Next() {
		item, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
)

type ReviewRepo struct{ db sqlx.ExtContext }

func NewReviewRepo(db sqlx.ExtContext) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewSelect = `
  SELECT r.id, r.product_id, r.user_id, u.full_name AS author, r.rating, r.comment, r.created_at
  FROM reviews r JOIN users u ON u.id = r.user_id`

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	rv.CreatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews(product_id, user_id, rating, comment, created_at)
		VALUES(?, ?, ?, ?, ?)
	`, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		return err
	}
	rv.ID, err = res.LastInsertId()
	return err
}

// ByProduct lists a product's reviews, newest first.
func (r *ReviewRepo) ByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	err := sqlx.SelectContext(ctx, r.db, &out,
		reviewSelect+` WHERE r.product_id = ? ORDER BY r.created_at DESC, r.id DESC`, productID)
	return out, err
}

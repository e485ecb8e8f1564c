package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/validate"
)

type ReviewService struct {
	Reviews *repos.ReviewRepo
	Cache   *repos.CachedProductRepo
}

func NewReviewService(reviews *repos.ReviewRepo, cache *repos.CachedProductRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Cache: cache}
}

type ReviewInput struct {
	Rating  int    `json:"rating" form:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" form:"comment" validate:"required,max=1000"`
}

// visible resolves a product shoppers can see; hidden ones read as missing.
func (s *ReviewService) visible(ctx context.Context, productID int64) error {
	p, err := s.Cache.Get(ctx, productID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !p.Published) {
		return notFound("product")
	}
	return err
}

func (s *ReviewService) Submit(ctx context.Context, user *domain.User, productID int64, in ReviewInput) (domain.Review, error) {
	if user == nil {
		return domain.Review{}, ErrNotAuthenticated
	}
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validate.Struct(in); err != nil {
		return domain.Review{}, invalid("%v", err)
	}
	if err := s.visible(ctx, productID); err != nil {
		return domain.Review{}, classify("review.product", err)
	}

	rv := domain.Review{
		ProductID: productID,
		UserID:    user.ID,
		Author:    user.FullName,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if err := s.Reviews.Create(ctx, &rv); err != nil {
		return domain.Review{}, classify("review.create", err)
	}
	return rv, nil
}

// ListByProduct returns the product's reviews, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	if err := s.visible(ctx, productID); err != nil {
		return nil, classify("review.product", err)
	}
	out, err := s.Reviews.ByProduct(ctx, productID)
	return out, classify("review.list", err)
}

package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/services"
)

func reviews(w *world) *services.ReviewService {
	return services.NewReviewService(repos.NewReviewRepo(w.db), repos.NewCachedProductRepo(w.prods, nil, 0))
}

func TestReviews_SubmitAndList(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	svc := reviews(w)
	u := w.user(t, "r@example.com")
	p := w.product(t, "Lamp", 40, 3)

	first, err := svc.Submit(ctx, u, p.ID, services.ReviewInput{Rating: 4, Comment: "  bright enough  "})
	if err != nil {
		t.Fatal(err)
	}
	if first.Comment != "bright enough" || first.Author != "Test User" || first.UserID != u.ID {
		t.Fatalf("bad review: %+v", first)
	}
	second, err := svc.Submit(ctx, u, p.ID, services.ReviewInput{Rating: 2, Comment: "bulb died"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.ListByProduct(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("want newest first, got %+v", got)
	}
	if avg := domain.AverageRating(got); avg != 3 {
		t.Fatalf("want average 3, got %v", avg)
	}
}

func TestReviews_Rejections(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	svc := reviews(w)
	u := w.user(t, "r@example.com")
	p := w.product(t, "Lamp", 40, 3)

	cases := []struct {
		name   string
		user   *domain.User
		prodID int64
		in     services.ReviewInput
		want   error
	}{
		{"anonymous", nil, p.ID, services.ReviewInput{Rating: 5, Comment: "ok"}, services.ErrNotAuthenticated},
		{"rating zero", u, p.ID, services.ReviewInput{Rating: 0, Comment: "ok"}, services.ErrValidationFailed},
		{"rating six", u, p.ID, services.ReviewInput{Rating: 6, Comment: "ok"}, services.ErrValidationFailed},
		{"blank comment", u, p.ID, services.ReviewInput{Rating: 3, Comment: "   "}, services.ErrValidationFailed},
		{"long comment", u, p.ID, services.ReviewInput{Rating: 3, Comment: strings.Repeat("a", 1001)}, services.ErrValidationFailed},
		{"missing product", u, 999, services.ReviewInput{Rating: 3, Comment: "ok"}, services.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, tc.user, tc.prodID, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
	if n := w.countRows(t, "reviews"); n != 0 {
		t.Fatalf("rejected reviews were stored: %d", n)
	}

	if _, err := svc.ListByProduct(ctx, 999); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("list missing product: want ErrNotFound, got %v", err)
	}
	if err := w.prods.SetPublished(ctx, p.ID, false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ListByProduct(ctx, p.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("hidden product: want ErrNotFound, got %v", err)
	}
}

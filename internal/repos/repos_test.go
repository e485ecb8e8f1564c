package repos_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, stock int) domain.Product {
	t.Helper()
	return seedProductWith(t, repos.NewProductRepo(db), stock)
}

func seedProductWith(t *testing.T, prods *repos.ProductRepo, stock int) domain.Product {
	t.Helper()
	p := domain.Product{Name: "Kettle", Price: 30, Stock: stock, Published: true}
	if err := prods.Create(context.Background(), &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDecrementStock_Guarded(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	prods := repos.NewProductRepo(db)
	p := seedProduct(t, db, 3)

	ok, err := prods.DecrementStock(ctx, p.ID, 2)
	if err != nil || !ok {
		t.Fatalf("first decrement: ok=%v err=%v", ok, err)
	}
	ok, err = prods.DecrementStock(ctx, p.ID, 2)
	if err != nil || ok {
		t.Fatalf("overdraw must be refused: ok=%v err=%v", ok, err)
	}
	if n, _ := prods.Stock(ctx, p.ID); n != 1 {
		t.Fatalf("want stock=1, got %d", n)
	}
}

func TestStoreInTx_RollsBack(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	store := repos.NewStore(db)
	prods := repos.NewProductRepo(db)
	p := seedProduct(t, db, 5)

	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := prods.WithTx(tx).DecrementStock(ctx, p.ID, 5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if n, _ := prods.Stock(ctx, p.ID); n != 5 {
		t.Fatalf("rollback lost: stock=%d", n)
	}
}

func TestCartRepo_EnsureAndMerge(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()
	users := repos.NewUserRepo(db)
	carts := repos.NewCartRepo(db)
	u := &domain.User{Email: "a@example.com", FullName: "A", Hash: "x", Role: domain.RoleUser, Active: true}
	if err := users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	p := seedProduct(t, db, 10)

	c1, err := carts.EnsureForUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := carts.EnsureForUser(ctx, u.ID)
	if c1.ID != c2.ID {
		t.Fatalf("two carts for one user: %d, %d", c1.ID, c2.ID)
	}

	a, _ := carts.AddQty(ctx, c1.ID, p.ID, 1)
	b, err := carts.AddQty(ctx, c1.ID, p.ID, 4)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID || b.Quantity != 5 {
		t.Fatalf("upsert did not merge: %+v %+v", a, b)
	}
	if n, _ := carts.QtyOf(ctx, c1.ID, p.ID); n != 5 {
		t.Fatalf("QtyOf: want 5, got %d", n)
	}
	if err := carts.SetQty(ctx, c1.ID, 999, 1); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("missing item: want sql.ErrNoRows, got %v", err)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := memdb(t)
	for i := 0; i < 2; i++ {
		if err := repos.Seed(db); err != nil {
			t.Fatalf("seed #%d: %v", i, err)
		}
	}
	users, err := repos.NewUserRepo(db).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 3 {
		t.Fatalf("want 3 seeded users, got %d", len(users))
	}
}

func TestUniqueIndexes_ReportDuplicate(t *testing.T) {
	db := memdb(t)
	ctx := context.Background()

	users := repos.NewUserRepo(db)
	u := &domain.User{Email: "dup@example.com", FullName: "D", Hash: "x", Role: domain.RoleUser, Active: true}
	if err := users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	again := &domain.User{Email: "DUP@example.com", FullName: "D", Hash: "x", Role: domain.RoleUser, Active: true}
	if err := users.Create(ctx, again); !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("user: want ErrDuplicate, got %v", err)
	}

	cats := repos.NewCategoryRepo(db)
	if _, err := cats.Create(ctx, "Garden"); err != nil {
		t.Fatal(err)
	}
	if _, err := cats.Create(ctx, "garden"); !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("category: want ErrDuplicate, got %v", err)
	}
	other, err := cats.Create(ctx, "Kitchen")
	if err != nil {
		t.Fatal(err)
	}
	if err := cats.Rename(ctx, other.ID, "GARDEN"); !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("rename: want ErrDuplicate, got %v", err)
	}

	vouchers := repos.NewVoucherRepo(db)
	v := domain.Voucher{Code: "SPRING", DiscountPercent: 5, StartDate: "2026-01-01", EndDate: "2026-02-01", Active: true}
	if err := vouchers.Create(ctx, &v); err != nil {
		t.Fatal(err)
	}
	dup := v
	dup.Code = "spring"
	if err := vouchers.Create(ctx, &dup); !errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("voucher: want ErrDuplicate, got %v", err)
	}

	// other constraint failures are not duplicates
	p := domain.Product{Name: "Bad", Price: 0}
	if err := repos.NewProductRepo(db).Create(ctx, &p); err == nil || errors.Is(err, repos.ErrDuplicate) {
		t.Fatalf("check constraint: want a non-duplicate error, got %v", err)
	}
}

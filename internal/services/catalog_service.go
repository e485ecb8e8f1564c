package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"onlinestore/internal/domain"
	"onlinestore/internal/repos"
	"onlinestore/internal/validate"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Sups  *repos.SupplierRepo
	Prods *repos.ProductRepo
	Cache *repos.CachedProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, sups *repos.SupplierRepo, prods *repos.ProductRepo,
	cache *repos.CachedProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Sups: sups, Prods: prods, Cache: cache}
}

// ProductInput is the admin payload for creating or replacing a product.
type ProductInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"gt=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	Published   bool   `json:"published"`
	CategoryID  *int64 `json:"category_id" validate:"omitempty,gt=0"`
	SupplierID  *int64 `json:"supplier_id" validate:"omitempty,gt=0"`
}

type SupplierInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

func pageOf(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	return pageSize, (page - 1) * pageSize
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	out, err := s.Cats.List(ctx)
	return out, classify("category.list", err)
}

// ListProducts pages published products, optionally in one category.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID int64, page, pageSize int) ([]domain.Product, error) {
	limit, offset := pageOf(page, pageSize)
	out, err := s.Prods.List(ctx, repos.ProductFilter{
		CategoryID: categoryID, PublishedOnly: true, Limit: limit, Offset: offset,
	})
	return out, classify("product.list", err)
}

// ListAllProducts includes unpublished products for admins.
func (s *CatalogService) ListAllProducts(ctx context.Context, page, pageSize int) ([]domain.Product, error) {
	limit, offset := pageOf(page, pageSize)
	out, err := s.Prods.List(ctx, repos.ProductFilter{Limit: limit, Offset: offset})
	return out, classify("product.list", err)
}

// GetProduct reads through the cache. Unpublished products are hidden
// unless includeHidden is set.
func (s *CatalogService) GetProduct(ctx context.Context, id int64, includeHidden bool) (domain.Product, error) {
	p, err := s.Cache.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !p.Published && !includeHidden) {
		return domain.Product{}, notFound("product")
	}
	return p, classify("product.get", err)
}

func (s *CatalogService) Search(ctx context.Context, q string, categoryID int64, page, pageSize int) ([]domain.Product, error) {
	limit, offset := pageOf(page, pageSize)
	out, err := s.Prods.List(ctx, repos.ProductFilter{
		CategoryID: categoryID, PublishedOnly: true, Q: strings.ToLower(q), Limit: limit, Offset: offset,
	})
	return out, classify("product.search", err)
}

func (s *CatalogService) checkRefs(ctx context.Context, in ProductInput) error {
	if in.CategoryID != nil {
		if _, err := s.Cats.Get(ctx, *in.CategoryID); errors.Is(err, sql.ErrNoRows) {
			return invalid("category %d does not exist", *in.CategoryID)
		} else if err != nil {
			return err
		}
	}
	if in.SupplierID != nil {
		if _, err := s.Sups.Get(ctx, *in.SupplierID); errors.Is(err, sql.ErrNoRows) {
			return invalid("supplier %d does not exist", *in.SupplierID)
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Product{}, invalid("%v", err)
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return domain.Product{}, classify("product.create", err)
	}
	p := domain.Product{
		CategoryID: in.CategoryID, SupplierID: in.SupplierID,
		Name: in.Name, Description: in.Description,
		Price: in.Price, Stock: in.Stock, Published: in.Published,
	}
	if err := s.Prods.Create(ctx, &p); err != nil {
		return domain.Product{}, classify("product.create", err)
	}
	out, err := s.Prods.Get(ctx, p.ID)
	return out, classify("product.get", err)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Product{}, invalid("%v", err)
	}
	if err := s.checkRefs(ctx, in); err != nil {
		return domain.Product{}, classify("product.update", err)
	}
	p := domain.Product{
		ID: id, CategoryID: in.CategoryID, SupplierID: in.SupplierID,
		Name: in.Name, Description: in.Description,
		Price: in.Price, Stock: in.Stock, Published: in.Published,
	}
	if err := s.Prods.Update(ctx, p); err != nil {
		return domain.Product{}, classify("product.update", err)
	}
	s.Cache.Invalidate(ctx, id)
	out, err := s.Prods.Get(ctx, id)
	return out, classify("product.get", err)
}

func (s *CatalogService) SetStock(ctx context.Context, id int64, stock int) error {
	if stock < 0 {
		return invalid("stock must not be negative")
	}
	if err := s.Prods.SetStock(ctx, id, stock); err != nil {
		return classify("product.stock", err)
	}
	s.Cache.Invalidate(ctx, id)
	return nil
}

func (s *CatalogService) SetPublished(ctx context.Context, id int64, published bool) error {
	if err := s.Prods.SetPublished(ctx, id, published); err != nil {
		return classify("product.publish", err)
	}
	s.Cache.Invalidate(ctx, id)
	return nil
}

// DeleteProduct refuses products that orders still reference; unpublish
// them instead.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	used, err := s.Prods.ReferencedByOrders(ctx, id)
	if err != nil {
		return classify("product.delete", err)
	}
	if used {
		return fmt.Errorf("%w: product is referenced by orders", ErrConflict)
	}
	if err := s.Prods.Delete(ctx, id); err != nil {
		return classify("product.delete", err)
	}
	s.Cache.Invalidate(ctx, id)
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name, ok := validate.Name(name, 100)
	if !ok {
		return domain.Category{}, invalid("category name must be 1-100 characters")
	}
	if taken, err := s.Cats.NameTaken(ctx, name, 0); err != nil {
		return domain.Category{}, classify("category.create", err)
	} else if taken {
		return domain.Category{}, fmt.Errorf("%w: category %q exists", ErrConflict, name)
	}
	c, err := s.Cats.Create(ctx, name)
	return c, classify("category.create", err)
}

func (s *CatalogService) RenameCategory(ctx context.Context, id int64, name string) error {
	name, ok := validate.Name(name, 100)
	if !ok {
		return invalid("category name must be 1-100 characters")
	}
	if taken, err := s.Cats.NameTaken(ctx, name, id); err != nil {
		return classify("category.rename", err)
	} else if taken {
		return fmt.Errorf("%w: category %q exists", ErrConflict, name)
	}
	return classify("category.rename", s.Cats.Rename(ctx, id, name))
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	n, err := s.Cats.ProductCount(ctx, id)
	if err != nil {
		return classify("category.delete", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: category has %d products", ErrConflict, n)
	}
	return classify("category.delete", s.Cats.Delete(ctx, id))
}

func (s *CatalogService) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	out, err := s.Sups.List(ctx)
	return out, classify("supplier.list", err)
}

func (s *CatalogService) CreateSupplier(ctx context.Context, in SupplierInput) (domain.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Supplier{}, invalid("%v", err)
	}
	sup := domain.Supplier{Name: in.Name, Quantity: in.Quantity}
	if err := s.Sups.Create(ctx, &sup); err != nil {
		return domain.Supplier{}, classify("supplier.create", err)
	}
	return sup, nil
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, id int64, in SupplierInput) (domain.Supplier, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return domain.Supplier{}, invalid("%v", err)
	}
	sup := domain.Supplier{ID: id, Name: in.Name, Quantity: in.Quantity}
	if err := s.Sups.Update(ctx, sup); err != nil {
		return domain.Supplier{}, classify("supplier.update", err)
	}
	return sup, nil
}

// DeleteSupplier detaches its products via ON DELETE SET NULL.
func (s *CatalogService) DeleteSupplier(ctx context.Context, id int64) error {
	return classify("supplier.delete", s.Sups.Delete(ctx, id))
}

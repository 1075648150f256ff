package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	"github.com/Skotchmaster/refurb_shop/pkg/util"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndex
	Events Publisher
}

func productKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func trimmed(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return strings.TrimSpace(*p), true
}

func checkName(field, v string, max int) error {
	if v == "" {
		return validationf("%s is required", field)
	}
	if len([]rune(v)) > max {
		return validationf("%s must be at most %d characters", field, max)
	}
	return nil
}

func checkSlug(v string) error {
	if err := checkName("slug", v, 140); err != nil {
		return err
	}
	if !slugRe.MatchString(v) {
		return validationf("slug may contain only letters, digits, hyphens and underscores")
	}
	return nil
}

// brands

func (s *CatalogService) ListBrands(ctx context.Context, search string) ([]models.Brand, error) {
	return s.Repo.ListBrands(ctx, search)
}

func (s *CatalogService) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	b, err := s.Repo.GetBrand(ctx, id)
	return b, storeErr(err, "brand")
}

func brandUpdates(req transport.BrandRequest, create bool) (map[string]any, error) {
	up := map[string]any{}
	if v, ok := trimmed(req.Name); ok || create {
		if err := checkName("name", v, 120); err != nil {
			return nil, err
		}
		up["name"] = v
	}
	if v, ok := trimmed(req.Slug); ok || create {
		if err := checkSlug(v); err != nil {
			return nil, err
		}
		up["slug"] = v
	}
	if v, ok := trimmed(req.Site); ok {
		up["site"] = v
	}
	return up, nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, req transport.BrandRequest) (*models.Brand, error) {
	up, err := brandUpdates(req, true)
	if err != nil {
		return nil, err
	}
	b := models.Brand{Name: up["name"].(string), Slug: up["slug"].(string)}
	if site, ok := up["site"].(string); ok {
		b.Site = site
	}
	if err := s.Repo.CreateBrand(ctx, &b); err != nil {
		return nil, storeErr(err, "brand")
	}
	return &b, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, req transport.BrandRequest) (*models.Brand, error) {
	up, err := brandUpdates(req, false)
	if err != nil {
		return nil, err
	}
	b, err := s.Repo.UpdateBrand(ctx, id, up)
	return b, storeErr(err, "brand")
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	return storeErr(s.Repo.DeleteBrand(ctx, id), "brand")
}

// categories

func (s *CatalogService) ListCategories(ctx context.Context, search string) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, search)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	return c, storeErr(err, "category")
}

func (s *CatalogService) categoryUpdates(ctx context.Context, id uint, req transport.CategoryRequest, create bool) (map[string]any, error) {
	up := map[string]any{}
	if v, ok := trimmed(req.Name); ok || create {
		if err := checkName("name", v, 120); err != nil {
			return nil, err
		}
		up["name"] = v
	}
	if v, ok := trimmed(req.Slug); ok || create {
		if err := checkSlug(v); err != nil {
			return nil, err
		}
		up["slug"] = v
	}
	if req.ParentID.Present {
		if !req.ParentID.Valid || req.ParentID.Value <= 0 {
			return nil, validationf("parent_id must be a positive integer")
		}
		pid := uint(req.ParentID.Value)
		if pid == id {
			return nil, validationf("category cannot be its own parent")
		}
		if _, err := s.Repo.GetCategory(ctx, pid); err != nil {
			return nil, storeErr(err, "parent category")
		}
		up["parent_id"] = pid
	}
	return up, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	up, err := s.categoryUpdates(ctx, 0, req, true)
	if err != nil {
		return nil, err
	}
	c := models.Category{Name: up["name"].(string), Slug: up["slug"].(string)}
	if pid, ok := up["parent_id"].(uint); ok {
		c.ParentID = &pid
	}
	if err := s.Repo.CreateCategory(ctx, &c); err != nil {
		return nil, storeErr(err, "category")
	}
	return &c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.CategoryRequest) (*models.Category, error) {
	up, err := s.categoryUpdates(ctx, id, req, false)
	if err != nil {
		return nil, err
	}
	c, err := s.Repo.UpdateCategory(ctx, id, up)
	return c, storeErr(err, "category")
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return storeErr(s.Repo.DeleteCategory(ctx, id), "category")
}

// products

type ProductQuery struct {
	BrandID    uint
	CategoryID uint
	Condition  string
	Grade      string
	Search     string
	Ordering   string
	Page       int
	Size       int
}

func page(total int64, items []models.Product, pg, size int) *transport.ProductPage {
	if pg < 1 {
		pg = 1
	}
	return &transport.ProductPage{
		Data: items,
		Meta: transport.PageMeta{Page: pg, Size: size, Total: total, TotalPages: util.TotalPages(total, size)},
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (*transport.ProductPage, error) {
	if q.Condition != "" && !models.Condition(q.Condition).Valid() {
		return nil, validationf("condition must be one of NEW, USED, REFURB")
	}
	if q.Grade != "" && !models.Grade(q.Grade).Valid() {
		return nil, validationf("grade must be one of A, B, C")
	}
	offset, limit := util.Calculate(q.Page, q.Size)
	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		BrandID:    q.BrandID,
		CategoryID: q.CategoryID,
		Condition:  q.Condition,
		Grade:      q.Grade,
		Search:     q.Search,
		Ordering:   q.Ordering,
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return page(total, items, q.Page, limit), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id, true)
	return p, storeErr(err, "product")
}

// SearchProducts asks the search index first and falls back to SQL matching
// when no index is configured or the index fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, pg, size int) (*transport.ProductPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationf("q is required")
	}
	offset, limit := util.Calculate(pg, size)

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return page(total, items, pg, limit), nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "reason", "falling back to sql", "error", err)
	}

	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{Search: q, Offset: offset, Limit: limit, Ordering: "title"})
	if err != nil {
		return nil, err
	}
	return page(total, items, pg, limit), nil
}

func variantFromRequest(req transport.VariantRequest) (models.Variant, error) {
	sku, _ := trimmed(req.SKU)
	if err := checkName("sku", sku, 60); err != nil {
		return models.Variant{}, err
	}
	if req.PriceCLP == nil {
		return models.Variant{}, validationf("price_clp is required")
	}
	v := models.Variant{SKU: sku, PriceCLP: *req.PriceCLP, Attributes: map[string]any{}}
	if req.Attributes != nil && *req.Attributes != nil {
		v.Attributes = *req.Attributes
	}
	if req.Stock != nil {
		v.Stock = *req.Stock
	}
	if req.WeightG != nil {
		v.WeightG = *req.WeightG
	}
	return v, checkVariantNumbers(v.PriceCLP, v.Stock, v.WeightG)
}

func checkVariantNumbers(price int64, stock, weight int) error {
	switch {
	case price < 0:
		return validationf("price_clp cannot be negative")
	case stock < 0:
		return validationf("stock cannot be negative")
	case weight < 0:
		return validationf("weight_g cannot be negative")
	}
	return nil
}

func (s *CatalogService) productUpdates(ctx context.Context, req transport.ProductRequest, create bool) (map[string]any, error) {
	up := map[string]any{}
	if v, ok := trimmed(req.SKURoot); ok || create {
		if err := checkName("sku_root", v, 50); err != nil {
			return nil, err
		}
		up["sku_root"] = v
	}
	if v, ok := trimmed(req.Title); ok || create {
		if err := checkName("title", v, 200); err != nil {
			return nil, err
		}
		up["title"] = v
	}
	if req.BrandID != nil || create {
		if req.BrandID == nil {
			return nil, validationf("brand_id is required")
		}
		if _, err := s.Repo.GetBrand(ctx, *req.BrandID); err != nil {
			return nil, storeErr(err, "brand")
		}
		up["brand_id"] = *req.BrandID
	}
	if req.CategoryID != nil || create {
		if req.CategoryID == nil {
			return nil, validationf("category_id is required")
		}
		if _, err := s.Repo.GetCategory(ctx, *req.CategoryID); err != nil {
			return nil, storeErr(err, "category")
		}
		up["category_id"] = *req.CategoryID
	}
	if v, ok := trimmed(req.ShortDesc); ok {
		if len([]rune(v)) > 500 {
			return nil, validationf("short_desc must be at most 500 characters")
		}
		up["short_desc"] = v
	}
	if v, ok := trimmed(req.LongDesc); ok {
		up["long_desc"] = v
	}
	if v, ok := trimmed(req.Condition); ok || create {
		if v == "" && create {
			v = string(models.ConditionUsed)
		}
		if !models.Condition(v).Valid() {
			return nil, validationf("condition must be one of NEW, USED, REFURB")
		}
		up["condition"] = models.Condition(v)
	}
	if v, ok := trimmed(req.Grade); ok || create {
		if v == "" && create {
			v = string(models.GradeB)
		}
		if !models.Grade(v).Valid() {
			return nil, validationf("grade must be one of A, B, C")
		}
		up["grade"] = models.Grade(v)
	}
	if req.Publish != nil {
		up["publish"] = *req.Publish
	} else if create {
		up["publish"] = true
	}
	return up, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	up, err := s.productUpdates(ctx, req, true)
	if err != nil {
		return nil, err
	}
	p := models.Product{
		SKURoot:    up["sku_root"].(string),
		Title:      up["title"].(string),
		BrandID:    up["brand_id"].(uint),
		CategoryID: up["category_id"].(uint),
		Condition:  up["condition"].(models.Condition),
		Grade:      up["grade"].(models.Grade),
		Publish:    up["publish"].(bool),
	}
	if v, ok := up["short_desc"].(string); ok {
		p.ShortDesc = v
	}
	if v, ok := up["long_desc"].(string); ok {
		p.LongDesc = v
	}

	for _, vr := range req.Variants {
		v, err := variantFromRequest(vr)
		if err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	for _, im := range req.Images {
		url := strings.TrimSpace(im.Image)
		if url == "" {
			return nil, validationf("image url is required")
		}
		p.Images = append(p.Images, models.ProductImage{URL: url, Alt: strings.TrimSpace(im.Alt), Sort: im.Sort})
	}
	for _, m := range req.Models3D {
		file := strings.TrimSpace(m.File)
		if file == "" {
			return nil, validationf("3d model file url is required")
		}
		p.Models3D = append(p.Models3D, models.Model3DAsset{
			FileURL: file, PreviewImage: strings.TrimSpace(m.PreviewImage), Notes: strings.TrimSpace(m.Notes),
		})
	}

	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		return nil, storeErr(err, "product")
	}
	created, err := s.Repo.GetProduct(ctx, p.ID, false)
	if err != nil {
		return nil, err
	}
	s.productChanged(ctx, "product_created", created)
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	up, err := s.productUpdates(ctx, req, false)
	if err != nil {
		return nil, err
	}
	p, err := s.Repo.UpdateProduct(ctx, id, up)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	s.productChanged(ctx, "product_updated", p)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr(err, "product")
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, TopicCatalog, productKey(id), Event{Type: "product_deleted", ProductID: id})
	return nil
}

// variants

func (s *CatalogService) CreateVariant(ctx context.Context, productID uint, req transport.VariantRequest) (*models.Variant, error) {
	if _, err := s.Repo.GetProduct(ctx, productID, false); err != nil {
		return nil, storeErr(err, "product")
	}
	v, err := variantFromRequest(req)
	if err != nil {
		return nil, err
	}
	v.ProductID = productID
	if err := s.Repo.CreateVariant(ctx, &v); err != nil {
		return nil, storeErr(err, "variant")
	}
	s.reindex(ctx, productID)
	return &v, nil
}

func (s *CatalogService) UpdateVariant(ctx context.Context, id uint, req transport.VariantRequest) (*models.Variant, error) {
	cur, err := s.Repo.GetVariant(ctx, id)
	if err != nil {
		return nil, storeErr(err, "variant")
	}

	up := map[string]any{}
	if v, ok := trimmed(req.SKU); ok {
		if err := checkName("sku", v, 60); err != nil {
			return nil, err
		}
		up["sku"] = v
	}
	price, stock, weight := cur.PriceCLP, cur.Stock, cur.WeightG
	if req.PriceCLP != nil {
		price = *req.PriceCLP
		up["price_clp"] = price
	}
	if req.Stock != nil {
		stock = *req.Stock
		up["stock"] = stock
	}
	if req.WeightG != nil {
		weight = *req.WeightG
		up["weight_g"] = weight
	}
	if err := checkVariantNumbers(price, stock, weight); err != nil {
		return nil, err
	}

	v, err := s.Repo.UpdateVariant(ctx, id, up)
	if err != nil {
		return nil, storeErr(err, "variant")
	}
	if req.Attributes != nil {
		attrs := *req.Attributes
		if attrs == nil {
			attrs = map[string]any{}
		}
		v.Attributes = attrs
		if err := s.Repo.SaveVariantAttributes(ctx, v); err != nil {
			return nil, err
		}
	}
	s.reindex(ctx, v.ProductID)
	return v, nil
}

func (s *CatalogService) DeleteVariant(ctx context.Context, id uint) error {
	v, err := s.Repo.GetVariant(ctx, id)
	if err != nil {
		return storeErr(err, "variant")
	}
	if err := s.Repo.DeleteVariant(ctx, id); err != nil {
		return storeErr(err, "variant")
	}
	s.reindex(ctx, v.ProductID)
	return nil
}

func (s *CatalogService) reindex(ctx context.Context, productID uint) {
	p, err := s.Repo.GetProduct(ctx, productID, false)
	if err != nil {
		logging.FromContext(ctx).Warn("reindex_error", "product_id", productID, "error", err)
		return
	}
	s.productChanged(ctx, "product_updated", p)
}

func (s *CatalogService) productChanged(ctx context.Context, eventType string, p *models.Product) {
	if s.Index != nil {
		var err error
		if p.Publish {
			err = s.Index.IndexProduct(ctx, p)
		} else {
			err = s.Index.DeleteProduct(ctx, p.ID)
		}
		if err != nil {
			logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
		}
	}
	publish(ctx, s.Events, TopicCatalog, productKey(p.ID), Event{Type: eventType, ProductID: p.ID})
}

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	appinventory "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
)

// AllowedImageContentTypes is the whitelist for product image uploads.
// SVG is excluded: it can carry scripts and inline event handlers.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// ObjectStorageService is the object storage port used for product images.
// Implemented by the infrastructure layer (any S3-compatible backend).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading an object
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for reading an object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ProductService manages the product catalog: CRUD, activation, pricing,
// low-stock thresholds, and the presigned-URL image upload flow.
type ProductService struct {
	productRepo       catalog.ProductRepository
	categoryRepo      catalog.CategoryRepository
	storage           ObjectStorageService
	eventPublisher    shared.EventPublisher
	uploadURLExpiry   time.Duration
	downloadURLExpiry time.Duration
	conflictRetries   int
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	conflictRetries int,
) *ProductService {
	return &ProductService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		uploadURLExpiry:   15 * time.Minute,
		downloadURLExpiry: 1 * time.Hour,
		conflictRetries:   conflictRetries,
	}
}

// SetObjectStorage wires the object storage backend used for product images
func (s *ProductService) SetObjectStorage(storage ObjectStorageService) {
	s.storage = storage
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product. SKU and barcode must be unused.
func (s *ProductService) Create(ctx context.Context, actor shared.Actor, req CreateProductRequest) (*ProductResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	sku := strings.ToUpper(req.SKU)
	taken, err := s.productRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("SKU %s is already in use", sku))
	}

	if req.Barcode != "" {
		taken, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Barcode %s is already in use", req.Barcode))
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Price, req.CostPrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if req.Barcode != "" {
		if err := product.SetBarcode(req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := s.toResponse(ctx, product)
	return &response, nil
}

// Update updates a product's details, prices, barcode, category assignment
// and low-stock threshold.
func (s *ProductService) Update(ctx context.Context, actor shared.Actor, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	return s.mutateProduct(ctx, productID, func(product *catalog.Product) error {
		if req.Barcode != "" && req.Barcode != product.Barcode {
			taken, err := s.productRepo.ExistsByBarcode(ctx, req.Barcode)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Barcode %s is already in use", req.Barcode))
			}
		}

		if err := product.Update(req.Name, req.Description); err != nil {
			return err
		}
		if err := product.SetBarcode(req.Barcode); err != nil {
			return err
		}
		product.SetCategory(req.CategoryID)
		if err := product.SetPrices(req.Price, req.CostPrice); err != nil {
			return err
		}
		if req.LowStockThreshold != nil {
			if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetLowStockThreshold changes the level at which the product is flagged for
// reordering. New ledger records seed their reorder point from it; existing
// records keep theirs.
func (s *ProductService) SetLowStockThreshold(ctx context.Context, actor shared.Actor, productID uuid.UUID, threshold int64) (*ProductResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	return s.mutateProduct(ctx, productID, func(product *catalog.Product) error {
		return product.SetLowStockThreshold(threshold)
	})
}

// Activate makes a product sellable again
func (s *ProductService) Activate(ctx context.Context, actor shared.Actor, productID uuid.UUID) (*ProductResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	return s.mutateProduct(ctx, productID, func(product *catalog.Product) error {
		return product.Activate()
	})
}

// Deactivate removes a product from sale. Deactivated products are rejected
// at sale, purchase order, and transfer creation; existing stock stays on
// the ledger.
func (s *ProductService) Deactivate(ctx context.Context, actor shared.Actor, productID uuid.UUID) (*ProductResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}

	return s.mutateProduct(ctx, productID, func(product *catalog.Product) error {
		return product.Deactivate()
	})
}

// mutateProduct loads the product, applies fn and saves with optimistic
// locking, retrying the whole cycle on version conflicts.
func (s *ProductService) mutateProduct(ctx context.Context, productID uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	var product *catalog.Product
	err := appinventory.ExecuteWithRetry(ctx, s.conflictRetries, func() error {
		var err error
		product, err = s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := fn(product); err != nil {
			return err
		}
		return s.productRepo.SaveWithLock(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, product)

	response := s.toResponse(ctx, product)
	return &response, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := s.toResponse(ctx, product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, strings.ToUpper(sku))
	if err != nil {
		return nil, err
	}
	response := s.toResponse(ctx, product)
	return &response, nil
}

// GetByBarcode retrieves a product by barcode, the POS scan path
func (s *ProductService) GetByBarcode(ctx context.Context, barcode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	response := s.toResponse(ctx, product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := buildProductFilter(filter)

	var (
		products []catalog.Product
		err      error
	)
	if filter.CategoryID != nil {
		products, err = s.productRepo.FindByCategory(ctx, *filter.CategoryID, domainFilter)
	} else {
		products, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := ToProductResponses(products)
	for i := range products {
		s.enrichImageURL(ctx, &responses[i], products[i].ImageKey)
	}
	return responses, total, nil
}

// ListActive retrieves active products, the default POS catalog view
func (s *ProductService) ListActive(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindActive(ctx, buildProductFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := ToProductResponses(products)
	for i := range products {
		s.enrichImageURL(ctx, &responses[i], products[i].ImageKey)
	}
	return responses, nil
}

// InitiateImageUpload returns a presigned upload URL for a product image.
// The client uploads directly to object storage, then confirms with the
// returned key.
func (s *ProductService) InitiateImageUpload(ctx context.Context, actor shared.Actor, productID uuid.UUID, req InitiateImageUploadRequest) (*ImageUploadResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("INTERNAL", "Object storage is not configured")
	}

	contentType := strings.ToLower(req.ContentType)
	if !AllowedImageContentTypes[contentType] {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Content type %q is not an allowed image type", req.ContentType))
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := imageKey(product.ID, req.FileName)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.uploadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INTERNAL", "Failed to generate upload URL", err)
	}

	return &ImageUploadResponse{
		ImageKey:  key,
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmImageUpload verifies the uploaded object exists, swaps it in as the
// product image, and removes the previous object from storage.
func (s *ProductService) ConfirmImageUpload(ctx context.Context, actor shared.Actor, productID uuid.UUID, req ConfirmImageUploadRequest) (*ProductResponse, error) {
	if !actor.HasCapability(identity.CapabilityProductManage) {
		return nil, shared.NewDomainError("FORBIDDEN", "Missing capability: "+identity.CapabilityProductManage)
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("INTERNAL", "Object storage is not configured")
	}

	if !strings.HasPrefix(req.ImageKey, imageKeyPrefix(productID)) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Image key does not belong to this product")
	}

	exists, err := s.storage.ObjectExists(ctx, req.ImageKey)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("INTERNAL", "Failed to verify upload", err)
	}
	if !exists {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Uploaded object not found in storage")
	}

	var previousKey string
	response, err := s.mutateProduct(ctx, productID, func(product *catalog.Product) error {
		previousKey = product.SetImageKey(req.ImageKey)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previousKey != "" && previousKey != req.ImageKey {
		// Best effort; the object may already be gone
		_ = s.storage.DeleteObject(ctx, previousKey)
	}
	return response, nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	product.ClearDomainEvents()
}

func (s *ProductService) toResponse(ctx context.Context, product *catalog.Product) ProductResponse {
	response := ToProductResponse(product)
	s.enrichImageURL(ctx, &response, product.ImageKey)
	return response
}

func (s *ProductService) enrichImageURL(ctx context.Context, response *ProductResponse, key string) {
	if key == "" || s.storage == nil {
		return
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, s.downloadURLExpiry)
	if err == nil {
		response.ImageURL = url
	}
}

func imageKeyPrefix(productID uuid.UUID) string {
	return fmt.Sprintf("products/%s/images/", productID)
}

func imageKey(productID uuid.UUID, fileName string) string {
	return imageKeyPrefix(productID) + uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
}

func buildProductFilter(filter ProductListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	return domainFilter
}

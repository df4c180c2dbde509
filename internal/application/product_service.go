package application

import (
	"context"

	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/platform/logging"
)

// ProductService manages the product catalog and its images
type ProductService struct {
	products domain.ProductRepository
	media    domain.MediaStore
	logger   *logging.Logger
}

// NewProductService creates a new ProductService
func NewProductService(products domain.ProductRepository, media domain.MediaStore, logger *logging.Logger) *ProductService {
	return &ProductService{
		products: products,
		media:    media,
		logger:   logger.WithComponent("product-service"),
	}
}

// Create registers a product for the caller, uploading its image first
// when one is attached
func (s *ProductService) Create(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	var image *domain.MediaAsset
	if len(cmd.ImageData) > 0 {
		asset, err := s.media.Store(ctx, cmd.ImageData, cmd.ImageName)
		if err != nil {
			return nil, err
		}
		image = asset
	}

	product := domain.NewProduct(cmd.Principal.UserID, cmd.Name, cmd.Brand, cmd.Stock, image)

	if err := s.products.Save(ctx, product); err != nil {
		// The image is already in the media store; drop it so it does
		// not leak
		if image != nil {
			if derr := s.media.Delete(ctx, image.ExternalID); derr != nil {
				s.logger.Warn("failed to clean up orphaned image",
					"externalId", image.ExternalID,
					"error", derr.Error(),
				)
			}
		}
		return nil, err
	}

	s.logger.Audit(ctx, "product.create", "product", product.ID, cmd.Principal.UserID, map[string]any{
		"name":  product.Name,
		"stock": product.Stock,
	})

	return product, nil
}

// Update changes product fields. Only the owner or an admin may
// modify a product.
func (s *ProductService) Update(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	if !cmd.Principal.CanManage(product.OwnerID) {
		return nil, domain.ErrNotAuthorized
	}

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.Brand != nil {
		product.Brand = *cmd.Brand
	}
	if cmd.Stock != nil {
		product.Stock = *cmd.Stock
	}

	var replaced *domain.MediaAsset
	if len(cmd.ImageData) > 0 {
		asset, err := s.media.Store(ctx, cmd.ImageData, cmd.ImageName)
		if err != nil {
			return nil, err
		}
		replaced = product.Image
		product.Image = asset
	}

	product.Touch()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if replaced != nil {
		if derr := s.media.Delete(ctx, replaced.ExternalID); derr != nil {
			s.logger.Warn("failed to delete replaced image",
				"externalId", replaced.ExternalID,
				"error", derr.Error(),
			)
		}
	}

	s.logger.Audit(ctx, "product.update", "product", product.ID, cmd.Principal.UserID, nil)

	return product, nil
}

// Delete removes a product and its stored image. Only the owner or an
// admin may delete a product.
func (s *ProductService) Delete(ctx context.Context, principal domain.Principal, productID string) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if !principal.CanManage(product.OwnerID) {
		return domain.ErrNotAuthorized
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}

	if product.Image != nil {
		if derr := s.media.Delete(ctx, product.Image.ExternalID); derr != nil {
			s.logger.Warn("failed to delete product image",
				"externalId", product.Image.ExternalID,
				"error", derr.Error(),
			)
		}
	}

	s.logger.Audit(ctx, "product.delete", "product", productID, principal.UserID, nil)

	return nil
}

// GetByID loads one product. Production users see only their own.
func (s *ProductService) GetByID(ctx context.Context, principal domain.Principal, productID string) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !principal.CanManage(product.OwnerID) {
		return nil, domain.ErrNotAuthorized
	}

	return product, nil
}

// ListMine returns the caller's products, newest first
func (s *ProductService) ListMine(ctx context.Context, principal domain.Principal) ([]*domain.Product, error) {
	return s.products.FindByOwner(ctx, principal.UserID)
}

// ListAll returns every product. Admin only.
func (s *ProductService) ListAll(ctx context.Context, principal domain.Principal) ([]*domain.Product, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return s.products.FindAll(ctx)
}

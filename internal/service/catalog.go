package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/witthaya/shopapi/internal/models"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/logging"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Images *storage.ImageStore
	Events EventPublisher
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest, imageFilename string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if req.Name == "" || req.Price == nil || req.Stock == nil {
		return nil, fmt.Errorf("%w: name, price and stock are required", ErrValidation)
	}
	if *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	prod := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		Stock:         *req.Stock,
		ImageFilename: imageFilename,
	}
	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicProductEvents, entityKey(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("create_product_success", "product_id", prod.ID)
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.UpdateProductRequest, newImage string) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		prod.Price = *req.Price
	}
	if req.Stock != nil {
		prod.Stock = *req.Stock
	}

	oldImage := prod.ImageFilename
	if newImage != "" {
		prod.ImageFilename = newImage
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	if newImage != "" && oldImage != "" {
		s.Images.Remove(ctx, oldImage)
	}

	publish(ctx, s.Events, TopicProductEvents, entityKey(prod.ID), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	l.Info("update_product_success")
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: id}
		}
		return nil, err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}

	s.Images.Remove(ctx, prod.ImageFilename)

	publish(ctx, s.Events, TopicProductEvents, entityKey(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return prod, nil
}

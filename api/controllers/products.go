package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techvent/inventory-backend/api/responses"
	"github.com/techvent/inventory-backend/api/validators"
	productsvc "github.com/techvent/inventory-backend/internal/products"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

type createProductRequest struct {
	SupplierID       string          `json:"supplier_id" validate:"required,uuid4"`
	Name             string          `json:"name" validate:"required,max=255"`
	Description      *string         `json:"description,omitempty"`
	SKU              string          `json:"sku" validate:"required,max=64"`
	Category         *string         `json:"category,omitempty" validate:"omitempty,max=100"`
	Brand            *string         `json:"brand,omitempty" validate:"omitempty,max=100"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	MinOrderQuantity int             `json:"min_order_quantity" validate:"omitempty,min=1"`
	Status           *string         `json:"status,omitempty"`
}

type updateProductRequest struct {
	SupplierID       *string          `json:"supplier_id,omitempty" validate:"omitempty,uuid4"`
	Name             *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Description      *string          `json:"description,omitempty"`
	SKU              *string          `json:"sku,omitempty" validate:"omitempty,max=64"`
	Category         *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Brand            *string          `json:"brand,omitempty" validate:"omitempty,max=100"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	MinOrderQuantity *int             `json:"min_order_quantity,omitempty" validate:"omitempty,min=1"`
	Status           *string          `json:"status,omitempty"`
}

// ProductsCreate adds a product to the catalog.
func ProductsCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierID, err := uuid.Parse(payload.SupplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
			return
		}

		input := productsvc.CreateProductInput{
			SupplierID:       supplierID,
			Name:             payload.Name,
			Description:      payload.Description,
			SKU:              payload.SKU,
			Category:         payload.Category,
			Brand:            payload.Brand,
			UnitPrice:        payload.UnitPrice,
			MinOrderQuantity: payload.MinOrderQuantity,
		}
		if input.MinOrderQuantity == 0 {
			input.MinOrderQuantity = 1
		}
		if payload.Status != nil {
			status, err := enums.ParseProductStatus(strings.TrimSpace(*payload.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = status
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductsUpdate mutates an existing product.
func ProductsUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Name:             payload.Name,
			Description:      payload.Description,
			SKU:              payload.SKU,
			Category:         payload.Category,
			Brand:            payload.Brand,
			UnitPrice:        payload.UnitPrice,
			MinOrderQuantity: payload.MinOrderQuantity,
		}
		if payload.SupplierID != nil {
			supplierID, err := uuid.Parse(*payload.SupplierID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
				return
			}
			input.SupplierID = &supplierID
		}
		if payload.Status != nil {
			status, err := enums.ParseProductStatus(strings.TrimSpace(*payload.Status))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductsDelete removes a product when no inventory history exists.
func ProductsDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductsGet returns one product.
func ProductsGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductsList returns a filtered page of catalog products.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListProductsInput{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:    limit,
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("supplier_id")); raw != "" {
			supplierID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id"))
				return
			}
			input.SupplierID = &supplierID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductsListCategories returns the distinct category names in use.
func ProductsListCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

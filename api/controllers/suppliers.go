package controllers

import (
	"net/http"
	"strings"

	"github.com/techvent/inventory-backend/api/responses"
	"github.com/techvent/inventory-backend/api/validators"
	suppliersvc "github.com/techvent/inventory-backend/internal/suppliers"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

type createSupplierRequest struct {
	Name          string  `json:"name" validate:"required,max=255"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Website       *string `json:"website,omitempty" validate:"omitempty,max=255"`
}

type updateSupplierRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=255"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Website       *string `json:"website,omitempty" validate:"omitempty,max=255"`
}

// SuppliersCreate adds a supplier.
func SuppliersCreate(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		var payload createSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.CreateSupplier(r.Context(), suppliersvc.CreateSupplierInput{
			Name:          payload.Name,
			ContactPerson: payload.ContactPerson,
			Email:         payload.Email,
			Phone:         payload.Phone,
			Address:       payload.Address,
			Website:       payload.Website,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

// SuppliersUpdate mutates an existing supplier.
func SuppliersUpdate(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		supplierID, err := pathUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSupplierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.UpdateSupplier(r.Context(), supplierID, suppliersvc.UpdateSupplierInput{
			Name:          payload.Name,
			ContactPerson: payload.ContactPerson,
			Email:         payload.Email,
			Phone:         payload.Phone,
			Address:       payload.Address,
			Website:       payload.Website,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

// SuppliersDelete removes a supplier with no products.
func SuppliersDelete(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		supplierID, err := pathUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteSupplier(r.Context(), supplierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// SuppliersGet returns one supplier.
func SuppliersGet(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		supplierID, err := pathUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetSupplier(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, supplier)
	}
}

// SuppliersList returns a page of suppliers.
func SuppliersList(svc suppliersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "supplier service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListSuppliers(r.Context(), suppliersvc.ListSuppliersInput{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

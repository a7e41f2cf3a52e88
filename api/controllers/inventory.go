package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/techvent/inventory-backend/api/responses"
	"github.com/techvent/inventory-backend/api/validators"
	ledgersvc "github.com/techvent/inventory-backend/internal/ledger"
	"github.com/techvent/inventory-backend/pkg/enums"
	pkgerrors "github.com/techvent/inventory-backend/pkg/errors"
	"github.com/techvent/inventory-backend/pkg/logger"
	"github.com/techvent/inventory-backend/pkg/pagination"
)

type createRecordRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid4"`
	InitialQuantity int              `json:"initial_quantity" validate:"gte=0"`
	ReorderLevel    int              `json:"reorder_level" validate:"gte=0"`
	ReorderQuantity int              `json:"reorder_quantity" validate:"gte=0"`
	CostPrice       decimal.Decimal  `json:"cost_price"`
	SellingPrice    decimal.Decimal  `json:"selling_price"`
	Location        *string          `json:"location,omitempty" validate:"omitempty,max=255"`
	Notes           *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type movementRequest struct {
	TransactionType string  `json:"transaction_type" validate:"required"`
	Quantity        int     `json:"quantity"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type updateSettingsRequest struct {
	ReorderLevel    *int             `json:"reorder_level,omitempty" validate:"omitempty,gte=0"`
	ReorderQuantity *int             `json:"reorder_quantity,omitempty" validate:"omitempty,gte=0"`
	CostPrice       *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice    *decimal.Decimal `json:"selling_price,omitempty"`
	Location        *string          `json:"location,omitempty" validate:"omitempty,max=255"`
}

// InventoryCreateRecord starts tracking stock for a product.
func InventoryCreateRecord(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRecordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		record, err := svc.CreateRecord(r.Context(), ledgersvc.CreateRecordInput{
			ProductID:       productID,
			InitialQuantity: payload.InitialQuantity,
			ReorderLevel:    payload.ReorderLevel,
			ReorderQuantity: payload.ReorderQuantity,
			CostPrice:       payload.CostPrice,
			SellingPrice:    payload.SellingPrice,
			Location:        payload.Location,
			Notes:           payload.Notes,
			UserID:          &uid,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// InventoryApplyMovement applies one stock movement to a record.
func InventoryApplyMovement(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		uid, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		recordID, err := pathUUID(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload movementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movementType, err := enums.ParseTransactionType(strings.TrimSpace(payload.TransactionType))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		record, err := svc.ApplyMovement(r.Context(), recordID, ledgersvc.MovementInput{
			Type:     movementType,
			Quantity: payload.Quantity,
			Notes:    payload.Notes,
			UserID:   &uid,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryUpdateSettings mutates record settings without touching stock.
func InventoryUpdateSettings(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateSettings(r.Context(), recordID, ledgersvc.UpdateSettingsInput{
			ReorderLevel:    payload.ReorderLevel,
			ReorderQuantity: payload.ReorderQuantity,
			CostPrice:       payload.CostPrice,
			SellingPrice:    payload.SellingPrice,
			Location:        payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryGetRecord returns one record with derived status and margin.
func InventoryGetRecord(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetRecord(r.Context(), recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryListRecords returns a filtered page of records.
func InventoryListRecords(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ledgersvc.ListRecordsInput{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseStockStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			input.Status = &status
		}

		result, err := svc.ListRecords(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InventoryGetRecordByProduct resolves the record tracking a product.
func InventoryGetRecordByProduct(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetRecordByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, record)
	}
}

// InventoryListRecentTransactions returns the newest audit entries first.
func InventoryListRecentTransactions(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		params, err := queryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListRecentTransactions(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// InventoryListRecordTransactions returns one record's audit entries.
func InventoryListRecordTransactions(svc ledgersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := queryPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListRecordTransactions(r.Context(), recordID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing path parameter").WithDetails(map[string]any{"field": key})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid path parameter").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

func queryPagination(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

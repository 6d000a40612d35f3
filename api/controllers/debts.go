package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasbookhq/kasbook-backend/api/responses"
	"github.com/kasbookhq/kasbook-backend/api/validators"
	"github.com/kasbookhq/kasbook-backend/internal/debts"
	"github.com/kasbookhq/kasbook-backend/internal/transactions"
	"github.com/kasbookhq/kasbook-backend/pkg/enums"
	pkgerrors "github.com/kasbookhq/kasbook-backend/pkg/errors"
	"github.com/kasbookhq/kasbook-backend/pkg/logger"
)

type debtPaymentPayload struct {
	AccountID       uuid.UUID       `json:"account_id" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Note            string          `json:"note"`
	TransactionDate time.Time       `json:"transaction_date"`
}

func DebtList(svc debts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := debtFilterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.List(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func DebtGet(svc debts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid debt id"))
			return
		}

		debt, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, debt)
	}
}

// DebtPay posts a payment against a debt. The payment is an ordinary
// transaction: income when collecting a receivable, expense when settling a
// payable. The engine applies it to the debt in the same unit of work.
func DebtPay(debtSvc debts.Service, txnSvc transactions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid debt id"))
			return
		}

		var payload debtPaymentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		debt, err := debtSvc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		txn, err := txnSvc.Create(ctx, transactions.CreateTransactionInput{
			AccountID:       payload.AccountID,
			Type:            debts.PaymentType(debt.Type),
			Amount:          payload.Amount,
			Note:            payload.Note,
			DebtID:          &debt.ID,
			TransactionDate: payload.TransactionDate,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}

func debtFilterFromQuery(r *http.Request) (debts.ListFilter, error) {
	var filter debts.ListFilter

	if raw := strings.TrimSpace(r.URL.Query().Get("contact_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact_id")
		}
		filter.ContactID = &id
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		debtType, err := enums.ParseDebtType(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
		}
		filter.Type = &debtType
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseSettlementStatus(raw)
		if err != nil {
			return filter, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filter.Status = &status
	}
	return filter, nil
}

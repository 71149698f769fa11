package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetWalletTransactions(svc *services.WalletService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		txs, err := svc.List(r.Context(), r.URL.Query().Get("wallet_id"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, txs)
		return nil
	})
}

func GetWalletTransaction(svc *services.WalletService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		tx, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, tx)
		return nil
	})
}

func CreateWalletTransaction(svc *services.WalletService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.WalletTransactionInput
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		tx, err := svc.Create(r.Context(), req)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, tx)
		return nil
	})
}

func UpdateWalletTransaction(svc *services.WalletService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.WalletTransactionInput
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		tx, err := svc.Update(r.Context(), mux.Vars(r)["id"], req)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, tx)
		return nil
	})
}

func DeleteWalletTransaction(svc *services.WalletService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

package handlers

import (
	"net/http"

	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetInteractions(svc *services.InteractionService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		rows, err := svc.List(r.Context(), services.InteractionFilter{
			UserID:          q.Get("user_id"),
			ItemID:          q.Get("item_id"),
			ItemType:        q.Get("item_type"),
			InteractionType: q.Get("interaction_type"),
		})
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, rows)
		return nil
	})
}

func RecordInteraction(svc *services.InteractionService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.Interaction
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		saved, err := svc.Record(r.Context(), req)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, saved)
		return nil
	})
}

func RemoveInteraction(svc *services.InteractionService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.Interaction
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := svc.Remove(r.Context(), req); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Interaction removed"})
		return nil
	})
}

func GetInteractionCounts(svc *services.InteractionService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		counts, err := svc.Counts(r.Context(), q.Get("item_id"), q.Get("item_type"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, counts)
		return nil
	})
}

func GetInteractionUsers(svc *services.InteractionService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		users, err := svc.Users(r.Context(), q.Get("item_id"), q.Get("item_type"), q.Get("interaction_type"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, users)
		return nil
	})
}

package handlers

import (
	"net/http"

	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetLatestFeed(svc *services.FeedService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		limit, err := intParam(r, "limit")
		if err != nil {
			return err
		}
		entries, err := svc.Latest(r.Context(), limit)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, entries)
		return nil
	})
}

func GetUserFeed(svc *services.FeedService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		entries, err := svc.UserFeed(r.Context(), r.URL.Query().Get("userId"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, entries)
		return nil
	})
}

func GetMentions(svc *services.FeedService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		entries, err := svc.Mentions(r.Context(), r.URL.Query().Get("userId"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, entries)
		return nil
	})
}

package handlers

import (
	"net/http"

	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetBookmarks(svc *services.BookmarkService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		rows, err := svc.List(r.Context(), q.Get("user_id"), q.Get("item_type"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, rows)
		return nil
	})
}

func AddBookmark(svc *services.BookmarkService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.Bookmark
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		saved, err := svc.Add(r.Context(), req)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, saved)
		return nil
	})
}

func RemoveBookmark(svc *services.BookmarkService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.Bookmark
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := svc.Remove(r.Context(), req); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Bookmark removed"})
		return nil
	})
}

func GetBookmarkUsers(svc *services.BookmarkService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		rows, err := svc.Users(r.Context(), q.Get("item_id"), q.Get("item_type"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, rows)
		return nil
	})
}

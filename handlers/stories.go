package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetStories(svc *services.StoryService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		stories, err := svc.List(r.Context())
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, stories)
		return nil
	})
}

func GetStoryChapters(svc *services.StoryService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		story, err := svc.Chapters(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, story)
		return nil
	})
}

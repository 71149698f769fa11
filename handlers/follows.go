package handlers

import (
	"net/http"

	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

type followResponse struct {
	Message string        `json:"message"`
	Data    models.Follow `json:"data"`
}

func FollowUser(svc *services.FollowService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.FollowRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		saved, err := svc.Follow(r.Context(), req)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusCreated, followResponse{Message: "Followed successfully", Data: saved})
		return nil
	})
}

func UnfollowUser(svc *services.FollowService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.FollowRequest
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := svc.Unfollow(r.Context(), req); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Unfollowed successfully"})
		return nil
	})
}

func CheckFollowStatus(svc *services.FollowService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		ok, err := svc.IsFollowing(r.Context(), models.FollowRequest{
			FollowerID:  q.Get("follower"),
			FollowingID: q.Get("following"),
		})
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]bool{"isFollowing": ok})
		return nil
	})
}

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetUserByID(svc *services.UserService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		user, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, user)
		return nil
	})
}

func GetPostsCount(svc *services.UserService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		n, err := svc.PostsCount(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]int{"postsCount": n})
		return nil
	})
}

func GetUserFollowers(svc *services.UserService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		edges, err := svc.Followers(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, edges)
		return nil
	})
}

func GetUserFollowing(svc *services.UserService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		edges, err := svc.Following(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, edges)
		return nil
	})
}

func GetUserContent(svc *services.ContentService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		items, err := svc.ForUser(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, items)
		return nil
	})
}

// RegisterFCMToken stores a device token so pushes reach the user's devices.
func RegisterFCMToken(svc *services.DeviceTokenService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.DeviceToken
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := svc.Register(r.Context(), req); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "FCM token registered successfully"})
		return nil
	})
}

func UnregisterFCMToken(svc *services.DeviceTokenService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.DeviceToken
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := svc.Unregister(r.Context(), req); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "FCM token removed"})
		return nil
	})
}

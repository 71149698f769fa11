package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inyangojubirobert/bookofmemes-backend/middleware"
	"github.com/inyangojubirobert/bookofmemes-backend/models"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
)

func GetComments(svc *services.CommentService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		minLikes, err := intParam(r, "minLikes")
		if err != nil {
			return err
		}
		limit, err := intParam(r, "limit")
		if err != nil {
			return err
		}

		threads, err := svc.List(r.Context(), services.CommentFilter{
			ItemID:      q.Get("itemId"),
			AuthorID:    q.Get("authorId"),
			ExcludeSelf: boolParam(r, "excludeSelf"),
			MinLikes:    minLikes,
			Limit:       limit,
		})
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, threads)
		return nil
	})
}

func CreateComment(svc *services.CommentService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req models.NewComment
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		created, err := svc.Create(r.Context(), req)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, created)
		return nil
	})
}

// DeleteComment lets the user a comment is addressed to remove it. The
// caller is identified by the bearer token, not the body.
func DeleteComment(svc *services.CommentService, auth *middleware.Authenticator) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		userID, err := auth.Subject(r)
		if err != nil {
			return err
		}
		var req struct {
			ItemType string `json:"item_type"`
		}
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"], userID, req.ItemType); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Comment deleted successfully"})
		return nil
	})
}

func VoteComment(svc *services.CommentService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			UserID   string          `json:"user_id"`
			VoteType models.VoteType `json:"vote_type"`
		}
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		summary, err := svc.Vote(r.Context(), mux.Vars(r)["id"], req.UserID, req.VoteType)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, summary)
		return nil
	})
}

func UnvoteComment(svc *services.CommentService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		var req struct {
			UserID string `json:"user_id"`
		}
		if err := decodeBody(r, &req); err != nil {
			return err
		}
		summary, err := svc.Unvote(r.Context(), mux.Vars(r)["id"], req.UserID)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, summary)
		return nil
	})
}

func GetProfile(svc *services.ProfileService) http.HandlerFunc {
	return Handle(func(w http.ResponseWriter, r *http.Request) error {
		profile, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, profile)
		return nil
	})
}

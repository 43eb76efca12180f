package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
	pb "github.com/dmitrijs2005/gophchat/internal/proto"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
)

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req pb.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	u, err := s.users.Register(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pb.UserFromModel(u))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req pb.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tokens, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pb.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req pb.RefreshTokenRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	tokens, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pb.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	if err := s.users.Logout(r.Context(), p.UserID); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := principalFromContext(r.Context())
	u, err := s.users.Profile(r.Context(), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pb.UserFromModel(u))
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req pb.AskRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, _ := principalFromContext(r.Context())
	ex, err := s.chat.SubmitQuestion(r.Context(), p.UserID, req.Question)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pb.ExchangeFromModel(ex))
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	req, err := parseListQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, _ := principalFromContext(r.Context())
	threads, err := s.threads.ListThreads(r.Context(), p, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pb.ThreadsFromModel(threads))
}

// parseListQuery reads userIds (comma separated, unparsable entries
// dropped), sort, page and limit, applying the listing defaults.
func parseListQuery(r *http.Request) (services.ListThreadsRequest, error) {
	q := r.URL.Query()
	req := services.ListThreadsRequest{
		Sort:  services.DefaultSort,
		Page:  services.DefaultPage,
		Limit: services.DefaultLimit,
	}

	if v := q.Get("userIds"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				continue
			}
			req.UserIDs = append(req.UserIDs, id)
		}
	}
	if v := q.Get("sort"); v != "" {
		req.Sort = v
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: page must be an integer", common.ErrorValidation)
		}
		req.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: limit must be an integer", common.ErrorValidation)
		}
		req.Limit = n
	}
	return req, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/poe/almacen/internal/domain"
)

// AuthService handles login. It is the one service that talks to the backend
// without a bearer token.
type AuthService struct {
	client *Client
}

// NewAuthService creates the auth service.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

type loginRequest struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contraseña"`
}

type wireLoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserInfo    struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
		Correo string `json:"correo"`
		Rol    any    `json:"rol"`
	} `json:"user_info"`
}

// roleFromWire maps the backend's rol field, which may arrive as a name or a
// numeric code (2 supervisor, 3 reponedor).
func roleFromWire(rol any) domain.Role {
	switch v := rol.(type) {
	case string:
		if v == "Supervisor" || v == "supervisor" {
			return domain.RoleSupervisor
		}
	case float64:
		if int(v) == 2 {
			return domain.RoleSupervisor
		}
	}
	return domain.RoleReponedor
}

// Login authenticates and returns the session to stash. It also clears the
// client's 401 latch so fetching can resume.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	req := loginRequest{Correo: email, Contrasena: password}
	var w wireLoginResponse
	if err := s.client.do(ctx, http.MethodPost, "/auth/login", req, &w, false); err != nil {
		return domain.Session{}, err
	}

	s.client.ResetSession()
	return domain.Session{
		AccessToken: w.AccessToken,
		TokenType:   w.TokenType,
		User: domain.User{
			ID:    w.UserInfo.ID,
			Name:  w.UserInfo.Nombre,
			Email: w.UserInfo.Correo,
			Role:  roleFromWire(w.UserInfo.Rol),
		},
	}, nil
}

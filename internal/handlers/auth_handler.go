package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pustakahub/pustaka-backend/internal/config"
	"github.com/pustakahub/pustaka-backend/internal/dto"
	"github.com/pustakahub/pustaka-backend/internal/services"
	"golang.org/x/oauth2"
)

const stateCookie = "oauth_state"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

type AuthHandler struct {
	authService *services.AuthService
	googleJWKS  *services.GoogleJWKSClient
	oauthCfg    *oauth2.Config
}

func NewAuthHandler(authService *services.AuthService, googleJWKS *services.GoogleJWKSClient, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		googleJWKS:  googleJWKS,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleEndpoint,
		},
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid registration fields",
		})
	}

	user, err := h.authService.Register(c.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("registration failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := dto.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email and password are required",
		})
	}

	token, err := h.authService.LoginWithEmail(c.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		// Unknown email and wrong password share one message so the
		// response does not reveal which accounts exist.
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: services.ErrInvalidCredentials.Error(),
			})
		case errors.Is(err, services.ErrNoPasswordSet):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			slog.Error("login failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
	}

	return c.JSON(dto.AuthResponse{AccessToken: token})
}

// GoogleLogin starts the authorization-code flow by redirecting the browser
// to Google's consent page.
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	state := base64.URLEncoding.EncodeToString(stateBytes)

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
	})

	return c.Redirect(h.oauthCfg.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback exchanges the authorization code, verifies the returned ID
// token, and signs the profile in.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	if c.Query("state") == "" || c.Query("state") != c.Cookies(stateCookie) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid OAuth state",
		})
	}

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing authorization code",
		})
	}

	token, err := h.oauthCfg.Exchange(c.Context(), code)
	if err != nil {
		slog.Error("google code exchange failed", "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Google sign-in failed",
		})
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Google sign-in failed",
		})
	}

	claims, err := h.googleJWKS.VerifyIDToken(rawIDToken, h.oauthCfg.ClientID)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Google sign-in failed",
		})
	}

	sessionToken, err := h.authService.LoginWithGoogle(c.Context(), services.FederatedProfile{
		Email:      claims.Email,
		Name:       claims.Name,
		ProviderID: claims.Sub,
	})
	if err != nil {
		slog.Error("google login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(dto.AuthResponse{AccessToken: sessionToken})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// RefreshResponse carries a new access token.
type RefreshResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// UpdateProfileRequest is a partial update of the caller's profile.
type UpdateProfileRequest struct {
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	FullName        *string `json:"full_name" validate:"omitempty,min=1,max=100"`
	AboutMe         *string `json:"about_me" validate:"omitempty,max=10000"`
	WhatICanDo      *string `json:"what_i_can_do" validate:"omitempty,max=10000"`
	CurrentPassword string  `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     string  `json:"new_password" validate:"omitempty,min=8,max=256"`
}

// CreateUserRequest is the admin request to add an account.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role" validate:"omitempty,oneof=admin viewer"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	res, err := h.svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	writeMessage(w, "Login successful", LoginResponse{
		User:         userResponse(res.User),
		Token:        res.Tokens.Access,
		RefreshToken: res.Tokens.Refresh,
		ExpiresIn:    res.Tokens.ExpiresIn,
	})
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	access, expiresIn, err := h.svc.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, RefreshResponse{Token: access, ExpiresIn: expiresIn})
}

// Logout handles POST /auth/logout. The refresh token in the body is the
// only credential, so a client whose access token expired can still log
// out. The access token stays valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Logged out", nil)
}

// GetProfile handles GET /auth/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		middleware.WriteAPIError(w, r, apperr.New(apperr.KindUnauthenticated, "Authentication required"))
		return
	}
	writeOK(w, userResponse(*user))
}

// UpdateProfile handles PUT /auth/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	user, err := h.svc.Users.UpdateProfile(r.Context(), middleware.GetUserID(r), service.UpdateProfileInput{
		Email:           req.Email,
		FullName:        req.FullName,
		AboutMe:         req.AboutMe,
		WhatICanDo:      req.WhatICanDo,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Profile updated", userResponse(user))
}

// PublicProfile handles GET /profile.
func (h *Handler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.PublicProfile(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, PublicProfileResponse{
		FullName:       user.FullName,
		ProfilePicture: userResponse(user).ProfilePicture,
		AboutMe:        user.AboutMe,
		WhatICanDo:     user.WhatICanDo,
	})
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.List(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, mapSlice(users, userResponse))
}

// CreateUser handles POST /users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	user, err := h.svc.Users.Create(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "User created", userResponse(user))
}

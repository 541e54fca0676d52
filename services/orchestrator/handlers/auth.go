// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/middleware"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

// invalidCredentials is deliberately identical for unknown emails and
// wrong passwords so login failures do not leak which accounts exist.
const invalidCredentials = "Invalid email or password"

// Signup registers a new account and returns a bearer token.
func Signup(store *storage.Store, tokens *middleware.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SignupRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email, name, and a password of at least 6 characters are required"})
			return
		}

		user := &datatypes.User{
			ID:           uuid.New().String(),
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			Name:         strings.TrimSpace(req.Name),
			PasswordHash: middleware.HashPassword(req.Password),
			CreatedAt:    time.Now().UTC(),
		}

		err := store.CreateUser(c.Request.Context(), user)
		if errors.Is(err, storage.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		if err != nil {
			slog.Error("Failed to create user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		token, err := tokens.CreateToken(user.ID)
		if err != nil {
			slog.Error("Failed to issue token", "user_id", user.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}

		slog.Info("User registered", "user_id", user.ID)
		c.JSON(http.StatusCreated, datatypes.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			User:        user.PublicView(),
		})
	}
}

// Login verifies credentials and returns a bearer token.
func Login(store *storage.Store, tokens *middleware.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.LoginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		user, err := store.GetUserByEmail(c.Request.Context(), email)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
			return
		}
		if err != nil {
			slog.Error("Failed to look up user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		if !middleware.VerifyPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
			return
		}

		token, err := tokens.CreateToken(user.ID)
		if err != nil {
			slog.Error("Failed to issue token", "user_id", user.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}

		c.JSON(http.StatusOK, datatypes.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			User:        user.PublicView(),
		})
	}
}

// Profile returns the authenticated user's public record. Requires the
// auth middleware upstream.
func Profile(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := store.GetUser(c.Request.Context(), userID)
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to load user", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		c.JSON(http.StatusOK, user.PublicView())
	}
}

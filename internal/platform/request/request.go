// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/ctxutil"
	"github.com/souqly/backend/internal/platform/sec"
	"github.com/souqly/backend/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
//
// Returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter (UUID/slug) from the request.
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// BearerToken extracts the token from an 'Authorization: Bearer <token>'
// header. It returns an empty string when the header is absent or not in
// Bearer form; callers decide which error that maps to (the session and
// reset flows report it differently).
func BearerToken(request *http.Request) string {
	header := request.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// AuthUser extracts the authenticated identity from the request context.
//
// Returns nil if the request did not pass the authenticate gate.
func AuthUser(request *http.Request) *sec.AuthUser {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredAuthUser ensures the request is authenticated and returns the identity.
func RequiredAuthUser(request *http.Request) (*sec.AuthUser, error) {
	user := ctxutil.GetAuthUser(request.Context())
	if user == nil {
		return nil, apperr.Unauthorized("Please log in to access the application")
	}
	return user, nil
}

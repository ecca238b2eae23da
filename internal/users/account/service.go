// Copyright (c) 2026 Souqly. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
)

// # Service Layer

// Service orchestrates profile and administration logic on top of the store.
type Service struct {
	store  AccountStore
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store AccountStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// # Self Service

/*
GetProfile retrieves the customer's own profile view.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Profile: Hydrated view
  - error: Not found or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {
	return service.store.FindProfile(context, userID)
}

/*
UpdateProfile applies a partial change to the customer's own profile.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *Profile: Updated view
  - error: Conflict on a taken email, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*Profile, error) {
	profile, err := service.store.UpdateProfile(context, userID, input)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))
	return profile, nil
}

/*
Deactivate closes the customer's own account.

Description: The row stays; the active flag drops, and the check-active gate
locks every subsequent request out. Reactivation is an admin action.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Deactivate(context context.Context, userID string) error {
	if err := service.store.SetActive(context, userID, false); err != nil {
		return fmt.Errorf("account_service_deactivate_failed: %w", err)
	}

	service.logger.Info("user_account_deactivated", slog.String("user_id", userID))
	return nil
}

// # Administration

/*
SetActive flips any account's active flag (admin surface).

Parameters:
  - context: context.Context
  - userID: string
  - active: bool

Returns:
  - error: Not found or storage failures
*/
func (service *Service) SetActive(context context.Context, userID string, active bool) error {
	if err := service.store.SetActive(context, userID, active); err != nil {
		return err
	}

	service.logger.Info("user_active_changed",
		slog.String("user_id", userID), slog.Bool("active", active))
	return nil
}

/*
SetRole assigns a role to an account (admin surface).

Parameters:
  - context: context.Context
  - userID: string
  - role: string

Returns:
  - error: Not found or storage failures
*/
func (service *Service) SetRole(context context.Context, userID, role string) error {
	if err := service.store.SetRole(context, userID, role); err != nil {
		return err
	}

	service.logger.Info("user_role_changed",
		slog.String("user_id", userID), slog.String("role", role))
	return nil
}

package database

import (
	"context"
	"fmt"
)

// SeedSuperuser makes sure the configured admin account exists. It runs at
// every startup and is a no-op when the account is already present.
func (s *Store) SeedSuperuser(ctx context.Context, email, password, fullName string) error {
	existing, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("checking for superuser: %w", err)
	}
	if existing != nil {
		return nil
	}

	params := CreateUserParams{
		Email:       email,
		Password:    password,
		IsSuperuser: true,
	}
	if fullName != "" {
		params.FullName = &fullName
	}

	if _, err := s.CreateUser(ctx, params); err != nil {
		return fmt.Errorf("creating superuser: %w", err)
	}
	return nil
}

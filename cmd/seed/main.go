// Seeds the demo accounts: one admin, two patients and three doctors. Safe to
// run repeatedly; existing usernames are left untouched.
package main

import (
	"context"
	"errors"

	"clinicbook/api/internal/config"
	"clinicbook/api/internal/database"
	"clinicbook/api/internal/ids"
	"clinicbook/api/internal/log"
	"clinicbook/api/internal/models"
	"clinicbook/api/internal/repository"
	"clinicbook/api/internal/security"
)

type seedUser struct {
	username       string
	password       string
	role           models.Role
	name           string
	email          string
	phone          string
	specialization string
}

var seedUsers = []seedUser{
	{"admin", "admin123", models.RoleAdmin, "System Administrator", "admin@hospital.com", "9999999999", ""},
	{"patient1", "123456", models.RolePatient, "Jane Doe", "jane@demo.com", "1111111111", ""},
	{"patient2", "123456", models.RolePatient, "John Smith", "john@demo.com", "2222222222", ""},
	{"dr_cardio", "123456", models.RoleDoctor, "Dr. Sarah Wilson", "sarah@hospital.com", "3333333333", "Cardiology"},
	{"dr_derma", "123456", models.RoleDoctor, "Dr. Michael Brown", "michael@hospital.com", "4444444444", "Dermatology"},
	{"dr_neuro", "123456", models.RoleDoctor, "Dr. Emily Davis", "emily@hospital.com", "5555555555", "Neurology"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)
	ctx := context.Background()

	if err := database.Migrate(cfg.Postgres, logger); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	for _, su := range seedUsers {
		if _, err := users.FindByUsername(ctx, su.username); err == nil {
			logger.Info().Str("username", su.username).Msg("already seeded")
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Fatal().Err(err).Str("username", su.username).Msg("lookup failed")
		}

		passwordHash, err := security.HashPassword(su.password)
		if err != nil {
			logger.Fatal().Err(err).Msg("hash password failed")
		}

		user := models.User{
			ID:           ids.New(),
			Username:     su.username,
			PasswordHash: passwordHash,
			Role:         su.role,
			Name:         su.name,
			Email:        su.email,
		}
		if su.phone != "" {
			phone := su.phone
			user.Phone = &phone
		}
		if su.specialization != "" {
			specialization := su.specialization
			user.Specialization = &specialization
		}

		if err := users.Create(ctx, user); err != nil {
			logger.Fatal().Err(err).Str("username", su.username).Msg("seed failed")
		}
		logger.Info().Str("username", su.username).Str("role", string(su.role)).Msg("seeded")
	}
}

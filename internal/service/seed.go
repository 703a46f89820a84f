package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/meat_shop/internal/config"
	"github.com/Skotchmaster/meat_shop/internal/hash"
	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/repo"
)

var DefaultCategories = []models.Category{
	{Label: "Boiler Chicken", Value: "boiler_chicken", Unit: models.UnitKg},
	{Label: "Layer Chicken", Value: "layer_chicken", Unit: models.UnitKg},
	{Label: "Eggs", Value: "eggs", Unit: models.UnitPiece},
}

type SeedService struct {
	Repo   *repo.GormRepo
	Admins []config.AdminSeed
}

type SeedResult struct {
	Categories int      `json:"categories"`
	Created    []string `json:"created"`
	Existing   []string `json:"existing"`
}

func (s *SeedService) SeedCategories(ctx context.Context) (int, error) {
	for _, c := range DefaultCategories {
		if err := s.Repo.UpsertCategory(ctx, &c); err != nil {
			return 0, fmt.Errorf("seed category %s: %w", c.Value, err)
		}
	}
	return len(DefaultCategories), nil
}

func (s *SeedService) SeedAdmins(ctx context.Context) (*SeedResult, error) {
	l := logging.FromContext(ctx).With("svc", "seed.admins")
	res := &SeedResult{Created: []string{}, Existing: []string{}}

	for _, a := range s.Admins {
		pw, err := hash.HashPassword(a.Password)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		err = s.Repo.CreateUserIfNotExists(ctx, &models.User{Username: a.Username, PasswordHash: pw, Role: models.RoleAdmin})
		switch {
		case errors.Is(err, repo.ErrUserAlreadyExist):
			res.Existing = append(res.Existing, a.Username)
		case err != nil:
			return nil, fmt.Errorf("seed admin %s: %w", a.Username, err)
		default:
			l.Info("admin_seeded", "username", a.Username)
			res.Created = append(res.Created, a.Username)
		}
	}
	return res, nil
}

// Run seeds default categories and configured admins.
func (s *SeedService) Run(ctx context.Context) (*SeedResult, error) {
	n, err := s.SeedCategories(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.SeedAdmins(ctx)
	if err != nil {
		return nil, err
	}
	res.Categories = n
	return res, nil
}

package devapi

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// SeedOwner describes the demo owner account created by Seed.
type SeedOwner struct {
	Email        string
	Password     string
	BusinessName string
	BusinessSlug string
	PhoneNumber  string
}

// SeedResult identifies the seeded owner.
type SeedResult struct {
	MerchantID int64
	BusinessID int64
}

var demoOffers = []offerModel{
	{Name: "Portrait session", Price: decimal.RequireFromString("100.00"), Duration: 3600, AllowPhoto: true},
	{Name: "Makeup", Price: decimal.RequireFromString("50.00"), Duration: 1800},
	{Name: "Hall rent", Price: decimal.RequireFromString("75.50"), Duration: 5400, AllowPhoto: true},
}

// Seed creates the owner, their business and a few offers. Running it twice returns the existing owner.
func Seed(ctx context.Context, repo *Repository, owner SeedOwner) (SeedResult, error) {
	email := strings.ToLower(strings.TrimSpace(owner.Email))
	if existing, err := repo.MerchantByEmail(ctx, email); err == nil {
		b, err := repo.BusinessByOwner(ctx, existing.ID)
		if err != nil {
			return SeedResult{}, err
		}
		return SeedResult{MerchantID: existing.ID, BusinessID: b.ID}, nil
	} else if !errors.Is(err, ErrNotFound) {
		return SeedResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(owner.Password), bcrypt.DefaultCost)
	if err != nil {
		return SeedResult{}, err
	}
	merchant := merchantModel{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Demo",
		LastName:     "Owner",
		PhoneNumber:  owner.PhoneNumber,
	}
	if err := repo.CreateMerchant(ctx, &merchant); err != nil {
		return SeedResult{}, err
	}

	business := businessModel{
		OwnerID:     merchant.ID,
		Slug:        owner.BusinessSlug,
		DisplayName: owner.BusinessName,
		PhoneNumber: owner.PhoneNumber,
	}
	if err := repo.CreateBusiness(ctx, &business); err != nil {
		return SeedResult{}, err
	}

	for _, o := range demoOffers {
		o.BusinessID = business.ID
		if err := repo.CreateOffer(ctx, &o); err != nil {
			return SeedResult{}, err
		}
	}
	return SeedResult{MerchantID: merchant.ID, BusinessID: business.ID}, nil
}

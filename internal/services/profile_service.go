package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/socifi-backend/internal/domain"
	"github.com/tbourn/socifi-backend/internal/repo"
)

// mistPerSUIExp is the number of decimal places between MIST and SUI.
const mistPerSUIExp = 9

// MistToSUI converts a MIST amount to SUI without losing precision.
func MistToSUI(mist uint64) decimal.Decimal {
	return decimal.NewFromUint64(mist).Shift(-mistPerSUIExp)
}

// ProfileService serves the authenticated user's own profile.
type ProfileService struct {
	DB *gorm.DB
}

// Me returns the user and the total of their recorded rewards in SUI. The
// total counts every claim, paid or not.
func (s *ProfileService) Me(ctx context.Context, userID uint) (*domain.User, decimal.Decimal, error) {
	ctx, span := otel.Tracer("services/ProfileService").Start(ctx, "Me",
		trace.WithAttributes(attribute.Int64("user.id", int64(userID))),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, decimal.Zero, ErrUserNotFound
		}
		return nil, decimal.Zero, err
	}
	mist, err := repo.SumClaimMist(ctx, s.DB, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return u, MistToSUI(mist), nil
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"suit-rental-backend/internal/domain"
	"suit-rental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSuitService(t *testing.T) {
	ctx := context.Background()

	t.Run("AddSuit assigns the owner", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewSuitService(f.store, nil)

		suit := &domain.Suit{OwnerID: 999, Name: "Grey", Size: domain.SuitSizeL, Gender: domain.SuitGenderMen, Category: domain.SuitCategoryFormal, PricePerDayCents: 2500}
		require.NoError(t, svc.AddSuit(ctx, f.rival, suit))
		assert.Equal(t, f.rival.UserID, suit.OwnerID)
		assert.Equal(t, domain.SuitStatusAvailable, suit.Status)

		assert.ErrorIs(t, svc.AddSuit(ctx, f.client, &domain.Suit{}), domain.ErrUnauthorized)
		assert.ErrorIs(t, svc.AddSuit(ctx, f.owner, &domain.Suit{Name: "x"}), domain.ErrInvalidInput)
	})

	t.Run("UpdateSuit owner only", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewSuitService(f.store, nil)

		update := *f.suit
		update.PricePerDayCents = 150
		assert.ErrorIs(t, svc.UpdateSuit(ctx, f.rival, &update), domain.ErrUnauthorized)
		require.NoError(t, svc.UpdateSuit(ctx, f.owner, &update))

		got, err := svc.GetSuit(ctx, f.suit.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(150), got.PricePerDayCents)
	})

	t.Run("DeleteSuit refused while a rental is active", func(t *testing.T) {
		f := newFixture(t)
		cache := new(MockAvailabilityCache)
		cache.On("Invalidate", mock.Anything, f.suit.ID).Return(nil)
		svc := service.NewSuitService(f.store, cache)
		rentals := service.NewRentalService(f.store, cache, nil)

		r, err := rentals.CreateRental(ctx, f.owner, service.CreateRentalInput{SuitID: f.suit.ID, ClientID: f.client.UserID, Days: days("2025-06-01")})
		require.NoError(t, err)
		assert.ErrorIs(t, svc.DeleteSuit(ctx, f.owner, f.suit.ID), domain.ErrInvalidState)

		_, err = rentals.CompleteRental(ctx, f.owner, r.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, svc.DeleteSuit(ctx, f.rival, f.suit.ID), domain.ErrUnauthorized)
		require.NoError(t, svc.DeleteSuit(ctx, f.owner, f.suit.ID))

		_, err = svc.GetSuit(ctx, f.suit.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListSuits shows available suits only", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewSuitService(f.store, nil)

		hidden := &domain.Suit{Name: "Tux", Size: domain.SuitSizeS, Gender: domain.SuitGenderBoys, Category: domain.SuitCategoryParty, Status: domain.SuitStatusUnavailable}
		require.NoError(t, svc.AddSuit(ctx, f.owner, hidden))

		suits, count, err := svc.ListSuits(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int32(1), count)
		assert.Equal(t, f.suit.ID, suits[0].ID)

		mine, count, err := svc.ListMySuits(ctx, f.owner, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int32(2), count)
		assert.Len(t, mine, 2)
	})

	t.Run("SetAvailabilityHint", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewSuitService(f.store, nil)

		require.NoError(t, svc.SetAvailabilityHint(ctx, f.suit.ID, false))
		got, _ := svc.GetSuit(ctx, f.suit.ID)
		assert.Equal(t, domain.SuitStatusRented, got.Status)

		require.NoError(t, svc.SetAvailabilityHint(ctx, f.suit.ID, true))
		got, _ = svc.GetSuit(ctx, f.suit.ID)
		assert.Equal(t, domain.SuitStatusAvailable, got.Status)

		assert.ErrorIs(t, svc.SetAvailabilityHint(ctx, 999, true), domain.ErrNotFound)
	})

	t.Run("listing port reads price and owner", func(t *testing.T) {
		f := newFixture(t)
		var port service.ListingPort = service.NewSuitService(f.store, nil)

		price, err := port.GetPricePerDay(ctx, f.suit.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), price)

		owner, err := port.GetOwnerID(ctx, f.suit.ID)
		require.NoError(t, err)
		assert.Equal(t, f.owner.UserID, owner)

		_, err = port.GetOwnerID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListingNotifiers(t *testing.T) {
	ctx := context.Background()
	a := new(MockListingNotifier)
	b := new(MockListingNotifier)
	boom := errors.New("boom")
	a.On("SetAvailabilityHint", ctx, int32(1), true).Return(boom)
	b.On("SetAvailabilityHint", ctx, int32(1), true).Return(nil)

	err := service.ListingNotifiers{a, b}.SetAvailabilityHint(ctx, 1, true)
	assert.ErrorIs(t, err, boom)
	b.AssertExpectations(t)

	assert.NoError(t, service.ListingNotifiers(nil).SetAvailabilityHint(ctx, 1, true))
}

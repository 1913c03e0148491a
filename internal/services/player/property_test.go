package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/mcoot/donateshop/internal/dependencies/mocks"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage/memory"
)

func newPropertyService() (*Service, *memory.Storage) {
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(store, clk, nil, nil), store
}

func steamIDGen() gopter.Gen {
	return gen.Identifier().Map(func(s string) model.SteamID {
		return model.SteamID(s)
	})
}

func TestProperty_PlayerLifecycle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	properties.Property("new players start with default name and zero coins", prop.ForAll(
		func(id model.SteamID) bool {
			svc, _ := newPropertyService()
			player, err := svc.GetOrCreate(ctx, id)
			if err != nil {
				return false
			}
			return player.DonateCoins == 0 && player.PlayerName == "Player_"+string(id)
		},
		steamIDGen(),
	))

	properties.Property("get-or-create is idempotent", prop.ForAll(
		func(id model.SteamID, calls int) bool {
			svc, store := newPropertyService()
			first, err := svc.GetOrCreate(ctx, id)
			if err != nil {
				return false
			}
			for range calls {
				again, err := svc.GetOrCreate(ctx, id)
				if err != nil || *again != *first {
					return false
				}
			}
			return store.Count() == 1
		},
		steamIDGen(),
		gen.IntRange(1, 10),
	))

	properties.Property("set balance is visible to the next lookup", prop.ForAll(
		func(id model.SteamID, coins int64) bool {
			svc, _ := newPropertyService()
			if _, err := svc.GetOrCreate(ctx, id); err != nil {
				return false
			}
			if _, err := svc.SetBalance(ctx, id, coins); err != nil {
				return false
			}
			player, err := svc.GetOrCreate(ctx, id)
			return err == nil && player.DonateCoins == coins
		},
		steamIDGen(),
		gen.Int64(),
	))

	properties.Property("set balance on unknown player is not found and inserts nothing", prop.ForAll(
		func(id model.SteamID, coins int64) bool {
			svc, store := newPropertyService()
			_, err := svc.SetBalance(ctx, id, coins)
			return errors.Is(err, model.ErrPlayerNotFound) && store.Count() == 0
		},
		steamIDGen(),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

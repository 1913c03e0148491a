package player

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/donateshop/internal/dependencies/mocks"
	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/model"
	"github.com/mcoot/donateshop/internal/storage"
	"github.com/mcoot/donateshop/internal/storage/memory"
	"github.com/mcoot/donateshop/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	metrics *metrics.Metrics
	logs    *testutil.LogBuffer
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.metrics = metrics.New()
	logger, logs := testutil.CaptureLogger()
	s.logs = logs
	s.service = New(s.storage, s.clock, s.metrics, logger)
	s.ctx = context.Background()
}

// GetOrCreate tests

func (s *ServiceSuite) TestGetOrCreateNewPlayerHasDefaults() {
	player, err := s.service.GetOrCreate(s.ctx, "76561198000000001")
	s.Require().NoError(err)

	s.Equal(model.SteamID("76561198000000001"), player.SteamID)
	s.Equal("Player_76561198000000001", player.PlayerName)
	s.Equal(int64(0), player.DonateCoins)
	s.Equal(s.clock.Now(), player.LastSeen)
}

func (s *ServiceSuite) TestGetOrCreateReturnsSameRecord() {
	first, err := s.service.GetOrCreate(s.ctx, "steam-1")
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	second, err := s.service.GetOrCreate(s.ctx, "steam-1")
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(1, s.storage.Count())
}

func (s *ServiceSuite) TestGetOrCreateRejectsEmptySteamID() {
	_, err := s.service.GetOrCreate(s.ctx, "")
	s.ErrorIs(err, model.ErrInvalidSteamID)
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestGetOrCreateCountsOperation() {
	_, _ = s.service.GetOrCreate(s.ctx, "steam-1")

	expected := `
# HELP donateshop_player_operations_total Successful player store operations
# TYPE donateshop_player_operations_total counter
donateshop_player_operations_total{op="get_or_create"} 1
`
	err := promtestutil.GatherAndCompare(s.metrics.Registry, strings.NewReader(expected), "donateshop_player_operations_total")
	s.NoError(err)
}

// SetBalance tests

func (s *ServiceSuite) TestSetBalanceOverwritesCoins() {
	_, err := s.service.GetOrCreate(s.ctx, "steam-1")
	s.Require().NoError(err)

	s.clock.Advance(10 * time.Minute)
	player, err := s.service.SetBalance(s.ctx, "steam-1", 50)
	s.Require().NoError(err)
	s.Equal(int64(50), player.DonateCoins)
	s.Equal(s.clock.Now(), player.LastSeen)

	fetched, err := s.service.GetOrCreate(s.ctx, "steam-1")
	s.Require().NoError(err)
	s.Equal(int64(50), fetched.DonateCoins)
}

func (s *ServiceSuite) TestSetBalanceIsLogged() {
	_, _ = s.service.GetOrCreate(s.ctx, "steam-1")
	_, err := s.service.SetBalance(s.ctx, "steam-1", 75)
	s.Require().NoError(err)

	entry := s.logs.Find("donate coins set")
	s.Require().NotNil(entry)
	s.Equal("INFO", entry["level"])
	s.Equal("player-service", entry["component"])
	s.Equal("steam-1", entry["steam_id"])
	s.InDelta(75, entry["donate_coins"], 0)
}

func (s *ServiceSuite) TestSetBalanceAcceptsNegative() {
	_, _ = s.service.GetOrCreate(s.ctx, "steam-1")

	player, err := s.service.SetBalance(s.ctx, "steam-1", -30)
	s.Require().NoError(err)
	s.Equal(int64(-30), player.DonateCoins)
}

func (s *ServiceSuite) TestSetBalanceUnknownPlayer() {
	_, err := s.service.SetBalance(s.ctx, "ghost", 50)
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestSetBalanceRejectsEmptySteamID() {
	_, err := s.service.SetBalance(s.ctx, "", 50)
	s.ErrorIs(err, model.ErrInvalidSteamID)
}

// Get tests

func (s *ServiceSuite) TestGetDoesNotCreate() {
	_, err := s.service.Get(s.ctx, "steam-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.Equal(0, s.storage.Count())
}

func (s *ServiceSuite) TestGetExisting() {
	created, _ := s.service.GetOrCreate(s.ctx, "steam-1")

	player, err := s.service.Get(s.ctx, "steam-1")
	s.Require().NoError(err)
	s.Equal(created.ID, player.ID)
}

// Health tests

func (s *ServiceSuite) TestHealthReturnsStoreTime() {
	now, err := s.service.Health(s.ctx)
	s.Require().NoError(err)
	s.False(now.IsZero())
}

// Storage fault tests

func (s *ServiceSuite) TestStorageFaultsAreWrapped() {
	fault := errors.New("connection refused")
	logger, logs := testutil.CaptureLogger()
	svc := New(&failingStorage{err: fault}, s.clock, s.metrics, logger)

	_, err := svc.GetOrCreate(s.ctx, "steam-1")
	s.assertStorageError(err, fault, metrics.OpGetOrCreate)

	_, err = svc.SetBalance(s.ctx, "steam-1", 10)
	s.assertStorageError(err, fault, metrics.OpSetBalance)

	_, err = svc.Get(s.ctx, "steam-1")
	s.assertStorageError(err, fault, metrics.OpGet)

	_, err = svc.Health(s.ctx)
	s.assertStorageError(err, fault, metrics.OpHealth)

	entry := logs.Find("storage operation failed")
	s.Require().NotNil(entry)
	s.Equal("ERROR", entry["level"])
	s.Equal("connection refused", entry["error"])
}

func (s *ServiceSuite) assertStorageError(err, cause error, op string) {
	var storageErr *model.StorageError
	s.Require().ErrorAs(err, &storageErr)
	s.Equal(op, storageErr.Op)
	s.ErrorIs(err, cause)
}

// failingStorage fails every call with err
type failingStorage struct {
	err error
}

var _ storage.Storage = (*failingStorage)(nil)

func (f *failingStorage) GetOrCreatePlayer(context.Context, model.SteamID, string, time.Time) (*model.Player, error) {
	return nil, f.err
}

func (f *failingStorage) GetPlayer(context.Context, model.SteamID) (*model.Player, error) {
	return nil, f.err
}

func (f *failingStorage) SetDonateCoins(context.Context, model.SteamID, int64, time.Time) (*model.Player, error) {
	return nil, f.err
}

func (f *failingStorage) Now(context.Context) (time.Time, error) {
	return time.Time{}, f.err
}

func (f *failingStorage) Close() error {
	return nil
}

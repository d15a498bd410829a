package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionapi/base/ctx"
	mockAuction "github.com/x-xyz/auctionapi/domain/auction/mocks"
	mockHc "github.com/x-xyz/auctionapi/domain/healthcheck/mocks"
)

func TestCheck(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	repo := &mockHc.HealthCheckRepo{}
	auctionRepo := &mockAuction.Repo{}
	uc := New(repo, auctionRepo)

	repo.On("PingDB", mock.Anything).Return(nil).Once()
	auctionRepo.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(3, nil).Once()

	report, err := uc.Check(c)
	req.NoError(err)
	req.True(report.Healthy)
	req.Equal(3, report.SettleBacklog)
}

func TestCheckPingFails(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	repo := &mockHc.HealthCheckRepo{}
	auctionRepo := &mockAuction.Repo{}
	uc := New(repo, auctionRepo)

	repo.On("PingDB", mock.Anything).Return(errors.New("mongo down")).Once()

	_, err := uc.Check(c)
	req.Error(err)
	auctionRepo.AssertNotCalled(t, "Count")
}

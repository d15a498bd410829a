package usecase

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionapi/base/ctx"
	mockNormalizer "github.com/x-xyz/auctionapi/base/price_normalizer/mocks"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
	mockAuction "github.com/x-xyz/auctionapi/domain/auction/mocks"
	mockDomain "github.com/x-xyz/auctionapi/domain/mocks"
)

var mockCtx = ctx.Background()

const (
	chainId      = domain.ChainId(1)
	seller       = domain.Address("0xseller")
	bidderA      = domain.Address("0xbidder-a")
	bidderB      = domain.Address("0xbidder-b")
	tokenA       = domain.Address("0xtoken-a")
	tokenB       = domain.Address("0xtoken-b")
	contractAddr = domain.Address("0xcollection")
	feeRecipient = domain.Address("0xfee")
	custody      = domain.Address("0xcustody")
)

type testsuite struct {
	suite.Suite

	auctionRepo  *mockAuction.Repo
	activityRepo *mockAuction.ActivityRepo
	payTokenRepo *mockDomain.PayTokenRepo
	normalizer   *mockNormalizer.PriceNormalizer
	funds        *mockDomain.FundTransfer
	registry     *mockDomain.TokenRegistry
	subject      *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.auctionRepo = &mockAuction.Repo{}
	t.activityRepo = &mockAuction.ActivityRepo{}
	t.payTokenRepo = &mockDomain.PayTokenRepo{}
	t.normalizer = &mockNormalizer.PriceNormalizer{}
	t.funds = &mockDomain.FundTransfer{}
	t.registry = &mockDomain.TokenRegistry{}
	t.subject = New(&AuctionUseCaseCfg{
		AuctionRepo:  t.auctionRepo,
		ActivityRepo: t.activityRepo,
		PayTokenRepo: t.payTokenRepo,
		Normalizer:   t.normalizer,
		Funds:        t.funds,
		Registry:     t.registry,
		FeeRecipient: feeRecipient,
		Custody:      custody,
		MinDuration:  time.Hour,
	}).(*impl)
	t.activityRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
}

func (t *testsuite) openAuction(winning *auction.Bid) *auction.Auction {
	return &auction.Auction{
		AuctionId: 7,
		NftItemId: domain.NftItemId{
			ChainId:         chainId,
			ContractAddress: contractAddr,
			TokenId:         "42",
		},
		Seller:        seller,
		StartingPrice: auction.ValueUnits(1).String(),
		PayTokens:     []domain.Address{tokenA, tokenB},
		StartTime:     time.Now().Add(-time.Hour),
		EndTime:       time.Now().Add(time.Hour),
		Status:        auction.StatusOpen,
		WinningBid:    winning,
	}
}

func (t *testsuite) expiredAuction(winning *auction.Bid) *auction.Auction {
	a := t.openAuction(winning)
	a.EndTime = time.Now().Add(-time.Minute)
	return a
}

// --- CreateAuction ---

func (t *testsuite) TestCreateAuction() {
	payload := &auction.CreateAuctionPayload{
		ChainId:         chainId,
		ContractAddress: contractAddr,
		TokenId:         "42",
		Seller:          seller,
		StartingPrice:   auction.ValueUnits(1).String(),
		PayTokens:       []domain.Address{tokenA},
		EndTime:         time.Now().Add(24 * time.Hour),
	}

	t.payTokenRepo.On("FindOne", mockCtx, chainId, tokenA).Return(&domain.PayToken{}, nil)
	t.registry.On("OwnerOf", mockCtx, chainId, contractAddr, big.NewInt(42)).Return(seller, nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, seller, custody, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("NextId", mockCtx).Return(domain.AuctionId(7), nil)
	t.auctionRepo.On("Insert", mockCtx, mock.Anything).Return(nil)

	a, err := t.subject.CreateAuction(mockCtx, payload)
	t.NoError(err)
	t.Equal(domain.AuctionId(7), a.AuctionId)
	t.Equal(auction.StatusOpen, a.Status)
	t.registry.AssertCalled(t.T(), "Transfer", mockCtx, chainId, contractAddr, seller, custody, big.NewInt(42))
}

func (t *testsuite) TestCreateAuctionInvalidDuration() {
	payload := &auction.CreateAuctionPayload{
		ChainId:       chainId,
		Seller:        seller,
		StartingPrice: "1",
		PayTokens:     []domain.Address{tokenA},
		EndTime:       time.Now().Add(time.Minute),
	}

	_, err := t.subject.CreateAuction(mockCtx, payload)
	t.ErrorIs(err, domain.ErrInvalidDuration)
	t.registry.AssertNotCalled(t.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestCreateAuctionInvalidStartingPrice() {
	payload := &auction.CreateAuctionPayload{
		ChainId:       chainId,
		Seller:        seller,
		StartingPrice: "0",
		PayTokens:     []domain.Address{tokenA},
		EndTime:       time.Now().Add(24 * time.Hour),
	}

	_, err := t.subject.CreateAuction(mockCtx, payload)
	t.ErrorIs(err, domain.ErrInvalidStartingPrice)
}

func (t *testsuite) TestCreateAuctionUnregisteredPayToken() {
	payload := &auction.CreateAuctionPayload{
		ChainId:       chainId,
		Seller:        seller,
		StartingPrice: "1",
		PayTokens:     []domain.Address{tokenA},
		EndTime:       time.Now().Add(24 * time.Hour),
	}

	t.payTokenRepo.On("FindOne", mockCtx, chainId, tokenA).Return(nil, domain.ErrNotFound)

	_, err := t.subject.CreateAuction(mockCtx, payload)
	t.ErrorIs(err, domain.ErrWrongCurrency)
}

func (t *testsuite) TestCreateAuctionNotOwner() {
	payload := &auction.CreateAuctionPayload{
		ChainId:         chainId,
		ContractAddress: contractAddr,
		TokenId:         "42",
		Seller:          seller,
		StartingPrice:   "1",
		PayTokens:       []domain.Address{tokenA},
		EndTime:         time.Now().Add(24 * time.Hour),
	}

	t.payTokenRepo.On("FindOne", mockCtx, chainId, tokenA).Return(&domain.PayToken{}, nil)
	t.registry.On("OwnerOf", mockCtx, chainId, contractAddr, big.NewInt(42)).Return(bidderA, nil)

	_, err := t.subject.CreateAuction(mockCtx, payload)
	t.ErrorIs(err, domain.ErrBadParamInput)
	t.registry.AssertNotCalled(t.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestCreateAuctionCustodyPullFails() {
	payload := &auction.CreateAuctionPayload{
		ChainId:         chainId,
		ContractAddress: contractAddr,
		TokenId:         "42",
		Seller:          seller,
		StartingPrice:   "1",
		PayTokens:       []domain.Address{tokenA},
		EndTime:         time.Now().Add(24 * time.Hour),
	}

	t.payTokenRepo.On("FindOne", mockCtx, chainId, tokenA).Return(&domain.PayToken{}, nil)
	t.registry.On("OwnerOf", mockCtx, chainId, contractAddr, big.NewInt(42)).Return(seller, nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, seller, custody, big.NewInt(42)).Return(errors.New("not approved"))

	_, err := t.subject.CreateAuction(mockCtx, payload)
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.auctionRepo.AssertNotCalled(t.T(), "Insert", mock.Anything, mock.Anything)
}

// --- PlaceBid ---

func (t *testsuite) TestPlaceBidFirstBid() {
	a := t.openAuction(nil)
	raw := big.NewInt(1_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenA, raw).Return(auction.ValueUnits(800), nil)
	t.normalizer.On("DisplayPrice", mockCtx, chainId, tokenA, raw).Return(decimal.NewFromInt(1), nil)
	t.funds.On("Pull", mockCtx, chainId, tokenA, bidderA, raw).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(nil)

	res, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderA, tokenA, raw)
	t.NoError(err)
	t.Equal(bidderA, res.WinningBid.Bidder)
	t.Equal(auction.ValueUnits(800).String(), res.WinningBid.NormalizedValue)
	t.funds.AssertNotCalled(t.T(), "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestPlaceBidBelowStartingPriceRejected() {
	a := t.openAuction(nil)
	raw := big.NewInt(100)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	// starting price is 1 value unit, this bid normalizes below it
	t.normalizer.On("Normalize", mockCtx, chainId, tokenA, raw).Return(big.NewInt(5), nil)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderA, tokenA, raw)
	t.ErrorIs(err, domain.ErrBidTooLow)
	t.funds.AssertNotCalled(t.T(), "Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	t.auctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestPlaceBidEqualValueRejected() {
	leader := &auction.Bid{
		Bidder:          bidderA,
		PayToken:        tokenA,
		RawAmount:       "1000000",
		NormalizedValue: auction.ValueUnits(800).String(),
	}
	a := t.openAuction(leader)
	raw := big.NewInt(2_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenB, raw).Return(auction.ValueUnits(800), nil)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderB, tokenB, raw)
	t.ErrorIs(err, domain.ErrBidTooLow)
	t.funds.AssertNotCalled(t.T(), "Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestPlaceBidDisplacesLeader() {
	// scenario: value 800 in currency A displaced by value 2500 in currency B
	leader := &auction.Bid{
		Bidder:          bidderA,
		PayToken:        tokenA,
		RawAmount:       "1000000",
		NormalizedValue: auction.ValueUnits(800).String(),
	}
	a := t.openAuction(leader)
	raw := big.NewInt(3_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenB, raw).Return(auction.ValueUnits(2500), nil)
	t.normalizer.On("DisplayPrice", mockCtx, chainId, tokenB, raw).Return(decimal.NewFromInt(3), nil)
	t.funds.On("Pull", mockCtx, chainId, tokenB, bidderB, raw).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenA, bidderA, big.NewInt(1000000)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(nil)

	res, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderB, tokenB, raw)
	t.NoError(err)
	t.Equal(bidderB, res.WinningBid.Bidder)
	t.Equal(auction.ValueUnits(2500).String(), res.WinningBid.NormalizedValue)
	// the displaced leader got back the original currency and amount
	t.funds.AssertCalled(t.T(), "Push", mockCtx, chainId, tokenA, bidderA, big.NewInt(1000000))
}

func (t *testsuite) TestPlaceBidRefundFailureAborts() {
	leader := &auction.Bid{
		Bidder:          bidderA,
		PayToken:        tokenA,
		RawAmount:       "1000000",
		NormalizedValue: auction.ValueUnits(800).String(),
	}
	a := t.openAuction(leader)
	raw := big.NewInt(3_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenB, raw).Return(auction.ValueUnits(2500), nil)
	t.normalizer.On("DisplayPrice", mockCtx, chainId, tokenB, raw).Return(decimal.NewFromInt(3), nil)
	t.funds.On("Pull", mockCtx, chainId, tokenB, bidderB, raw).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenA, bidderA, big.NewInt(1000000)).Return(errors.New("revert"))
	// the pulled funds go back to the new bidder
	t.funds.On("Push", mockCtx, chainId, tokenB, bidderB, raw).Return(nil)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderB, tokenB, raw)
	t.ErrorIs(err, domain.ErrRefundFailed)
	t.funds.AssertCalled(t.T(), "Push", mockCtx, chainId, tokenB, bidderB, raw)
	t.auctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestPlaceBidPersistFailureReversesTransfers() {
	leader := &auction.Bid{
		Bidder:          bidderA,
		PayToken:        tokenA,
		RawAmount:       "1000000",
		NormalizedValue: auction.ValueUnits(800).String(),
	}
	a := t.openAuction(leader)
	raw := big.NewInt(3_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenB, raw).Return(auction.ValueUnits(2500), nil)
	t.normalizer.On("DisplayPrice", mockCtx, chainId, tokenB, raw).Return(decimal.NewFromInt(3), nil)
	t.funds.On("Pull", mockCtx, chainId, tokenB, bidderB, raw).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenA, bidderA, big.NewInt(1000000)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(errors.New("mongo down"))
	// the pulled funds go back to the aborted bidder and the refund that
	// already went out is clawed back, the stored leader is still owed it
	t.funds.On("Push", mockCtx, chainId, tokenB, bidderB, raw).Return(nil)
	t.funds.On("Pull", mockCtx, chainId, tokenA, bidderA, big.NewInt(1000000)).Return(nil)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderB, tokenB, raw)
	t.Error(err)
	t.funds.AssertCalled(t.T(), "Push", mockCtx, chainId, tokenB, bidderB, raw)
	t.funds.AssertCalled(t.T(), "Pull", mockCtx, chainId, tokenA, bidderA, big.NewInt(1000000))
}

func (t *testsuite) TestPlaceBidPullFailure() {
	a := t.openAuction(nil)
	raw := big.NewInt(1_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenA, raw).Return(auction.ValueUnits(800), nil)
	t.normalizer.On("DisplayPrice", mockCtx, chainId, tokenA, raw).Return(decimal.NewFromInt(1), nil)
	t.funds.On("Pull", mockCtx, chainId, tokenA, bidderA, raw).Return(errors.New("no allowance"))

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderA, tokenA, raw)
	t.ErrorIs(err, domain.ErrTransferFailed)
	t.auctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestPlaceBidWrongCurrency() {
	a := t.openAuction(nil)
	a.PayTokens = []domain.Address{tokenA}

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderA, tokenB, big.NewInt(1))
	t.ErrorIs(err, domain.ErrWrongCurrency)
}

func (t *testsuite) TestPlaceBidOnExpiredAuction() {
	// expired but still nominally open, no settle call yet
	a := t.expiredAuction(nil)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderA, tokenA, big.NewInt(1))
	t.ErrorIs(err, domain.ErrAuctionExpired)
}

func (t *testsuite) TestPlaceBidOnMissingAuction() {
	t.auctionRepo.On("FindOne", mockCtx, domain.AuctionId(404)).Return(nil, domain.ErrAuctionNotFound)

	_, err := t.subject.PlaceBid(mockCtx, 404, bidderA, tokenA, big.NewInt(1))
	t.ErrorIs(err, domain.ErrAuctionNotFound)
}

func (t *testsuite) TestPlaceBidOracleErrorAborts() {
	a := t.openAuction(nil)
	raw := big.NewInt(1_000_000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.normalizer.On("Normalize", mockCtx, chainId, tokenA, raw).Return(nil, domain.ErrInvalidOraclePrice)

	_, err := t.subject.PlaceBid(mockCtx, a.AuctionId, bidderA, tokenA, raw)
	t.ErrorIs(err, domain.ErrInvalidOraclePrice)
	t.funds.AssertNotCalled(t.T(), "Pull", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Settle ---

func (t *testsuite) TestSettleWithWinner() {
	// winning value 2500 units sits in the middle tier (150 bps)
	winning := &auction.Bid{
		Bidder:          bidderB,
		PayToken:        tokenB,
		RawAmount:       "3000000",
		NormalizedValue: auction.ValueUnits(2500).String(),
	}
	a := t.expiredAuction(winning)

	wantFee := big.NewInt(45000)   // floor(3000000 * 150 / 10000)
	wantNet := big.NewInt(2955000) // conservation: fee + net == raw

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, feeRecipient, wantFee).Return(nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, bidderB, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(nil)

	res, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.NoError(err)
	t.Equal(auction.StatusEnded, res.Status)
	t.Equal(bidderB, res.Settlement.Winner)
	t.Equal(wantFee.String(), res.Settlement.FeeAmount)
	t.Equal(wantNet.String(), res.Settlement.NetAmount)
	t.Equal(int64(150), res.Settlement.FeeRateBps)
}

func (t *testsuite) TestSettleSmallValueHighTier() {
	// scenario: starting price 1 unit, winning bid worth exactly 1 unit
	winning := &auction.Bid{
		Bidder:          bidderA,
		PayToken:        tokenA,
		RawAmount:       "10000",
		NormalizedValue: auction.ValueUnits(1).String(),
	}
	a := t.expiredAuction(winning)

	wantFee := big.NewInt(250) // 250 bps of 10000
	wantNet := big.NewInt(9750)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.funds.On("Push", mockCtx, chainId, tokenA, seller, wantNet).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenA, feeRecipient, wantFee).Return(nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, bidderA, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(nil)

	res, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.NoError(err)
	t.Equal(int64(250), res.Settlement.FeeRateBps)
}

func (t *testsuite) TestSettleNoBid() {
	a := t.expiredAuction(nil)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, seller, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(nil)

	res, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.NoError(err)
	t.Equal(auction.StatusEnded, res.Status)
	t.Nil(res.Settlement)
	// no currency moved
	t.funds.AssertNotCalled(t.T(), "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestSettleNotYetExpired() {
	a := t.openAuction(nil)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)

	_, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.ErrorIs(err, domain.ErrNotYetExpired)
	t.auctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestSettleTwice() {
	a := t.expiredAuction(nil)
	ended := t.expiredAuction(nil)
	ended.Status = auction.StatusEnded

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil).Once()
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, seller, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(nil)

	_, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.NoError(err)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(ended, nil)
	_, err = t.subject.Settle(mockCtx, a.AuctionId)
	t.ErrorIs(err, domain.ErrAuctionAlreadySettled)
}

func (t *testsuite) TestSettleDisbursementFailureKeepsOpen() {
	winning := &auction.Bid{
		Bidder:          bidderB,
		PayToken:        tokenB,
		RawAmount:       "3000000",
		NormalizedValue: auction.ValueUnits(2500).String(),
	}
	a := t.expiredAuction(winning)

	wantFee := big.NewInt(45000)
	wantNet := big.NewInt(2955000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, feeRecipient, wantFee).Return(errors.New("revert"))
	// the completed net disbursement is clawed back
	t.funds.On("Pull", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)

	_, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.ErrorIs(err, domain.ErrDisbursementFailed)
	t.funds.AssertCalled(t.T(), "Pull", mockCtx, chainId, tokenB, seller, wantNet)
	// the status flip was never persisted, retry re-runs everything
	t.auctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
	t.registry.AssertNotCalled(t.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestSettleAssetTransferFailureKeepsOpen() {
	winning := &auction.Bid{
		Bidder:          bidderB,
		PayToken:        tokenB,
		RawAmount:       "3000000",
		NormalizedValue: auction.ValueUnits(2500).String(),
	}
	a := t.expiredAuction(winning)

	wantFee := big.NewInt(45000)
	wantNet := big.NewInt(2955000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, feeRecipient, wantFee).Return(nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, bidderB, big.NewInt(42)).Return(errors.New("revert"))
	t.funds.On("Pull", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)
	t.funds.On("Pull", mockCtx, chainId, tokenB, feeRecipient, wantFee).Return(nil)

	_, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.ErrorIs(err, domain.ErrDisbursementFailed)
	t.auctionRepo.AssertNotCalled(t.T(), "Update", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestSettlePersistFailureReversesDisbursement() {
	winning := &auction.Bid{
		Bidder:          bidderB,
		PayToken:        tokenB,
		RawAmount:       "3000000",
		NormalizedValue: auction.ValueUnits(2500).String(),
	}
	a := t.expiredAuction(winning)

	wantFee := big.NewInt(45000)
	wantNet := big.NewInt(2955000)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)
	t.funds.On("Push", mockCtx, chainId, tokenB, feeRecipient, wantFee).Return(nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, bidderB, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(errors.New("mongo down"))
	// everything unwinds, a retried sweep must not pay the seller twice
	t.funds.On("Pull", mockCtx, chainId, tokenB, seller, wantNet).Return(nil)
	t.funds.On("Pull", mockCtx, chainId, tokenB, feeRecipient, wantFee).Return(nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, bidderB, custody, big.NewInt(42)).Return(nil)

	_, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.Error(err)
	t.funds.AssertCalled(t.T(), "Pull", mockCtx, chainId, tokenB, seller, wantNet)
	t.funds.AssertCalled(t.T(), "Pull", mockCtx, chainId, tokenB, feeRecipient, wantFee)
	t.registry.AssertCalled(t.T(), "Transfer", mockCtx, chainId, contractAddr, bidderB, custody, big.NewInt(42))
}

func (t *testsuite) TestSettleNoBidPersistFailureReturnsAsset() {
	a := t.expiredAuction(nil)

	t.auctionRepo.On("FindOne", mockCtx, a.AuctionId).Return(a, nil)
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, custody, seller, big.NewInt(42)).Return(nil)
	t.auctionRepo.On("Update", mockCtx, a.AuctionId, mock.Anything).Return(errors.New("mongo down"))
	t.registry.On("Transfer", mockCtx, chainId, contractAddr, seller, custody, big.NewInt(42)).Return(nil)

	_, err := t.subject.Settle(mockCtx, a.AuctionId)
	t.Error(err)
	// the asset is back in custody for the retried sweep
	t.registry.AssertCalled(t.T(), "Transfer", mockCtx, chainId, contractAddr, seller, custody, big.NewInt(42))
}

// --- queries ---

func (t *testsuite) TestGetActivitiesOfMissingAuction() {
	t.auctionRepo.On("FindOne", mockCtx, domain.AuctionId(404)).Return(nil, domain.ErrAuctionNotFound)

	_, err := t.subject.GetActivities(mockCtx, 404)
	t.ErrorIs(err, domain.ErrAuctionNotFound)
}

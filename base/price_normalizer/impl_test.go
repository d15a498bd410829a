package pricenormalizer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
	mockDomain "github.com/x-xyz/auctionapi/domain/mocks"
)

var mockCtx = ctx.Background()

type testsuite struct {
	suite.Suite

	paytoken  *mockDomain.PayTokenRepo
	chainlink *mockDomain.ChainlinkUsecase
	subject   *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.paytoken = &mockDomain.PayTokenRepo{}
	t.chainlink = &mockDomain.ChainlinkUsecase{}
	t.subject = &impl{
		paytoken:      t.paytoken,
		chainlink:     t.chainlink,
		payTokenCache: make(map[string]*domain.PayToken),
	}
}

func (t *testsuite) TestNormalize() {
	var (
		chainId = domain.ChainId(1)
		token   = domain.Address("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	)

	t.paytoken.On("FindOne", mockCtx, chainId, token).Return(&domain.PayToken{
		ChainId:       chainId,
		Address:       token,
		Decimals:      8,
		TokenDecimals: 18,
	}, nil)

	// 2000 usd, 8 feed decimals
	t.chainlink.On("GetLatestAnswer", mockCtx, chainId, token).Return(big.NewInt(2000_00000000), nil)

	// 1.5 tokens at 2000 usd each
	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	val, err := t.subject.Normalize(mockCtx, chainId, token, raw)
	t.NoError(err)
	t.Equal(auction.ValueUnits(3000), val)
}

func (t *testsuite) TestNormalizeFloors() {
	var (
		chainId = domain.ChainId(1)
		token   = domain.Address("0xtoken")
	)

	t.paytoken.On("FindOne", mockCtx, chainId, token).Return(&domain.PayToken{
		ChainId:       chainId,
		Address:       token,
		Decimals:      8,
		TokenDecimals: 6,
	}, nil)

	// 0.99999999 usd per token
	t.chainlink.On("GetLatestAnswer", mockCtx, chainId, token).Return(big.NewInt(99999999), nil)

	// 1 raw unit of a 6-decimals token
	val, err := t.subject.Normalize(mockCtx, chainId, token, big.NewInt(1))
	t.NoError(err)
	// 1 * 99999999 * 1e18 / (1e8 * 1e6) floors to 999999990000
	t.Equal(big.NewInt(999999990000), val)
}

func (t *testsuite) TestNormalizePropagatesOracleError() {
	var (
		chainId = domain.ChainId(1)
		token   = domain.Address("0xtoken")
	)

	t.paytoken.On("FindOne", mockCtx, chainId, token).Return(&domain.PayToken{
		ChainId:       chainId,
		Address:       token,
		Decimals:      8,
		TokenDecimals: 18,
	}, nil)

	t.chainlink.On("GetLatestAnswer", mockCtx, chainId, token).Return(nil, domain.ErrInvalidOraclePrice)

	_, err := t.subject.Normalize(mockCtx, chainId, token, big.NewInt(1))
	t.ErrorIs(err, domain.ErrInvalidOraclePrice)
}

func (t *testsuite) TestDisplayPrice() {
	var (
		chainId = domain.ChainId(1)
		token   = domain.Address("0xtoken")
	)

	t.paytoken.On("FindOne", mockCtx, chainId, token).Return(&domain.PayToken{
		ChainId:       chainId,
		Address:       token,
		Decimals:      8,
		TokenDecimals: 18,
	}, nil)

	raw, _ := new(big.Int).SetString("1500000000000000000", 10)
	d, err := t.subject.DisplayPrice(mockCtx, chainId, token, raw)
	t.NoError(err)
	t.Equal("1.5", d.String())

	// pay token repo is only hit once, the cache serves the second call
	t.paytoken.AssertNumberOfCalls(t.T(), "FindOne", 1)
}

package usecase

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
	mockDomain "github.com/x-xyz/auctionapi/domain/mocks"
	mockChainlink "github.com/x-xyz/auctionapi/service/chainlink/mocks"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	mockChainlink *mockChainlink.Chainlink
	mockPaytoken  *mockDomain.PayTokenRepo
	subject       *impl
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mockChainlink = &mockChainlink.Chainlink{}
	t.mockPaytoken = &mockDomain.PayTokenRepo{}
	t.subject = &impl{
		chainlink: t.mockChainlink,
		paytoken:  t.mockPaytoken,
	}
}

func (t *testsuite) TestGetLatestAnswer() {
	var (
		chainId   = domain.ChainId(1)
		tokenAddr = domain.Address("0xtoken")
		feedAddr  = domain.Address("0xfeed")
	)

	t.mockPaytoken.
		On("FindOne", mockCtx, chainId, tokenAddr).
		Return(&domain.PayToken{
			ChainlinkProxyAddress: feedAddr,
			Decimals:              8,
		}, nil)

	t.mockChainlink.
		On("GetLatestAnswer", mockCtx, chainId, feedAddr).
		Return(big.NewInt(1234), nil)

	val, err := t.subject.GetLatestAnswer(mockCtx, chainId, tokenAddr)
	t.NoError(err)
	t.Equal(big.NewInt(1234), val)
}

func (t *testsuite) TestGetLatestAnswerNoFeed() {
	var (
		chainId   = domain.ChainId(1)
		tokenAddr = domain.Address("0xtoken")
	)

	t.mockPaytoken.
		On("FindOne", mockCtx, chainId, tokenAddr).
		Return(&domain.PayToken{}, nil)

	_, err := t.subject.GetLatestAnswer(mockCtx, chainId, tokenAddr)
	t.ErrorIs(err, domain.ErrNoPriceFeed)
}

func (t *testsuite) TestGetLatestAnswerNonPositive() {
	var (
		chainId   = domain.ChainId(1)
		tokenAddr = domain.Address("0xtoken")
		feedAddr  = domain.Address("0xfeed")
	)

	t.mockPaytoken.
		On("FindOne", mockCtx, chainId, tokenAddr).
		Return(&domain.PayToken{
			ChainlinkProxyAddress: feedAddr,
			Decimals:              8,
		}, nil)

	t.mockChainlink.
		On("GetLatestAnswer", mockCtx, chainId, feedAddr).
		Return(big.NewInt(0), nil)

	_, err := t.subject.GetLatestAnswer(mockCtx, chainId, tokenAddr)
	t.ErrorIs(err, domain.ErrInvalidOraclePrice)
}

package usecase

import (
	"math/big"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/service/chainlink"
)

type impl struct {
	chainlink chainlink.Chainlink
	paytoken  domain.PayTokenRepo
}

func New(
	chainlink chainlink.Chainlink,
	paytoken domain.PayTokenRepo,
) domain.ChainlinkUsecase {
	return &impl{chainlink: chainlink, paytoken: paytoken}
}

func (im *impl) GetLatestAnswer(c ctx.Ctx, chainId domain.ChainId, tokenAddr domain.Address) (*big.Int, error) {
	paytoken, err := im.paytoken.FindOne(c, chainId, tokenAddr)
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"chainId":      chainId,
			"tokenAddress": tokenAddr,
		}).Error("paytoken.FindOne failed")
		return nil, err
	}

	if len(paytoken.ChainlinkProxyAddress) == 0 {
		return nil, domain.ErrNoPriceFeed
	}

	rawVal, err := im.chainlink.GetLatestAnswer(c, chainId, paytoken.ChainlinkProxyAddress)
	if err != nil {
		c.WithFields(log.Fields{
			"err":          err,
			"chainId":      chainId,
			"tokenAddress": tokenAddr,
		}).Error("chainlink.GetLatestAnswer failed")
		return nil, err
	}

	// a zero or negative answer means the feed is broken, never price
	// against it
	if rawVal.Sign() <= 0 {
		c.WithFields(log.Fields{
			"chainId":      chainId,
			"tokenAddress": tokenAddr,
			"answer":       rawVal.String(),
		}).Error("feed returned non-positive answer")
		return nil, domain.ErrInvalidOraclePrice
	}

	return rawVal, nil
}

package pricenormalizer

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"

	bCtx "github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
)

type PriceNormalizerCfg struct {
	Paytoken  domain.PayTokenRepo
	Chainlink domain.ChainlinkUsecase
}

type impl struct {
	paytoken  domain.PayTokenRepo
	chainlink domain.ChainlinkUsecase

	// mutex protected members
	mutex         sync.Mutex
	payTokenCache map[string]*domain.PayToken
}

func NewPriceNormalizer(cfg *PriceNormalizerCfg) PriceNormalizer {
	return &impl{
		paytoken:      cfg.Paytoken,
		chainlink:     cfg.Chainlink,
		payTokenCache: make(map[string]*domain.PayToken),
	}
}

func (f *impl) getPayToken(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address) (*domain.PayToken, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	key := fmt.Sprintf("%d%s", chainId, token)
	p, ok := f.payTokenCache[key]
	if ok {
		return p, nil
	}
	p, err := f.paytoken.FindOne(ctx, chainId, token)
	if err != nil {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"token":   token,
			"err":     err,
		}).Error("paytoken.FindOne failed")
		return nil, err
	}
	f.payTokenCache[key] = p
	return p, nil
}

func (f *impl) Normalize(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, rawAmount *big.Int) (*big.Int, error) {
	p, err := f.getPayToken(ctx, chainId, token)
	if err != nil {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"token":   token,
			"err":     err,
		}).Error("getPayToken failed")
		return nil, err
	}

	answer, err := f.chainlink.GetLatestAnswer(ctx, chainId, token)
	if err != nil {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"token":   token,
			"err":     err,
		}).Error("chainlink.GetLatestAnswer failed")
		return nil, err
	}

	// value = raw * answer * 10^valueDecimals / (10^feedDecimals * 10^tokenDecimals)
	// integer math throughout, the single division floors
	num := new(big.Int).Mul(rawAmount, answer)
	num.Mul(num, pow10(auction.ValueDecimals))
	den := new(big.Int).Mul(pow10(p.Decimals), pow10(p.TokenDecimals))
	return num.Quo(num, den), nil
}

func (f *impl) DisplayPrice(ctx bCtx.Ctx, chainId domain.ChainId, token domain.Address, rawAmount *big.Int) (decimal.Decimal, error) {
	p, err := f.getPayToken(ctx, chainId, token)
	if err != nil {
		ctx.WithFields(log.Fields{
			"chainId": chainId,
			"token":   token,
			"err":     err,
		}).Error("getPayToken failed")
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(rawAmount, -p.TokenDecimals), nil
}

func pow10(n int32) *big.Int {
	return new(big.Int).Exp(domain.Big10, big.NewInt(int64(n)), nil)
}

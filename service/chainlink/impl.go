package chainlink

import (
	"math/big"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/x-xyz/auctionapi/base/abi"
	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/keys"
	"github.com/x-xyz/auctionapi/service/cache"
	"github.com/x-xyz/auctionapi/service/cache/provider/primitive"
	"github.com/x-xyz/auctionapi/service/chain"
)

// feedCacheTtl is short on purpose. A bid frozen against an hour-old
// answer would drift too far from the market.
const feedCacheTtl = 30 * time.Second

type impl struct {
	chainClient chain.Client
	cache       cache.Service
}

func New(chainClient chain.Client) Chainlink {
	return &impl{
		chainClient: chainClient,
		cache: cache.New(cache.ServiceConfig{
			Ttl:   feedCacheTtl,
			Pfx:   keys.PfxFeedCache,
			Cache: primitive.NewPrimitive(keys.PfxFeedCache, 32),
		}),
	}
}

func (im *impl) GetLatestAnswer(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (*big.Int, error) {
	var res big.Int

	key := keys.RedisKey(strconv.Itoa(int(chainId)), string(address), "latest")

	if err := im.cache.GetByFunc(c, key, &res, func() (interface{}, error) {
		if res, err := im.getLatestAnswer(c, chainId, address); err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"chainId": chainId,
				"address": address,
			}).Error("getLatestAnswer failed")
			return nil, err
		} else {
			return res, nil
		}
	}); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"address": address,
		}).Error("cache.GetByFunc failed")
		return nil, err
	}

	return &res, nil
}

func (im *impl) getLatestAnswer(c ctx.Ctx, chainId domain.ChainId, address domain.Address) (*big.Int, error) {
	feedAddr := common.HexToAddress(string(address))

	res, err := im.chainClient.Call(c, int32(chainId), feedAddr, nil, abi.ChainlinkFeedABI, "latestAnswer")
	if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"address": address,
		}).Error("chainClient.Call failed")
		return nil, err
	}

	return res[0].(*big.Int), nil
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/database/mongoclient"
	"github.com/x-xyz/auctionapi/base/database/redisclient"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/base/metrics"
	pricenormalizer "github.com/x-xyz/auctionapi/base/price_normalizer"
	bValidator "github.com/x-xyz/auctionapi/base/validator"
	"github.com/x-xyz/auctionapi/domain"
	mmiddleware "github.com/x-xyz/auctionapi/middleware"
	"github.com/x-xyz/auctionapi/service/chain"
	"github.com/x-xyz/auctionapi/service/chain/contract"
	chainlink_service "github.com/x-xyz/auctionapi/service/chainlink"
	"github.com/x-xyz/auctionapi/service/query"
	"github.com/x-xyz/auctionapi/service/redis"
	auction_delivery "github.com/x-xyz/auctionapi/stores/auction/delivery/http"
	auction_repository "github.com/x-xyz/auctionapi/stores/auction/repository"
	auction_usecase "github.com/x-xyz/auctionapi/stores/auction/usecase"
	chainlink_usecase "github.com/x-xyz/auctionapi/stores/chainlink/usecase"
	hc_delivery "github.com/x-xyz/auctionapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/auctionapi/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/auctionapi/stores/healthcheck/usecase"
	paytoken_repository "github.com/x-xyz/auctionapi/stores/paytoken/repository"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger)
	e.Use(middL.AddContext)
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient)

	// init redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), redisCachePool)

	mmiddleware.SetupCache(redisCachePool)

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:   rpcs,
		SignerKey: viper.GetString("chain.signerKey"),
	})
	if err != nil {
		context.WithField("err", err).Warn("chainService started with error")
	}
	erc721Service := contract.NewErc721(chainService)
	erc20Service := contract.NewErc20(chainService)
	chainlinkService := chainlink_service.New(chainService)

	custody := domain.Address(chainService.Signer().Hex()).ToLower()
	feeRecipient := domain.Address(viper.GetString("auction.feeRecipient")).ToLower()

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	paytokenRepo := paytoken_repository.NewPayTokenRepo(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	activityRepo := auction_repository.NewActivityRepo(q)

	chainlink := chainlink_usecase.New(chainlinkService, paytokenRepo)
	normalizer := pricenormalizer.NewPriceNormalizer(&pricenormalizer.PriceNormalizerCfg{
		Paytoken:  paytokenRepo,
		Chainlink: chainlink,
	})
	hc := hc_usecase.New(hcRepo, auctionRepo)
	auctionUC := auction_usecase.New(&auction_usecase.AuctionUseCaseCfg{
		AuctionRepo:  auctionRepo,
		ActivityRepo: activityRepo,
		PayTokenRepo: paytokenRepo,
		Normalizer:   normalizer,
		Funds:        erc20Service,
		Registry:     erc721Service,
		FeeRecipient: feeRecipient,
		Custody:      custody,
		MinDuration:  viper.GetDuration("auction.minDuration"),
	})

	settler := auction_usecase.NewSettler(&auction_usecase.SettlerCfg{
		AuctionUC:   auctionUC,
		AuctionRepo: auctionRepo,
		Interval:    viper.GetDuration("auction.sweepInterval"),
	})
	settler.Start(context)
	defer settler.Stop()

	hc_delivery.New(e, hc)
	auction_delivery.New(e, auctionUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	shutdownCtx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}

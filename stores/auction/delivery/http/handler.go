package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	bCtx "github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/delivery"
	"github.com/x-xyz/auctionapi/domain"
	dAuction "github.com/x-xyz/auctionapi/domain/auction"
	"github.com/x-xyz/auctionapi/middleware"
)

type handler struct {
	auction dAuction.UseCase
}

func New(e *echo.Echo, auction dAuction.UseCase) {
	h := &handler{auction}
	gs := e.Group("/auctions")
	gs.POST("", h.createAuction)
	gs.GET("", h.getAuctions, middleware.CacheHttp(10*time.Second))
	gs.GET("/:auctionId", h.getAuction)
	gs.POST("/:auctionId/bids", h.placeBid)
	gs.POST("/:auctionId/settle", h.settle)
	gs.GET("/:auctionId/activities", h.getActivities)
}

func parseAuctionId(_ctx echo.Context) (domain.AuctionId, error) {
	id, err := strconv.ParseInt(_ctx.Param("auctionId"), 10, 64)
	if err != nil {
		return 0, domain.ErrBadParamInput
	}
	return domain.AuctionId(id), nil
}

func (h *handler) createAuction(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)

	type payload struct {
		ChainId         domain.ChainId   `json:"chainId" validate:"required"`
		ContractAddress domain.Address   `json:"contractAddress" validate:"required,eth_addr"`
		TokenId         domain.TokenId   `json:"tokenId" validate:"required"`
		Seller          domain.Address   `json:"seller" validate:"required,eth_addr"`
		StartingPrice   string           `json:"startingPrice" validate:"required"`
		PayTokens       []domain.Address `json:"payTokens" validate:"required,min=1"`
		EndTime         time.Time        `json:"endTime" validate:"required"`
	}

	p := &payload{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}

	res, err := h.auction.CreateAuction(ctx, &dAuction.CreateAuctionPayload{
		ChainId:         p.ChainId,
		ContractAddress: p.ContractAddress,
		TokenId:         p.TokenId,
		Seller:          p.Seller,
		StartingPrice:   p.StartingPrice,
		PayTokens:       p.PayTokens,
		EndTime:         p.EndTime,
	})
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusCreated, res)
}

func (h *handler) getAuctions(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)

	type params struct {
		ChainId *domain.ChainId  `query:"chainId"`
		Seller  *domain.Address  `query:"seller"`
		Status  *dAuction.Status `query:"status"`
		Offset  int32            `query:"offset"`
		Limit   int32            `query:"limit" validate:"max=200"`
	}

	p := &params{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}
	if p.Limit == 0 {
		p.Limit = 50
	}

	opts := []dAuction.FindAllOptionsFunc{
		dAuction.WithPagination(p.Offset, p.Limit),
	}
	if p.ChainId != nil {
		opts = append(opts, dAuction.WithChainId(*p.ChainId))
	}
	if p.Seller != nil {
		opts = append(opts, dAuction.WithSeller(*p.Seller))
	}
	if p.Status != nil {
		opts = append(opts, dAuction.WithStatus(*p.Status))
	}

	res, err := h.auction.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) getAuction(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)

	id, err := parseAuctionId(_ctx)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	res, err := h.auction.GetAuction(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) placeBid(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)

	id, err := parseAuctionId(_ctx)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	type payload struct {
		Bidder    domain.Address `json:"bidder" validate:"required,eth_addr"`
		PayToken  domain.Address `json:"payToken" validate:"required,eth_addr"`
		RawAmount string         `json:"rawAmount" validate:"required"`
	}

	p := &payload{}
	if err := _ctx.Bind(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, "invalid params")
	}
	if err := _ctx.Validate(p); err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err.Error())
	}

	rawAmount, err := domain.ParseBigInt(p.RawAmount)
	if err != nil || rawAmount.Sign() <= 0 {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	res, err := h.auction.PlaceBid(ctx, id, p.Bidder, p.PayToken, rawAmount)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) settle(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)

	id, err := parseAuctionId(_ctx)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	res, err := h.auction.Settle(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

func (h *handler) getActivities(_ctx echo.Context) error {
	ctx := _ctx.Get("ctx").(bCtx.Ctx)

	id, err := parseAuctionId(_ctx)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusBadRequest, err)
	}

	res, err := h.auction.GetActivities(ctx, id)
	if err != nil {
		return delivery.MakeJsonResp(_ctx, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(_ctx, http.StatusOK, res)
}

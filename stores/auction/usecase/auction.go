package usecase

import (
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/base/metrics"
	pricenormalizer "github.com/x-xyz/auctionapi/base/price_normalizer"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
)

// lockRegistry hands out one mutex per auction id. Holding the lock for the
// whole operation serializes bids and settlement on an auction and doubles as
// the reentrancy guard: an external transfer cannot re-enter the same auction
// while its operation is in flight.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[domain.AuctionId]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[domain.AuctionId]*sync.Mutex)}
}

func (r *lockRegistry) acquire(id domain.AuctionId) func() {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.mu.Unlock()
	l.Lock()
	return l.Unlock
}

type AuctionUseCaseCfg struct {
	AuctionRepo  auction.Repo
	ActivityRepo auction.ActivityRepo
	PayTokenRepo domain.PayTokenRepo
	Normalizer   pricenormalizer.PriceNormalizer
	Funds        domain.FundTransfer
	Registry     domain.TokenRegistry
	FeeSchedule  *auction.FeeSchedule

	// FeeRecipient receives the platform cut, Custody is the engine account
	// escrowing assets and pulled funds.
	FeeRecipient domain.Address
	Custody      domain.Address

	MinDuration time.Duration

	Metrics metrics.Service
}

type impl struct {
	auctionRepo  auction.Repo
	activityRepo auction.ActivityRepo
	payTokenRepo domain.PayTokenRepo
	normalizer   pricenormalizer.PriceNormalizer
	funds        domain.FundTransfer
	registry     domain.TokenRegistry
	feeSchedule  *auction.FeeSchedule
	feeRecipient domain.Address
	custody      domain.Address
	minDuration  time.Duration
	met          metrics.Service
	locks        *lockRegistry
}

func New(cfg *AuctionUseCaseCfg) auction.UseCase {
	feeSchedule := cfg.FeeSchedule
	if feeSchedule == nil {
		feeSchedule = auction.DefaultFeeSchedule()
	}
	met := cfg.Metrics
	if met == nil {
		met = metrics.New("auction")
	}
	return &impl{
		auctionRepo:  cfg.AuctionRepo,
		activityRepo: cfg.ActivityRepo,
		payTokenRepo: cfg.PayTokenRepo,
		normalizer:   cfg.Normalizer,
		funds:        cfg.Funds,
		registry:     cfg.Registry,
		feeSchedule:  feeSchedule,
		feeRecipient: cfg.FeeRecipient,
		custody:      cfg.Custody,
		minDuration:  cfg.MinDuration,
		met:          met,
		locks:        newLockRegistry(),
	}
}

func (im *impl) CreateAuction(c ctx.Ctx, payload *auction.CreateAuctionPayload) (*auction.Auction, error) {
	now := time.Now()

	if payload.EndTime.Sub(now) < im.minDuration {
		return nil, domain.ErrInvalidDuration
	}

	startingPrice, err := domain.ParseBigInt(payload.StartingPrice)
	if err != nil || startingPrice.Sign() <= 0 {
		return nil, domain.ErrInvalidStartingPrice
	}

	if len(payload.PayTokens) == 0 {
		return nil, domain.ErrWrongCurrency
	}
	for _, token := range payload.PayTokens {
		if _, err := im.payTokenRepo.FindOne(c, payload.ChainId, token); err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"chainId": payload.ChainId,
				"token":   token,
			}).Error("payTokenRepo.FindOne failed")
			return nil, domain.ErrWrongCurrency
		}
	}

	tokenId, err := domain.ParseBigInt(payload.TokenId.String())
	if err != nil {
		return nil, domain.ErrBadParamInput
	}

	owner, err := im.registry.OwnerOf(c, payload.ChainId, payload.ContractAddress, tokenId)
	if err != nil {
		c.WithFields(log.Fields{
			"err":             err,
			"chainId":         payload.ChainId,
			"contractAddress": payload.ContractAddress,
			"tokenId":         payload.TokenId,
		}).Error("registry.OwnerOf failed")
		return nil, domain.ErrTransferFailed
	}
	if !owner.Equals(payload.Seller) {
		return nil, domain.ErrBadParamInput
	}

	// the seller locks the asset into engine custody at creation time
	if err := im.registry.Transfer(c, payload.ChainId, payload.ContractAddress, payload.Seller, im.custody, tokenId); err != nil {
		c.WithFields(log.Fields{
			"err":             err,
			"chainId":         payload.ChainId,
			"contractAddress": payload.ContractAddress,
			"tokenId":         payload.TokenId,
		}).Error("registry.Transfer failed")
		return nil, domain.ErrTransferFailed
	}

	id, err := im.auctionRepo.NextId(c)
	if err != nil {
		c.WithField("err", err).Error("auctionRepo.NextId failed")
		return nil, err
	}

	a := &auction.Auction{
		AuctionId: id,
		NftItemId: domain.NftItemId{
			ChainId:         payload.ChainId,
			ContractAddress: payload.ContractAddress,
			TokenId:         payload.TokenId,
		},
		Seller:        payload.Seller,
		StartingPrice: payload.StartingPrice,
		PayTokens:     payload.PayTokens,
		StartTime:     now,
		EndTime:       payload.EndTime,
		Status:        auction.StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := im.auctionRepo.Insert(c, a); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("auctionRepo.Insert failed")
		return nil, err
	}

	im.emitActivity(c, a, auction.ActivityTypeCreateAuction, payload.Seller, "", "", "", "", "")
	im.met.BumpSum("auction.created", 1, "chainId", payload.ChainId.String())

	return a, nil
}

func (im *impl) PlaceBid(c ctx.Ctx, id domain.AuctionId, bidder, payToken domain.Address, rawAmount *big.Int) (*auction.Auction, error) {
	release := im.locks.acquire(id)
	defer release()

	a, err := im.auctionRepo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if a.Status != auction.StatusOpen {
		return nil, domain.ErrAuctionAlreadySettled
	}
	if a.HasExpired(now) {
		return nil, domain.ErrAuctionExpired
	}

	payToken = payToken.ToLower()
	bidder = bidder.ToLower()
	if !a.AcceptsPayToken(payToken) {
		return nil, domain.ErrWrongCurrency
	}

	// one feed read per bid, the accepted value is frozen on the record
	normalized, err := im.normalizer.Normalize(c, a.ChainId, payToken, rawAmount)
	if err != nil {
		return nil, err
	}

	if err := im.checkBidValue(a, normalized); err != nil {
		return nil, err
	}

	displayPrice, err := im.normalizer.DisplayPrice(c, a.ChainId, payToken, rawAmount)
	if err != nil {
		return nil, err
	}

	// pull first: a pull is compensable with a push-back, the refund is not
	if err := im.funds.Pull(c, a.ChainId, payToken, bidder, rawAmount); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
			"bidder":    bidder,
		}).Error("funds.Pull failed")
		return nil, domain.ErrTransferFailed
	}

	displaced := a.WinningBid
	if displaced != nil {
		prevRaw, err := displaced.RawAmountBig()
		if err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
			}).Error("displaced bid has malformed rawAmount")
			im.compensatePush(c, a.ChainId, payToken, bidder, rawAmount)
			return nil, err
		}
		if err := im.funds.Push(c, a.ChainId, displaced.PayToken, displaced.Bidder, prevRaw); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": id,
				"displaced": displaced.Bidder,
			}).Error("refund of displaced leader failed")
			im.compensatePush(c, a.ChainId, payToken, bidder, rawAmount)
			return nil, domain.ErrRefundFailed
		}
	}

	bid := &auction.Bid{
		Bidder:          bidder,
		PayToken:        payToken,
		RawAmount:       rawAmount.String(),
		NormalizedValue: normalized.String(),
		DisplayPrice:    displayPrice.String(),
		BidTime:         now,
	}
	if err := im.auctionRepo.Update(c, id, auction.Patchable{WinningBid: bid}); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("auctionRepo.Update failed, reversing bid transfers")
		// the displaced leader stays recorded, so the refund that already
		// went out has to come back or the next accepted bid pays it twice
		im.compensatePush(c, a.ChainId, payToken, bidder, rawAmount)
		if displaced != nil {
			prevRaw, perr := displaced.RawAmountBig()
			if perr == nil {
				im.compensatePull(c, a.ChainId, displaced.PayToken, displaced.Bidder, prevRaw)
			}
		}
		return nil, err
	}
	a.WinningBid = bid

	im.met.BumpSum("bid.accepted", 1, "chainId", a.ChainId.String())
	im.emitActivity(c, a, auction.ActivityTypePlaceBid, bidder, payToken, bid.RawAmount, bid.NormalizedValue, "", bid.DisplayPrice)
	if displaced != nil {
		im.emitActivity(c, a, auction.ActivityTypeBidRefunded, displaced.Bidder, displaced.PayToken, displaced.RawAmount, displaced.NormalizedValue, "", displaced.DisplayPrice)
	}

	return a, nil
}

// checkBidValue enforces strict monotonicity of the leader's frozen value.
// The starting price is the floor only while there is no leader.
func (im *impl) checkBidValue(a *auction.Auction, normalized *big.Int) error {
	if a.WinningBid == nil {
		startingPrice, err := a.StartingPriceBig()
		if err != nil {
			return err
		}
		if normalized.Cmp(startingPrice) < 0 {
			return domain.ErrBidTooLow
		}
		return nil
	}

	leaderValue, err := a.WinningBid.NormalizedValueBig()
	if err != nil {
		return err
	}
	if normalized.Cmp(leaderValue) <= 0 {
		return domain.ErrBidTooLow
	}
	return nil
}

func (im *impl) Settle(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	release := im.locks.acquire(id)
	defer release()

	a, err := im.auctionRepo.FindOne(c, id)
	if err != nil {
		return nil, err
	}

	if a.Status == auction.StatusEnded {
		return nil, domain.ErrAuctionAlreadySettled
	}
	if !a.HasExpired(time.Now()) {
		return nil, domain.ErrNotYetExpired
	}

	tokenId, err := domain.ParseBigInt(a.TokenId.String())
	if err != nil {
		return nil, err
	}

	if a.WinningBid == nil {
		return im.settleNoBid(c, a, tokenId)
	}
	return im.settleWithWinner(c, a, tokenId)
}

func (im *impl) settleNoBid(c ctx.Ctx, a *auction.Auction, tokenId *big.Int) (*auction.Auction, error) {
	// no fee, the asset just goes home
	if err := im.registry.Transfer(c, a.ChainId, a.ContractAddress, im.custody, a.Seller, tokenId); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
		}).Error("asset return to seller failed")
		return nil, domain.ErrDisbursementFailed
	}

	if err := im.markEnded(c, a, nil); err != nil {
		// retry needs the asset back in custody, the returning transfer
		// above already moved it to the seller
		im.compensateAssetReturn(c, a, a.Seller, tokenId)
		return nil, err
	}

	im.met.BumpSum("auction.settled", 1, "outcome", "noBid")
	im.emitActivity(c, a, auction.ActivityTypeNoBidAuction, a.Seller, "", "", "", "", "")
	return a, nil
}

func (im *impl) settleWithWinner(c ctx.Ctx, a *auction.Auction, tokenId *big.Int) (*auction.Auction, error) {
	bid := a.WinningBid

	raw, err := bid.RawAmountBig()
	if err != nil {
		return nil, err
	}
	value, err := bid.NormalizedValueBig()
	if err != nil {
		return nil, err
	}

	// the rate is read off the frozen winning value, feed moves since the
	// bid do not change the tier
	rateBps := im.feeSchedule.RateFor(value)
	feeAmount, netAmount := auction.Split(raw, rateBps)

	// transfer order puts the compensable pushes before the asset move, and
	// the status flip is persisted only after every transfer succeeded, so a
	// failed attempt leaves the auction open for retry
	if netAmount.Sign() > 0 {
		if err := im.funds.Push(c, a.ChainId, bid.PayToken, a.Seller, netAmount); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": a.AuctionId,
			}).Error("net disbursement to seller failed")
			return nil, domain.ErrDisbursementFailed
		}
	}

	if feeAmount.Sign() > 0 {
		if err := im.funds.Push(c, a.ChainId, bid.PayToken, im.feeRecipient, feeAmount); err != nil {
			c.WithFields(log.Fields{
				"err":       err,
				"auctionId": a.AuctionId,
			}).Error("fee disbursement failed")
			im.compensatePull(c, a.ChainId, bid.PayToken, a.Seller, netAmount)
			return nil, domain.ErrDisbursementFailed
		}
	}

	if err := im.registry.Transfer(c, a.ChainId, a.ContractAddress, im.custody, bid.Bidder, tokenId); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
			"winner":    bid.Bidder,
		}).Error("asset transfer to winner failed")
		im.compensatePull(c, a.ChainId, bid.PayToken, a.Seller, netAmount)
		im.compensatePull(c, a.ChainId, bid.PayToken, im.feeRecipient, feeAmount)
		return nil, domain.ErrDisbursementFailed
	}

	settlement := &auction.Settlement{
		Winner:     bid.Bidder,
		PayToken:   bid.PayToken,
		RawAmount:  bid.RawAmount,
		FeeAmount:  feeAmount.String(),
		NetAmount:  netAmount.String(),
		FeeRateBps: rateBps,
		SettledAt:  time.Now(),
	}
	if err := im.markEnded(c, a, settlement); err != nil {
		// the auction is still open in the store, so the sweeper will re-run
		// every transfer; claw the disbursements back or the retry pays twice
		im.compensatePull(c, a.ChainId, bid.PayToken, a.Seller, netAmount)
		im.compensatePull(c, a.ChainId, bid.PayToken, im.feeRecipient, feeAmount)
		im.compensateAssetReturn(c, a, bid.Bidder, tokenId)
		return nil, err
	}

	im.met.BumpSum("auction.settled", 1, "outcome", "sold")
	im.emitActivity(c, a, auction.ActivityTypeResultAuction, bid.Bidder, bid.PayToken, bid.RawAmount, bid.NormalizedValue, settlement.FeeAmount, bid.DisplayPrice)
	return a, nil
}

func (im *impl) markEnded(c ctx.Ctx, a *auction.Auction, settlement *auction.Settlement) error {
	status := auction.StatusEnded
	patch := auction.Patchable{Status: &status, Settlement: settlement}
	if err := im.auctionRepo.Update(c, a.AuctionId, patch); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
		}).Error("auctionRepo.Update failed")
		return err
	}
	a.Status = auction.StatusEnded
	a.Settlement = settlement
	return nil
}

// compensatePush returns pulled funds to the bidder on a failed bid. Best
// effort, a failure here leaves the funds in custody for manual resolution.
func (im *impl) compensatePush(c ctx.Ctx, chainId domain.ChainId, token, to domain.Address, amount *big.Int) {
	if err := im.funds.Push(c, chainId, token, to, amount); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"token":   token,
			"to":      to,
			"amount":  amount.String(),
		}).Error("compensating push failed, funds remain in custody")
	}
}

// compensateAssetReturn moves the auctioned asset back into custody after a
// settlement failed past its asset transfer, so a retry starts from the same
// state. Best effort, the holder may have moved it already.
func (im *impl) compensateAssetReturn(c ctx.Ctx, a *auction.Auction, from domain.Address, tokenId *big.Int) {
	if err := im.registry.Transfer(c, a.ChainId, a.ContractAddress, from, im.custody, tokenId); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
			"from":      from,
		}).Error("compensating asset return failed, asset not in custody")
	}
}

// compensatePull claws a completed disbursement back into custody after a
// later transfer in the same settlement failed. It needs the recipient's
// allowance, so it is best effort.
func (im *impl) compensatePull(c ctx.Ctx, chainId domain.ChainId, token, from domain.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	if err := im.funds.Pull(c, chainId, token, from, amount); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"token":   token,
			"from":    from,
			"amount":  amount.String(),
		}).Error("compensating pull failed, disbursement not reverted")
	}
}

func (im *impl) GetAuction(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	return im.auctionRepo.FindOne(c, id)
}

func (im *impl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	return im.auctionRepo.FindAll(c, opts...)
}

func (im *impl) GetActivities(c ctx.Ctx, id domain.AuctionId) ([]*auction.Activity, error) {
	if _, err := im.auctionRepo.FindOne(c, id); err != nil {
		return nil, err
	}
	return im.activityRepo.FindByAuctionId(c, id)
}

func (im *impl) emitActivity(c ctx.Ctx, a *auction.Auction, typ auction.ActivityType, account, payToken domain.Address, rawAmount, normalizedValue, feeAmount, displayPrice string) {
	activity := &auction.Activity{
		ActivityId:      uuid.New().String(),
		AuctionId:       a.AuctionId,
		NftItemId:       a.NftItemId,
		Type:            typ,
		Account:         account,
		PayToken:        payToken,
		RawAmount:       rawAmount,
		NormalizedValue: normalizedValue,
		FeeAmount:       feeAmount,
		DisplayPrice:    displayPrice,
		CreatedAt:       time.Now(),
	}
	if err := im.activityRepo.Insert(c, activity); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
			"type":      typ,
		}).Error("activityRepo.Insert failed")
	}
}

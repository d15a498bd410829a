package auction

import (
	"math/big"
	"time"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
)

type Status string

const (
	StatusOpen  Status = "open"
	StatusEnded Status = "ended"
)

// Bid is an accepted bid. NormalizedValue is frozen at acceptance time and
// never recomputed, so later feed moves cannot reorder past bids.
type Bid struct {
	Bidder          domain.Address `json:"bidder" bson:"bidder"`
	PayToken        domain.Address `json:"payToken" bson:"payToken"`
	RawAmount       string         `json:"rawAmount" bson:"rawAmount"`
	NormalizedValue string         `json:"normalizedValue" bson:"normalizedValue"`
	DisplayPrice    string         `json:"displayPrice" bson:"displayPrice"` // payment token, exact
	BidTime         time.Time      `json:"bidTime" bson:"bidTime"`
}

func (b *Bid) RawAmountBig() (*big.Int, error) {
	return domain.ParseBigInt(b.RawAmount)
}

func (b *Bid) NormalizedValueBig() (*big.Int, error) {
	return domain.ParseBigInt(b.NormalizedValue)
}

// Settlement records the terminal disbursement of an auction with a winner.
type Settlement struct {
	Winner     domain.Address `json:"winner" bson:"winner"`
	PayToken   domain.Address `json:"payToken" bson:"payToken"`
	RawAmount  string         `json:"rawAmount" bson:"rawAmount"`
	FeeAmount  string         `json:"feeAmount" bson:"feeAmount"`
	NetAmount  string         `json:"netAmount" bson:"netAmount"`
	FeeRateBps int64          `json:"feeRateBps" bson:"feeRateBps"`
	SettledAt  time.Time      `json:"settledAt" bson:"settledAt"`
}

type Auction struct {
	AuctionId        domain.AuctionId `json:"auctionId" bson:"auctionId"`
	domain.NftItemId `bson:"inline"`
	Seller           domain.Address   `json:"seller" bson:"seller"`
	StartingPrice    string           `json:"startingPrice" bson:"startingPrice"` // value units
	PayTokens        []domain.Address `json:"payTokens" bson:"payTokens"`
	StartTime        time.Time        `json:"startTime" bson:"startTime"`
	EndTime          time.Time        `json:"endTime" bson:"endTime"`
	Status           Status           `json:"status" bson:"status"`
	WinningBid       *Bid             `json:"winningBid" bson:"winningBid"`
	Settlement       *Settlement      `json:"settlement" bson:"settlement"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updatedAt"`
}

func (a *Auction) LowerCase() {
	a.ContractAddress = a.ContractAddress.ToLower()
	a.Seller = a.Seller.ToLower()
	for i := range a.PayTokens {
		a.PayTokens[i] = a.PayTokens[i].ToLower()
	}
}

// AcceptsPayToken reports whether token is one of the currencies configured
// for this instance.
func (a *Auction) AcceptsPayToken(token domain.Address) bool {
	for _, t := range a.PayTokens {
		if t.Equals(token) {
			return true
		}
	}
	return false
}

// HasExpired is independent of Status: time expiry blocks new bids even
// before anyone has called settle.
func (a *Auction) HasExpired(now time.Time) bool {
	return !now.Before(a.EndTime)
}

func (a *Auction) StartingPriceBig() (*big.Int, error) {
	return domain.ParseBigInt(a.StartingPrice)
}

type Patchable struct {
	Status     *Status     `bson:"status,omitempty"`
	WinningBid *Bid        `bson:"winningBid,omitempty"`
	Settlement *Settlement `bson:"settlement,omitempty"`
	UpdatedAt  *time.Time  `bson:"updatedAt,omitempty"`
}

type FindAllOptions struct {
	ChainId   *domain.ChainId
	Seller    *domain.Address
	Status    *Status
	EndTimeLT *time.Time
	Offset    *int32
	Limit     *int32
	SortBy    *string
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Seller = seller.ToLowerPtr()
		return nil
	}
}

func WithStatus(status Status) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Status = &status
		return nil
	}
}

func WithEndTimeLT(t time.Time) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.EndTimeLT = &t
		return nil
	}
}

func WithPagination(offset, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithSort(sortBy string) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.SortBy = &sortBy
		return nil
	}
}

type Repo interface {
	NextId(ctx.Ctx) (domain.AuctionId, error)
	Insert(ctx.Ctx, *Auction) error
	FindOne(ctx.Ctx, domain.AuctionId) (*Auction, error)
	FindAll(ctx.Ctx, ...FindAllOptionsFunc) ([]*Auction, error)
	Count(ctx.Ctx, ...FindAllOptionsFunc) (int, error)
	Update(ctx.Ctx, domain.AuctionId, Patchable) error
}

type CreateAuctionPayload struct {
	ChainId         domain.ChainId
	ContractAddress domain.Address
	TokenId         domain.TokenId
	Seller          domain.Address
	StartingPrice   string // value units
	PayTokens       []domain.Address
	EndTime         time.Time
}

type UseCase interface {
	CreateAuction(ctx.Ctx, *CreateAuctionPayload) (*Auction, error)
	PlaceBid(c ctx.Ctx, id domain.AuctionId, bidder, payToken domain.Address, rawAmount *big.Int) (*Auction, error)
	Settle(c ctx.Ctx, id domain.AuctionId) (*Auction, error)
	GetAuction(c ctx.Ctx, id domain.AuctionId) (*Auction, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Auction, error)
	GetActivities(c ctx.Ctx, id domain.AuctionId) ([]*Activity, error)
}

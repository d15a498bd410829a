package auction

import (
	"time"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/domain"
)

type ActivityType string

const (
	ActivityTypeCreateAuction ActivityType = "createAuction"
	ActivityTypePlaceBid      ActivityType = "placeBid"
	ActivityTypeBidRefunded   ActivityType = "bidRefunded"
	ActivityTypeResultAuction ActivityType = "resultAuction"
	ActivityTypeNoBidAuction  ActivityType = "noBidAuction"
)

// Activity is the persisted form of an emitted auction event, kept queryable
// indefinitely for off-chain observers.
type Activity struct {
	ActivityId       string           `json:"activityId" bson:"activityId"`
	AuctionId        domain.AuctionId `json:"auctionId" bson:"auctionId"`
	domain.NftItemId `bson:"inline"`
	Type             ActivityType   `json:"type" bson:"type"`
	Account          domain.Address `json:"account" bson:"account"`
	PayToken         domain.Address `json:"payToken" bson:"payToken"`
	RawAmount        string         `json:"rawAmount" bson:"rawAmount"`
	NormalizedValue  string         `json:"normalizedValue" bson:"normalizedValue"`
	FeeAmount        string         `json:"feeAmount" bson:"feeAmount"`
	DisplayPrice     string         `json:"displayPrice" bson:"displayPrice"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
}

type ActivityRepo interface {
	Insert(ctx.Ctx, *Activity) error
	FindByAuctionId(ctx.Ctx, domain.AuctionId) ([]*Activity, error)
}

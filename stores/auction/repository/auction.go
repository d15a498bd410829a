package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/database/mongoclient"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
	"github.com/x-xyz/auctionapi/service/query"
)

// counterName is the counters document holding the auction id sequence
const counterName = "auctionId"

type counter struct {
	Name string `bson:"name"`
	Seq  int64  `bson:"seq"`
}

type auctionRepoImpl struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) auction.Repo {
	return &auctionRepoImpl{q}
}

func (im *auctionRepoImpl) makeQuery(opts ...auction.FindAllOptionsFunc) (bson.M, error) {
	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}
	query := bson.M{}

	if options.ChainId != nil {
		query["chainId"] = *options.ChainId
	}

	if options.Seller != nil {
		query["seller"] = *options.Seller
	}

	if options.Status != nil {
		query["status"] = *options.Status
	}

	if options.EndTimeLT != nil {
		query["endTime"] = bson.M{"$lt": *options.EndTimeLT}
	}

	return query, nil
}

// NextId allocates the next auction id from the counters collection, so ids
// are strictly increasing across the deployment.
func (im *auctionRepoImpl) NextId(c ctx.Ctx) (domain.AuctionId, error) {
	res := counter{}
	if err := im.q.Increment(c, domain.TableCounters, bson.M{"name": counterName}, &res, "seq", int64(1)); err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("q.Increment failed")
		return 0, err
	}
	return domain.AuctionId(res.Seq), nil
}

func (im *auctionRepoImpl) Insert(c ctx.Ctx, a *auction.Auction) error {
	a.LowerCase()
	if err := im.q.Insert(c, domain.TableAuctions, a); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": a.AuctionId,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *auctionRepoImpl) FindOne(c ctx.Ctx, id domain.AuctionId) (*auction.Auction, error) {
	res := &auction.Auction{}
	if err := im.q.FindOne(c, domain.TableAuctions, bson.M{"auctionId": id}, res); err == query.ErrNotFound {
		return nil, domain.ErrAuctionNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return res, nil
}

func (im *auctionRepoImpl) FindAll(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) ([]*auction.Auction, error) {
	query, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return nil, err
	}

	options, err := auction.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	offset, limit := 0, 0
	if options.Offset != nil {
		offset = int(*options.Offset)
	}
	if options.Limit != nil {
		limit = int(*options.Limit)
	}
	sort := "auctionId"
	if options.SortBy != nil {
		sort = *options.SortBy
	}

	res := []*auction.Auction{}
	if err := im.q.Search(c, domain.TableAuctions, offset, limit, sort, query, &res); err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": query,
		}).Error("q.Search failed")
		return nil, err
	}

	return res, nil
}

func (im *auctionRepoImpl) Count(c ctx.Ctx, opts ...auction.FindAllOptionsFunc) (int, error) {
	query, err := im.makeQuery(opts...)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
		}).Error("im.makeQuery")
		return 0, err
	}

	cnt, err := im.q.Count(c, domain.TableAuctions, query)
	if err != nil {
		c.WithFields(log.Fields{
			"err":   err,
			"query": query,
		}).Error("q.Count failed")
		return 0, err
	}

	return cnt, nil
}

func (im *auctionRepoImpl) Update(c ctx.Ctx, id domain.AuctionId, patchable auction.Patchable) error {
	if patchable.UpdatedAt == nil {
		now := time.Now()
		patchable.UpdatedAt = &now
	}

	updater, err := mongoclient.MakeBsonM(patchable)
	if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := im.q.Patch(c, domain.TableAuctions, bson.M{"auctionId": id}, updater); err == query.ErrNotFound {
		return domain.ErrAuctionNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("q.Patch failed")
		return err
	}

	return nil
}

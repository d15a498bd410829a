package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/domain/auction"
	"github.com/x-xyz/auctionapi/service/query"
)

type activityRepoImpl struct {
	q query.Mongo
}

func NewActivityRepo(q query.Mongo) auction.ActivityRepo {
	return &activityRepoImpl{q}
}

func (im *activityRepoImpl) Insert(c ctx.Ctx, a *auction.Activity) error {
	if err := im.q.Insert(c, domain.TableAuctionActivities, a); err != nil {
		c.WithFields(log.Fields{
			"err":        err,
			"auctionId":  a.AuctionId,
			"activityId": a.ActivityId,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (im *activityRepoImpl) FindByAuctionId(c ctx.Ctx, id domain.AuctionId) ([]*auction.Activity, error) {
	res := []*auction.Activity{}
	if err := im.q.Search(c, domain.TableAuctionActivities, 0, 0, "createdAt", bson.M{"auctionId": id}, &res); err != nil {
		c.WithFields(log.Fields{
			"err":       err,
			"auctionId": id,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

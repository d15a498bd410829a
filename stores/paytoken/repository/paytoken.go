package repository

import (
	"go.mongodb.org/mongo-driver/bson"

	bCtx "github.com/x-xyz/auctionapi/base/ctx"
	"github.com/x-xyz/auctionapi/base/database/mongoclient"
	"github.com/x-xyz/auctionapi/base/log"
	"github.com/x-xyz/auctionapi/domain"
	"github.com/x-xyz/auctionapi/service/query"
)

type payTokenMongoRepo struct {
	q query.Mongo
}

func NewPayTokenRepo(q query.Mongo) domain.PayTokenRepo {
	return &payTokenMongoRepo{
		q: q,
	}
}

func (r *payTokenMongoRepo) FindOne(ctx bCtx.Ctx, chainId domain.ChainId, tokenAddress domain.Address) (*domain.PayToken, error) {
	payToken := &domain.PayToken{}
	qry := bson.M{"chainId": chainId, "address": tokenAddress.ToLower()}
	if err := r.q.FindOne(ctx, domain.TablePayTokens, qry, payToken); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return payToken, nil
}

func (r *payTokenMongoRepo) FindAll(ctx bCtx.Ctx, chainId domain.ChainId) ([]*domain.PayToken, error) {
	res := []*domain.PayToken{}
	if err := r.q.Search(ctx, domain.TablePayTokens, 0, 0, "symbol", bson.M{"chainId": chainId}, &res); err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
		}).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

func (r *payTokenMongoRepo) Create(ctx bCtx.Ctx, payToken *domain.PayToken) error {
	payToken.Address = payToken.Address.ToLower()
	if err := r.q.Insert(ctx, domain.TablePayTokens, payToken); err != nil {
		ctx.WithField("err", err).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *payTokenMongoRepo) Upsert(ctx bCtx.Ctx, payToken *domain.PayToken) error {
	payToken.Address = payToken.Address.ToLower()
	selector, err := mongoclient.MakeBsonM(payToken.ToId())
	if err != nil {
		ctx.WithField("err", err).Error("failed to make bson.M")
		return err
	}
	if err := r.q.Upsert(ctx, domain.TablePayTokens, selector, payToken); err != nil {
		ctx.WithFields(log.Fields{
			"err": err,
			"id":  payToken.ToId(),
		}).Error("failed to update")
		return err
	}
	return nil
}

package service

import (
	"context"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/internal/repository"
)

type likeInput struct {
	Slug  string `validate:"required,max=200,slug"`
	Actor string `validate:"required,max=128"`
}

// LikeService 文章点赞；actorHash 由调用方对访客地址做匿名化后传入
type LikeService interface {
	Like(ctx context.Context, slug, actorHash string) (*model.LikeResult, error)
	Count(ctx context.Context, slug, actorHash string) (*model.LikeResult, error)
}

type likeService struct {
	counter repository.LikeCounter
}

func NewLikeService(counter repository.LikeCounter) LikeService {
	return &likeService{counter: counter}
}

func (s *likeService) Like(ctx context.Context, slug, actorHash string) (*model.LikeResult, error) {
	if err := validatorInstance().Struct(likeInput{Slug: slug, Actor: actorHash}); err != nil {
		return nil, validationErr(err)
	}
	return s.counter.Increment(ctx, slug, actorHash)
}

func (s *likeService) Count(ctx context.Context, slug, actorHash string) (*model.LikeResult, error) {
	if err := validatorInstance().Struct(likeInput{Slug: slug, Actor: actorHash}); err != nil {
		return nil, validationErr(err)
	}
	return s.counter.Get(ctx, slug, actorHash)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/site-store/internal/model"
	"github.com/d60-Lab/site-store/internal/repository"
	"github.com/d60-Lab/site-store/pkg/logger"
)

// SubscribeInput 订阅表单
type SubscribeInput struct {
	Email  string `validate:"required,email,max=254"`
	Name   string `validate:"max=100"`
	IPHash string
}

// SubscriberService 订阅者服务。存储层不做邮箱唯一性校验，重复订阅会产生新记录
type SubscriberService interface {
	Subscribe(ctx context.Context, in SubscribeInput) (*model.Subscriber, error)
	Unsubscribe(ctx context.Context, id string) (*model.Subscriber, error)
	Resubscribe(ctx context.Context, id string) (*model.Subscriber, error)
	Get(ctx context.Context, id string) (*model.Subscriber, error)
	List(ctx context.Context, f model.ListFilter) (*model.ListResult[*model.Subscriber], error)
	UpdateStatus(ctx context.Context, id string, status model.SubscriberStatus) (*model.Subscriber, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*model.Stats, error)
	DetailedStats(ctx context.Context) (*model.DetailedStats, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
}

type subscriberService struct {
	repo repository.SubscriberRepository
}

func NewSubscriberService(repo repository.SubscriberRepository) SubscriberService {
	return &subscriberService{repo: repo}
}

func (s *subscriberService) Subscribe(ctx context.Context, in SubscribeInput) (*model.Subscriber, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validatorInstance().Struct(in); err != nil {
		return nil, validationErr(err)
	}
	if in.Name == "" {
		in.Name = model.DefaultName
	}
	sub, err := s.repo.Create(ctx, &model.Subscriber{Email: in.Email, Name: in.Name, IPHash: in.IPHash})
	if err != nil {
		return nil, err
	}
	logger.Info("subscriber added", zap.String("id", sub.ID))
	return sub, nil
}

func (s *subscriberService) Unsubscribe(ctx context.Context, id string) (*model.Subscriber, error) {
	return s.UpdateStatus(ctx, id, model.SubscriberUnsubscribed)
}

func (s *subscriberService) Resubscribe(ctx context.Context, id string) (*model.Subscriber, error) {
	return s.UpdateStatus(ctx, id, model.SubscriberActive)
}

func (s *subscriberService) Get(ctx context.Context, id string) (*model.Subscriber, error) {
	return s.repo.Get(ctx, id)
}

func (s *subscriberService) List(ctx context.Context, f model.ListFilter) (*model.ListResult[*model.Subscriber], error) {
	return s.repo.List(ctx, f)
}

func (s *subscriberService) UpdateStatus(ctx context.Context, id string, status model.SubscriberStatus) (*model.Subscriber, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, string(status))
}

func (s *subscriberService) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *subscriberService) Stats(ctx context.Context) (*model.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *subscriberService) DetailedStats(ctx context.Context) (*model.DetailedStats, error) {
	return s.repo.DetailedStats(ctx)
}

func (s *subscriberService) Analytics(ctx context.Context) (*model.Analytics, error) {
	return s.repo.Analytics(ctx)
}

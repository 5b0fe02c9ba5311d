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

const MaxMessageLength = 5000

// SubmitMessageInput 联系表单提交
type SubmitMessageInput struct {
	Email   string `validate:"required,email,max=254"`
	Name    string `validate:"max=100"`
	Message string `validate:"required,max=5000"`
	IPHash  string
}

// MessageService 联系消息服务
type MessageService interface {
	Submit(ctx context.Context, in SubmitMessageInput) (*model.Message, error)
	Get(ctx context.Context, id string) (*model.Message, error)
	List(ctx context.Context, f model.ListFilter) (*model.ListResult[*model.Message], error)
	UpdateStatus(ctx context.Context, id string, status model.MessageStatus) (*model.Message, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*model.Stats, error)
	DetailedStats(ctx context.Context) (*model.DetailedStats, error)
	Analytics(ctx context.Context) (*model.Analytics, error)
}

type messageService struct {
	repo repository.MessageRepository
}

func NewMessageService(repo repository.MessageRepository) MessageService {
	return &messageService{repo: repo}
}

func (s *messageService) Submit(ctx context.Context, in SubmitMessageInput) (*model.Message, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Message = strings.TrimSpace(in.Message)
	if err := validatorInstance().Struct(in); err != nil {
		return nil, validationErr(err)
	}
	if in.Name == "" {
		in.Name = model.DefaultName
	}
	msg, err := s.repo.Create(ctx, &model.Message{
		Email:   in.Email,
		Name:    in.Name,
		Message: in.Message,
		IPHash:  in.IPHash,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("message submitted", zap.String("id", msg.ID))
	return msg, nil
}

func (s *messageService) Get(ctx context.Context, id string) (*model.Message, error) {
	return s.repo.Get(ctx, id)
}

func (s *messageService) List(ctx context.Context, f model.ListFilter) (*model.ListResult[*model.Message], error) {
	return s.repo.List(ctx, f)
}

func (s *messageService) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) (*model.Message, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", repository.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, id, string(status))
}

func (s *messageService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err == nil && ok {
		logger.Info("message deleted", zap.String("id", id))
	}
	return ok, err
}

func (s *messageService) Stats(ctx context.Context) (*model.Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *messageService) DetailedStats(ctx context.Context) (*model.DetailedStats, error) {
	return s.repo.DetailedStats(ctx)
}

func (s *messageService) Analytics(ctx context.Context) (*model.Analytics, error) {
	return s.repo.Analytics(ctx)
}

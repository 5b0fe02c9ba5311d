package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/d60-Lab/site-store/internal/model"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, e *model.Message) (*model.Message, error) {
	args := m.Called(ctx, e)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *mockMessageRepo) Get(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *mockMessageRepo) List(ctx context.Context, f model.ListFilter) (*model.ListResult[*model.Message], error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(*model.ListResult[*model.Message])
	return out, args.Error(1)
}

func (m *mockMessageRepo) UpdateStatus(ctx context.Context, id, status string) (*model.Message, error) {
	args := m.Called(ctx, id, status)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *mockMessageRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMessageRepo) Repair(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockMessageRepo) Stats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*model.Stats)
	return out, args.Error(1)
}

func (m *mockMessageRepo) DetailedStats(ctx context.Context) (*model.DetailedStats, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*model.DetailedStats)
	return out, args.Error(1)
}

func (m *mockMessageRepo) Analytics(ctx context.Context) (*model.Analytics, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(*model.Analytics)
	return out, args.Error(1)
}

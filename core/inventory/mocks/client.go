package mocks

import (
	"context"

	"assetbot/core/inventory"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of inventory.Client
type Client struct {
	mock.Mock
}

func (m *Client) SearchUsers(ctx context.Context, query string, limit int) ([]inventory.User, error) {
	args := m.Called(ctx, query, limit)
	if users, ok := args.Get(0).([]inventory.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) GetUser(ctx context.Context, id int) (*inventory.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*inventory.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) UserAssets(ctx context.Context, id int) ([]inventory.Asset, error) {
	args := m.Called(ctx, id)
	if assets, ok := args.Get(0).([]inventory.Asset); ok {
		return assets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListAssets(ctx context.Context, opts inventory.ListOptions) ([]inventory.Asset, error) {
	args := m.Called(ctx, opts)
	if assets, ok := args.Get(0).([]inventory.Asset); ok {
		return assets, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) AssetByTag(ctx context.Context, tag string) (*inventory.Asset, error) {
	args := m.Called(ctx, tag)
	if asset, ok := args.Get(0).(*inventory.Asset); ok {
		return asset, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Checkout(ctx context.Context, assetID int, req inventory.CheckoutRequest) (*inventory.ActionResponse, error) {
	args := m.Called(ctx, assetID, req)
	if resp, ok := args.Get(0).(*inventory.ActionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Checkin(ctx context.Context, assetID int, note string) (*inventory.ActionResponse, error) {
	args := m.Called(ctx, assetID, note)
	if resp, ok := args.Get(0).(*inventory.ActionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) PatchAsset(ctx context.Context, assetID int, patch inventory.AssetPatch) (*inventory.ActionResponse, error) {
	args := m.Called(ctx, assetID, patch)
	if resp, ok := args.Get(0).(*inventory.ActionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CreateUser(ctx context.Context, req inventory.CreateUserRequest) (*inventory.ActionResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*inventory.ActionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Departments(ctx context.Context) ([]inventory.Department, error) {
	args := m.Called(ctx)
	if deps, ok := args.Get(0).([]inventory.Department); ok {
		return deps, args.Error(1)
	}
	return nil, args.Error(1)
}

// Package mocks provides testify mocks for the application-layer contracts.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sprestore/domain/drive"
	"sprestore/domain/recyclebin"
)

// MockItemLocator implements application.ItemLocator for testing
type MockItemLocator struct {
	mock.Mock
}

func (m *MockItemLocator) GetItemByPath(ctx context.Context, siteID, folderPath, name string) (*drive.Item, error) {
	args := m.Called(ctx, siteID, folderPath, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*drive.Item), args.Error(1)
}

func (m *MockItemLocator) ListChildren(ctx context.Context, siteID, folderPath string) ([]*drive.Item, error) {
	args := m.Called(ctx, siteID, folderPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*drive.Item), args.Error(1)
}

func (m *MockItemLocator) SearchItems(ctx context.Context, siteID, name string) ([]*drive.Item, error) {
	args := m.Called(ctx, siteID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*drive.Item), args.Error(1)
}

// MockRecycleBinClient implements application.RecycleBinClient for testing
type MockRecycleBinClient struct {
	mock.Mock
}

func (m *MockRecycleBinClient) ListRecycleBinItems(ctx context.Context, siteID string, pageSize int) ([]*recyclebin.Entry, error) {
	args := m.Called(ctx, siteID, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recyclebin.Entry), args.Error(1)
}

func (m *MockRecycleBinClient) RestoreRecycleBinItems(ctx context.Context, siteID string, ids []string) (*recyclebin.RestoreOutcome, error) {
	args := m.Called(ctx, siteID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recyclebin.RestoreOutcome), args.Error(1)
}

// MockItemDownloader implements application.ItemDownloader for testing
type MockItemDownloader struct {
	mock.Mock
}

func (m *MockItemDownloader) Download(ctx context.Context, siteID string, item *drive.Item, outDir string) (string, error) {
	args := m.Called(ctx, siteID, item, outDir)
	return args.String(0), args.Error(1)
}

// MockRestoreHistoryRepository implements contracts.RestoreHistoryRepository for testing
type MockRestoreHistoryRepository struct {
	mock.Mock
}

func (m *MockRestoreHistoryRepository) RecordRun(ctx context.Context, run *recyclebin.RestoreRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRestoreHistoryRepository) CompleteRun(ctx context.Context, run *recyclebin.RestoreRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRestoreHistoryRepository) RecentRuns(ctx context.Context, siteID string, limit int) ([]*recyclebin.RestoreRun, error) {
	args := m.Called(ctx, siteID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recyclebin.RestoreRun), args.Error(1)
}

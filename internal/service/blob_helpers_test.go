package service

import (
	"context"

	"JournalVault/internal/repo"

	"github.com/stretchr/testify/mock"
)

type mockBlobRepo struct{ mock.Mock }

func (m *mockBlobRepo) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *mockBlobRepo) Put(ctx context.Context, key, data string) error {
	return m.Called(ctx, key, data).Error(0)
}

func (m *mockBlobRepo) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

var _ repo.BlobRepository = (*mockBlobRepo)(nil)

const testVault = "0b6f9f0e-6a1c-4d7e-9a55-3f2e1d0c9b8a"

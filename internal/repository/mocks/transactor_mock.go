package mocks

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactorMock 直接以 nil tx 執行 fn，搭配 repository mock 使用
type TransactorMock struct {
	Calls int
}

func NewTransactorMock() *TransactorMock {
	return &TransactorMock{}
}

func (m *TransactorMock) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.Calls++
	return fn(nil)
}

// Package mocks provides mock implementations for testing the approvals gateway.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports interfaces. The mocks are generated using go:generate directives.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	backend := mocks.NewMockPurchaseBackend(ctrl)
//	backend.EXPECT().ListMine(gomock.Any(), gomock.Any(), "u-1").Return(items, nil)
package mocks

// Generate mock for PurchaseBackend interface from internal/ports package.
// This creates MockPurchaseBackend with methods for all PurchaseBackend interface methods:
// ListMine, ListAssigned, Submit, Approve, Reject
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=purchase_backend_mock.go github.com/reqflow/approvals-ui-api/internal/ports PurchaseBackend

package order

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported data provider")
	ErrNotPlaced           = errors.New("order was not placed")
	ErrNotFulfilled        = errors.New("order not fulfilled")
	ErrOrderFailed         = errors.New("order has failed")
)

// UnsupportedProviderError 下单前即拒绝，不会发出请求。
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("data provider %q is not supported, only %q is", e.Provider, SupportedProvider)
}

func (e *UnsupportedProviderError) Unwrap() error { return ErrUnsupportedProvider }

// PlacementError 下单响应中缺少订单 id，附带原始响应便于排查。
type PlacementError struct {
	Response map[string]any
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("order was not placed: %v", e.Response)
}

func (e *PlacementError) Unwrap() error { return ErrNotPlaced }

// InvalidStateError 订单未完成时请求交付物。
type InvalidStateError struct {
	OrderID string
	Status  Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("order %s not fulfilled, status is %s", e.OrderID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrNotFulfilled }

// OrderFailedError 跟踪过程中观察到失败终态。
type OrderFailedError struct {
	OrderID string
	Status  Status
}

func (e *OrderFailedError) Error() string {
	return fmt.Sprintf("order %s has failed, status is %s", e.OrderID, e.Status)
}

func (e *OrderFailedError) Unwrap() error { return ErrOrderFailed }

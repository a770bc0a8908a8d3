package order

import (
	"context"
	"time"
)

// Sleeper 抽象轮询间的等待，便于测试注入。
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type timerSleeper struct{}

// NewTimerSleeper 基于 time.Timer，ctx 取消时提前返回 ctx.Err()。
func NewTimerSleeper() Sleeper { return timerSleeper{} }

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、上流APIへのリクエスト頻度を制限します。
// 複数のゴルーチンから同時に使用できます。
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiterは1秒あたり perSecond 回までを許可するRateLimiterを生成します。
// perSecond が0以下の場合は制限しません。
func NewRateLimiter(perSecond int) *RateLimiter {
	if perSecond <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond)}
}

// Waitはトークンが利用可能になるまで待機します。ctx がキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

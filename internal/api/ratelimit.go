// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an idle client keeps its limiter.
const limiterIdleTTL = 10 * time.Minute

type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
	rate     rate.Limit
	burst    int
	interval time.Duration
}

// NewIPRateLimiter allows requestsPerMinute (which must be positive) per
// client IP with the given burst. Idle entries are evicted until ctx is done.
func NewIPRateLimiter(ctx context.Context, requestsPerMinute int, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	interval := time.Minute / time.Duration(requestsPerMinute)
	rl := &IPRateLimiter{
		limiters: make(map[string]*ipLimiterEntry),
		rate:     rate.Every(interval),
		burst:    burst,
		interval: interval,
	}
	go rl.cleanup(ctx)
	return rl
}

// Allow consumes one token for ip.
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &ipLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (rl *IPRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, entry := range rl.limiters {
				if time.Since(entry.lastSeen) > limiterIdleTTL {
					delete(rl.limiters, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Middleware rejects requests over the limit with 429. The client IP comes
// from gin, which honours X-Forwarded-For only from trusted proxies.
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(rl.interval.Seconds())))
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

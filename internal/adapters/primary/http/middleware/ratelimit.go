package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	visitorSweepInterval = time.Minute
	visitorIdleTTL       = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP. Idle visitors are swept until
// ctx is done.
func RateLimiter(ctx context.Context, rps float64, burst int) gin.HandlerFunc {
	if burst <= 0 {
		burst = 1
	}

	var (
		mu       sync.Mutex
		visitors = make(map[string]*visitor)
	)

	go func() {
		ticker := time.NewTicker(visitorSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				for ip, v := range visitors {
					if time.Since(v.lastSeen) > visitorIdleTTL {
						delete(visitors, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		v, ok := visitors[ip]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			visitors[ip] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			log.WithFields(log.Fields{
				"client_ip": ip,
				"path":      c.Request.URL.Path,
			}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}

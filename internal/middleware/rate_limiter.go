package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Martin-Comito/alambrados/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Fixed-window rate limiter ─────────────────────────────────────────────────

type ventana struct {
	count int
	fin   time.Time
}

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	mensaje string
	ips     map[string]*ventana
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration, mensaje string) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		ips:     make(map[string]*ventana),
		now:     time.Now,
	}
}

// NewLoginRateLimiter allows 20 login attempts per minute per IP.
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.")
}

func (rl *RateLimiter) permitir(ip string) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	v, ok := rl.ips[ip]
	if !ok || now.After(v.fin) {
		v = &ventana{fin: now.Add(rl.window)}
		rl.ips[ip] = v
	}
	v.count++
	return v.count <= rl.limit, v.fin
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := rl.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rl.mensaje))
			return
		}
		c.Next()
	}
}

// Purgar drops expired windows and returns how many were removed.
func (rl *RateLimiter) Purgar() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for ip, v := range rl.ips {
		if now.After(v.fin) {
			delete(rl.ips, ip)
			n++
		}
	}
	return n
}

// PurgarPeriodicamente runs Purgar until stop is closed.
func (rl *RateLimiter) PurgarPeriodicamente(every time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := rl.Purgar(); n > 0 {
				log.Debug().Int("purged", n).Msg("rate limiter purged")
			}
		}
	}
}

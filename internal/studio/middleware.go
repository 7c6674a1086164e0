package studio

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/studio/common"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDLocal  = "request_id"
)

// requestID reuses an incoming X-Request-ID or assigns a new one, and echoes
// it on the response.
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Locals(requestIDLocal, id)
		return c.Next()
	}
}

func requestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// requestLogger logs one line per request once the handler has finished.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = errorStatus(err)
		}
		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
			"request_id", requestIDFrom(c),
		)
		return err
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter is a per-client token bucket keyed by remote IP.
type rateLimiter struct {
	rps   float64
	burst int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{rps: rps, burst: burst, clients: map[string]*clientLimiter{}}
}

func (l *rateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cl, ok := l.clients[ip]; ok {
		cl.lastSeen = time.Now()
		return cl.limiter
	}
	limiter := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.clients[ip] = &clientLimiter{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

// sweep drops limiters not used within idle.
func (l *rateLimiter) sweep(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, cl := range l.clients {
		if time.Since(cl.lastSeen) > idle {
			delete(l.clients, ip)
		}
	}
}

func (l *rateLimiter) handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limiter := l.get(c.IP())

		reservation := limiter.Reserve()
		if !reservation.OK() {
			return common.JSONError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			c.Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
			return common.JSONError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		return c.Next()
	}
}

package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorTTL  = time.Hour
	maxVisitors = 10000
)

type visitor struct {
	minute   *rate.Limiter
	hour     *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP двумя окнами:
// perMinute в минуту (всплеск 2x) и perHour в час.
// Записи IP, молчавших дольше visitorTTL, вычищаются; число записей не больше maxVisitors.
type RateLimiter struct {
	mu        sync.Mutex
	minute    rate.Limit
	minBurst  int
	hour      rate.Limit
	hourBurst int
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter создаёт лимитер. Значение <= 0 отключает соответствующее окно.
func NewRateLimiter(perMinute, perHour int) *RateLimiter {
	l := &RateLimiter{
		minute:   rate.Inf,
		hour:     rate.Inf,
		visitors: map[string]*visitor{},
		now:      time.Now,
	}
	if perMinute > 0 {
		l.minute = rate.Every(time.Minute / time.Duration(perMinute))
		l.minBurst = perMinute * 2
	}
	if perHour > 0 {
		l.hour = rate.Every(time.Hour / time.Duration(perHour))
		l.hourBurst = perHour
	}
	return l
}

// Allow сообщает, можно ли пропустить ещё один запрос с адреса ip.
func (l *RateLimiter) Allow(ip string) bool {
	if l.minute == rate.Inf && l.hour == rate.Inf {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= maxVisitors {
			l.evictOldest()
		}
		v = &visitor{
			minute: rate.NewLimiter(l.minute, l.minBurst),
			hour:   rate.NewLimiter(l.hour, l.hourBurst),
		}
		l.visitors[ip] = v
	}
	v.lastSeen = now

	// токен списывается только если оба окна его дают
	rm := v.minute.ReserveN(now, 1)
	if !rm.OK() || rm.DelayFrom(now) > 0 {
		rm.CancelAt(now)
		return false
	}
	rh := v.hour.ReserveN(now, 1)
	if !rh.OK() || rh.DelayFrom(now) > 0 {
		rh.CancelAt(now)
		rm.CancelAt(now)
		return false
	}
	return true
}

// sweep удаляет записи, простаивавшие дольше visitorTTL. Вызывается под mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < visitorTTL {
		return
	}
	l.lastSweep = now
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, ip)
		}
	}
}

func (l *RateLimiter) evictOldest() {
	var oldestIP string
	var oldest time.Time
	for ip, v := range l.visitors {
		if oldestIP == "" || v.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, v.lastSeen
		}
	}
	delete(l.visitors, oldestIP)
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Handler: мидлварь, отвечающая 429 при превышении лимита.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions && !l.Allow(clientIP(r)) {
			log.Warnw("rate limit exceeded", "remote", clientIP(r))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP: адрес клиента без порта. Заголовкам X-Forwarded-For доверяем только
// при TRUST_PROXY, тогда RemoteAddr уже переписан chi RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

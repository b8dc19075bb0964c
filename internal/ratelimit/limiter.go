// Package ratelimit throttles console login attempts per username and per
// client address.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const ipWindow = time.Hour

// Config holds login throttle configuration.
type Config struct {
	MaxAttempts  int           // failed logins per username before lockout
	Lockout      time.Duration // how long a locked username stays locked
	MaxIPPerHour int           // failed logins per address in one hour
	Clock        clockwork.Clock
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  5,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 30,
	}
}

// Reasons reported in Decision.Reason.
const (
	ReasonLocked      = "lockout"
	ReasonMaxAttempts = "max_attempts"
	ReasonIPHourly    = "ip_hourly_limit"
)

// Decision is the outcome of Allow.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string
}

// window counts failures since start.
type window struct {
	failures int
	start    time.Time
	last     time.Time
	locked   time.Time
}

func (w *window) add(now time.Time) {
	w.failures++
	w.last = now
}

// Limiter keeps failure windows keyed by a hash of the username or address,
// so neither is held in memory in the clear.
type Limiter struct {
	cfg   Config
	clock clockwork.Clock

	mu    sync.RWMutex
	users map[string]*window
	addrs map[string]*window
}

func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Limiter{
		cfg:   *cfg,
		clock: cfg.Clock,
		users: make(map[string]*window),
		addrs: make(map[string]*window),
	}
	if l.clock == nil {
		l.clock = clockwork.NewRealClock()
	}
	return l
}

func userKey(username string) string {
	return digest("user:" + strings.ToLower(strings.TrimSpace(username)))
}

func addrKey(ip string) string {
	return digest("addr:" + ip)
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}

// Allow reports whether a login for username from ip may be attempted. It
// records nothing; call Fail when upstream rejects the credentials.
func (l *Limiter) Allow(username, ip string) Decision {
	now := l.clock.Now()
	l.mu.RLock()
	defer l.mu.RUnlock()

	if w := l.users[userKey(username)]; w != nil {
		if !w.locked.IsZero() {
			if elapsed := now.Sub(w.locked); elapsed < l.cfg.Lockout {
				return Decision{RetryAfter: l.cfg.Lockout - elapsed, Reason: ReasonLocked}
			}
		} else if w.failures >= l.cfg.MaxAttempts {
			return Decision{RetryAfter: l.cfg.Lockout, Reason: ReasonMaxAttempts}
		}
	}
	if w := l.addrs[addrKey(ip)]; w != nil {
		if age := now.Sub(w.start); age < ipWindow && w.failures >= l.cfg.MaxIPPerHour {
			return Decision{RetryAfter: ipWindow - age, Reason: ReasonIPHourly}
		}
	}
	return Decision{Allowed: true}
}

// Fail records a rejected login and reports whether it locked the username.
func (l *Limiter) Fail(username, ip string) (locked bool) {
	now := l.clock.Now()
	uk, ak := userKey(username), addrKey(ip)
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.users[uk]
	if w == nil || (!w.locked.IsZero() && now.Sub(w.locked) >= l.cfg.Lockout) {
		w = &window{start: now}
		l.users[uk] = w
	}
	w.add(now)
	if w.locked.IsZero() && w.failures >= l.cfg.MaxAttempts {
		w.locked = now
		locked = true
	}

	a := l.addrs[ak]
	if a == nil || now.Sub(a.start) >= ipWindow {
		a = &window{start: now}
		l.addrs[ak] = a
	}
	a.add(now)
	return locked
}

// Succeed clears the failures of username. The address window is kept.
func (l *Limiter) Succeed(username string) {
	uk := userKey(username)
	l.mu.Lock()
	delete(l.users, uk)
	l.mu.Unlock()
}

// Sweep drops windows that can no longer affect a decision and returns how
// many were removed.
func (l *Limiter) Sweep() int {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, w := range l.users {
		if now.Sub(w.last) > l.cfg.Lockout+ipWindow {
			delete(l.users, key)
			removed++
		}
	}
	for key, w := range l.addrs {
		if now.Sub(w.last) > ipWindow {
			delete(l.addrs, key)
			removed++
		}
	}
	return removed
}

// ClientIP returns the address a login came from. Forwarding headers are
// read only when trustProxy is set; X-Forwarded-For is scanned from the
// right for the first public address, since the proxy appends the hop it saw.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				hop := strings.TrimSpace(hops[i])
				if addr, err := netip.ParseAddr(hop); err == nil && !internal(addr) {
					return addr.String()
				}
			}
			return strings.TrimSpace(hops[len(hops)-1])
		}
		if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
			return real
		}
	}

	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().Unmap().String()
	}
	if addr, err := netip.ParseAddr(r.RemoteAddr); err == nil {
		return addr.Unmap().String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// internal reports loopback, private and link-local addresses, including
// IPv4-mapped IPv6 forms.
func internal(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
}

// MaskUsername hides most of a username for logs.
func MaskUsername(username string) string {
	username = strings.ToLower(strings.TrimSpace(username))
	if local, domain, ok := strings.Cut(username, "@"); ok {
		if len(local) > 2 {
			return local[:2] + "***@" + domain
		}
		return "***@" + domain
	}
	if len(username) >= 4 {
		return "***" + username[len(username)-4:]
	}
	return "***"
}

// LogThrottled records a refused login attempt.
func LogThrottled(username, ip string, d Decision) {
	log.Warn().
		Str("event", "login_throttled").
		Str("username", MaskUsername(username)).
		Str("ip", ip).
		Str("reason", d.Reason).
		Dur("retry_after", d.RetryAfter).
		Msg("Login attempt throttled")
}

// Package ratelimit provides per-client, per-endpoint request limiting
// backed by golang.org/x/time/rate token buckets.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Tier names.
const (
	TierGenerate  = "generate"
	TierWrite     = "write"
	TierScore     = "score"
	TierDefault   = "default"
	TierUnlimited = "unlimited"
)

// idleTTL is how long an untouched bucket survives cleanup.
const idleTTL = time.Hour

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Tiers           map[string]Tier
	Rules           []EndpointRule
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
}

// DefaultConfig returns the limits used when nothing is configured.
// Generation calls the model and gets the strictest budget.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Tiers: map[string]Tier{
			TierGenerate: {Name: TierGenerate, Limit: 30, Window: time.Hour, Burst: 3},
			TierWrite:    {Name: TierWrite, Limit: 100, Window: time.Minute, Burst: 10},
			TierScore:    {Name: TierScore, Limit: 300, Window: time.Minute, Burst: 30},
			TierDefault:  {Name: TierDefault, Limit: 1000, Window: time.Minute},
		},
		Rules:           DefaultRules(),
		CleanupInterval: 5 * time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
	}
}

// Info describes the limiter decision for one request.
type Info struct {
	Allowed    bool
	Tier       string
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	tier       Tier
	lastAccess time.Time
}

// Limiter tracks one bucket per client and tier.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a limiter. A nil config means DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow reports whether clientID may call method+path now and consumes a
// token when it may.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	tierName := MatchRule(method, path, l.config.Rules)
	if tierName == TierUnlimited {
		return true, Info{Allowed: true, Tier: TierUnlimited}
	}
	if tierName == "" {
		tierName = TierDefault
	}
	tier, ok := l.config.Tiers[tierName]
	if !ok || tier.Unlimited() {
		return true, Info{Allowed: true, Tier: tierName}
	}

	now := l.now()
	b := l.bucketFor(clientID+":"+tierName, tier, now)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Tier:      tierName,
		Limit:     tier.Limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		ResetTime: now.Add(untilFull(tokens, b.limiter)),
	}
	if !allowed {
		info.RetryAfter = untilTokens(1-tokens, b.limiter)
	}
	return allowed, info
}

func (l *Limiter) bucketFor(key string, tier Tier, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := tier.Burst
		if burst <= 0 {
			burst = tier.Limit
		}
		every := rate.Every(tier.Window / time.Duration(tier.Limit))
		b = &bucket{limiter: rate.NewLimiter(every, burst), tier: tier}
		l.buckets[key] = b
	}
	b.lastAccess = now
	return b
}

func untilFull(tokens float64, lim *rate.Limiter) time.Duration {
	return untilTokens(float64(lim.Burst())-tokens, lim)
}

func untilTokens(missing float64, lim *rate.Limiter) time.Duration {
	if missing <= 0 || lim.Limit() <= 0 {
		return 0
	}
	return time.Duration(missing / float64(lim.Limit()) * float64(time.Second))
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup(l.now())
		case <-l.stop:
			return
		}
	}
}

// cleanup drops buckets idle for longer than idleTTL.
func (l *Limiter) cleanup(now time.Time) {
	cutoff := now.Add(-idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Size returns the number of live buckets.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

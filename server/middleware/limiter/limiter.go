// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"codeberg.org/phraseforge/phraseforge/config"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// CleanupInterval is the minimum time between two sweeps of expired buckets.
const CleanupInterval = 5 * time.Minute

// Options configure a Limiter.
type Options struct {
	// Rate is the number of requests per second a network may sustain.
	Rate float64
	// Burst is the number of requests a network may make at once.
	Burst int

	IPv4Prefix int
	IPv6Prefix int

	// PassIPs and BlockIPs hold addresses or CIDR ranges.
	PassIPs  []string
	BlockIPs []string

	// FilterLocal applies the limiter to link-local clients too.
	FilterLocal bool

	// Expiry is how long an idle bucket is kept.
	Expiry time.Duration

	// StateFile is where Fini saves the buckets and Init restores them from.
	// Empty disables persistence.
	StateFile string
}

// OptionsFromConfig builds Options from the limiter section of cfg.
func OptionsFromConfig(cfg *config.ServerConfig) Options {
	return Options{
		Rate:        cfg.Limiter.Rate,
		Burst:       cfg.Limiter.Burst,
		IPv4Prefix:  cfg.Limiter.IPv4Prefix,
		IPv6Prefix:  cfg.Limiter.IPv6Prefix,
		PassIPs:     cfg.Limiter.PassIPs,
		BlockIPs:    cfg.Limiter.BlockIPs,
		FilterLocal: cfg.Limiter.FilterLocal,
		Expiry:      cfg.Limiter.Expiry,
		StateFile:   cfg.Limiter.StateFilepath,
	}
}

// Limiter holds one token bucket per client network.
type Limiter struct {
	opts Options

	limiters sync.Map // network string -> *limiterWrapper

	cleanupMu     sync.Mutex
	lastCleanupAt time.Time

	now func() time.Time
}

// limiterWrapper holds a rate limiter and additional metadata.
type limiterWrapper struct {
	limiter    *rate.Limiter
	network    string
	lastAccess time.Time
	mu         sync.Mutex
}

// serializableLimiter is the saved form of a limiterWrapper.
type serializableLimiter struct {
	Network    string    `json:"network"`
	LastAccess time.Time `json:"last_access"`
	Tokens     float64   `json:"tokens"`
}

// New returns a Limiter with no buckets.
func New(opts Options) *Limiter {
	return &Limiter{
		opts: opts,
		now:  time.Now,
	}
}

// Save writes the current buckets to w as a JSON array.
func (l *Limiter) Save(w io.Writer) error {
	stateToSave := []serializableLimiter{}
	now := l.now()

	l.limiters.Range(func(_, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			return true
		}

		limWrapper.mu.Lock()
		stateToSave = append(stateToSave, serializableLimiter{
			Network:    limWrapper.network,
			LastAccess: limWrapper.lastAccess,
			Tokens:     limWrapper.limiter.TokensAt(now),
		})
		limWrapper.mu.Unlock()

		return true
	})

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(stateToSave); err != nil {
		return err
	}

	log.Info().Int("count", len(stateToSave)).Msg("Saved limiter state")

	return nil
}

// Load replaces the buckets with those read from r. Buckets that expired
// in the meantime are dropped. An empty input is not an error.
func (l *Limiter) Load(r io.Reader) error {
	var loadedState []serializableLimiter

	if err := json.NewDecoder(r).Decode(&loadedState); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}

		return err
	}

	l.limiters.Clear()

	now := l.now()
	restored := 0

	for _, sl := range loadedState {
		if l.expired(sl.LastAccess, now) {
			continue
		}

		limWrapper := l.newLimiterWrapper(sl.Network, sl.LastAccess)

		// Spend what the bucket had already used up when it was saved.
		if used := float64(l.opts.Burst) - sl.Tokens; used >= 1 {
			limWrapper.limiter.AllowN(now, int(used))
		}

		l.limiters.Store(sl.Network, limWrapper)

		restored++
	}

	log.Info().Int("count", restored).Msg("Loaded limiter state")

	return nil
}

// Init restores the buckets from the state file, if one is configured.
// A missing or unreadable file starts the limiter empty.
func (l *Limiter) Init() {
	if l.opts.StateFile == "" {
		return
	}

	file, err := os.Open(l.opts.StateFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", l.opts.StateFile).
				Msg("Could not open limiter state file; starting with a fresh state")
		}

		return
	}
	defer file.Close()

	if err := l.Load(file); err != nil {
		log.Warn().Err(err).Str("file", l.opts.StateFile).
			Msg("Could not parse limiter state file; starting with a fresh state")
	}
}

// Fini saves the buckets to the state file, if one is configured.
func (l *Limiter) Fini() {
	if l.opts.StateFile == "" {
		return
	}

	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(l.Save(pw))
	}()

	if err := atomic.WriteFile(l.opts.StateFile, pr); err != nil {
		log.Warn().Err(err).Str("file", l.opts.StateFile).
			Msg("Failed to write limiter state")
	}
}

// allow takes one token from the bucket of network.
func (l *Limiter) allow(limWrapper *limiterWrapper) bool {
	limWrapper.mu.Lock()
	defer limWrapper.mu.Unlock()

	now := l.now()
	limWrapper.lastAccess = now

	return limWrapper.limiter.AllowN(now, 1)
}

// getOrCreateLimiter returns the bucket for network, creating a full one if needed.
func (l *Limiter) getOrCreateLimiter(network string) *limiterWrapper {
	if value, ok := l.limiters.Load(network); ok {
		if limWrapper, ok := value.(*limiterWrapper); ok {
			return limWrapper
		}
	}

	value, _ := l.limiters.LoadOrStore(network, l.newLimiterWrapper(network, l.now()))

	limWrapper, _ := value.(*limiterWrapper)

	return limWrapper
}

func (l *Limiter) newLimiterWrapper(network string, lastAccess time.Time) *limiterWrapper {
	return &limiterWrapper{
		limiter:    rate.NewLimiter(rate.Limit(l.opts.Rate), l.opts.Burst),
		network:    network,
		lastAccess: lastAccess,
	}
}

func (l *Limiter) expired(lastAccess, now time.Time) bool {
	return l.opts.Expiry > 0 && now.Sub(lastAccess) > l.opts.Expiry
}

// cleanupExpiredLimiters removes buckets that have not been used for Options.Expiry.
func (l *Limiter) cleanupExpiredLimiters() int {
	now := l.now()
	expiredCount := 0

	l.limiters.Range(func(key, value any) bool {
		limWrapper, ok := value.(*limiterWrapper)
		if !ok {
			l.limiters.Delete(key)

			return true
		}

		limWrapper.mu.Lock()
		lastAccess := limWrapper.lastAccess
		limWrapper.mu.Unlock()

		if l.expired(lastAccess, now) {
			l.limiters.Delete(key)

			expiredCount++
		}

		return true
	})

	if expiredCount > 0 {
		log.Info().Int("count", expiredCount).
			Msg("Cleaned up expired limiters")
	}

	return expiredCount
}

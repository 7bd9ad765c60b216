package reveal

import (
	"sort"
	"sync"

	"github.com/Faultbox/strokereveal/pkg/math"
)

const (
	// SnapEpsilon is the distance at which a ramping channel snaps to its
	// target.
	SnapEpsilon = 0.0005

	// rampEpsilon is the duration below which a ramp resolves immediately.
	rampEpsilon = 1e-5
)

// Channel is the reveal state of one follower. Current and Target stay in
// [0, 1]; RampSeconds == 0 means no ramp is in flight and Current == Target.
type Channel struct {
	Current     float32
	Target      float32
	RampSeconds float32
	RampElapsed float32
	Locked      bool
}

// Ramping reports whether the channel still has a ramp to advance.
func (c *Channel) Ramping() bool {
	return c.RampSeconds > 0 && c.Current != c.Target
}

// Store holds reveal channels keyed by ChannelKey. Channels are created on
// first reference and live as long as the store.
type Store struct {
	mu            sync.RWMutex
	channels      map[ChannelKey]*Channel
	defaultAmount float32
}

// NewStore creates a store whose new channels start at defaultAmount.
func NewStore(defaultAmount float32) *Store {
	return &Store{
		channels:      make(map[ChannelKey]*Channel),
		defaultAmount: math.Clamp01(defaultAmount),
	}
}

// DefaultAmount returns the value reported for channels that do not exist.
func (s *Store) DefaultAmount() float32 {
	return s.defaultAmount
}

// channel returns the channel for key, creating it if needed. Callers hold
// the write lock.
func (s *Store) channel(key ChannelKey) *Channel {
	ch, ok := s.channels[key]
	if !ok {
		ch = &Channel{Current: s.defaultAmount, Target: s.defaultAmount}
		s.channels[key] = ch
	}
	return ch
}

// Set jumps the channel to amount and cancels any ramp. It reports false
// when the channel is locked.
func (s *Store) Set(key ChannelKey, amount float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.channel(key)
	if ch.Locked {
		return false
	}
	amount = math.Clamp01(amount)
	ch.Current = amount
	ch.Target = amount
	ch.RampSeconds = 0
	ch.RampElapsed = 0
	return true
}

// Ramp starts a transition of the channel toward target over seconds. A
// duration of (effectively) zero resolves immediately. It reports false
// when the channel is locked.
func (s *Store) Ramp(key ChannelKey, target, seconds float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.channel(key)
	if ch.Locked {
		return false
	}
	ch.Target = math.Clamp01(target)
	ch.RampElapsed = 0
	if !(seconds > rampEpsilon) {
		ch.Current = ch.Target
		ch.RampSeconds = 0
		return true
	}
	ch.RampSeconds = seconds
	return true
}

// Get returns the channel's current value, or the default amount when the
// channel does not exist.
func (s *Store) Get(key ChannelKey) float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ch, ok := s.channels[key]; ok {
		return ch.Current
	}
	return s.defaultAmount
}

// Lock freezes or unfreezes the channel. Locked channels ignore Set and Ramp
// and are skipped by Tick, but stay readable.
func (s *Store) Lock(key ChannelKey, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channel(key).Locked = locked
}

// Locked reports whether the channel exists and is locked.
func (s *Store) Locked(key ChannelKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[key]
	return ok && ch.Locked
}

// Channel returns a copy of the channel state.
func (s *Store) Channel(key ChannelKey) (Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ch, ok := s.channels[key]; ok {
		return *ch, true
	}
	return Channel{}, false
}

// Len returns the number of channels.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// Keys returns every channel key in a stable order.
func (s *Store) Keys() []ChannelKey {
	s.mu.RLock()
	keys := make([]ChannelKey, 0, len(s.channels))
	for k := range s.channels {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Drawing != b.Drawing {
			return a.Drawing < b.Drawing
		}
		if a.Instance != b.Instance {
			return a.Instance < b.Instance
		}
		return a.Follower < b.Follower
	})
	return keys
}

// Tick advances every unlocked ramp by dt seconds and returns how many
// channels are still ramping.
//
// The interpolation factor is elapsed/duration applied to the current value
// rather than the ramp's start value, so channels ease out toward the
// target instead of moving at a constant rate.
func (s *Store) Tick(dt float32) int {
	if dt < 0 {
		dt = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active := 0
	for _, ch := range s.channels {
		if ch.Locked || ch.RampSeconds <= 0 {
			continue
		}
		if ch.Current == ch.Target {
			ch.RampSeconds = 0
			ch.RampElapsed = 0
			continue
		}

		ch.RampElapsed += dt
		progress := math.Clamp01(ch.RampElapsed / ch.RampSeconds)
		ch.Current = math.Clamp01(math.Lerp(ch.Current, ch.Target, progress))

		d := ch.Current - ch.Target
		if progress >= 1 || (d < SnapEpsilon && d > -SnapEpsilon) {
			ch.Current = ch.Target
			ch.RampSeconds = 0
			ch.RampElapsed = 0
			continue
		}
		active++
	}
	return active
}

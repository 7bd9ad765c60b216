package reveal

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/strokereveal/internal/logger"
)

// FollowerSource lists followers that are live in the application. The
// director consults it when rebuilding its group index, so followers that
// exist but have not registered yet are still found.
type FollowerSource interface {
	ActiveFollowers() []Identity
}

// Options configures a Director.
type Options struct {
	DefaultAmount float32
	RebuildOnMiss bool
	Source        FollowerSource
}

// Director is the reveal context: the channel store, the group index and
// the registry of live followers behind one handle. Methods on a nil
// Director log a warning and do nothing.
type Director struct {
	store  *Store
	groups *GroupIndex

	mu            sync.Mutex
	registry      map[ChannelKey]Identity
	source        FollowerSource
	rebuildOnMiss bool
}

// NewDirector creates a director.
func NewDirector(opts Options) *Director {
	return &Director{
		store:         NewStore(opts.DefaultAmount),
		groups:        NewGroupIndex(),
		registry:      make(map[ChannelKey]Identity),
		source:        opts.Source,
		rebuildOnMiss: opts.RebuildOnMiss,
	}
}

func warnMissing(op string, fields ...zap.Field) {
	logger.Warn("reveal director missing, skipping "+op, fields...)
}

// Store returns the director's channel store.
func (d *Director) Store() *Store {
	if d == nil {
		return nil
	}
	return d.store
}

// SetSource replaces the follower source used by Rebuild.
func (d *Director) SetSource(src FollowerSource) {
	if d == nil {
		warnMissing("SetSource")
		return
	}
	d.mu.Lock()
	d.source = src
	d.mu.Unlock()
}

// SetReveal jumps a follower's channel to amount.
func (d *Director) SetReveal(drawing, follower string, amount float32, instance string) {
	key := NewChannelKey(drawing, follower, instance)
	if d == nil {
		warnMissing("SetReveal", zap.Stringer("channel", key))
		return
	}
	if !d.store.Set(key, amount) {
		logger.Debug("reveal channel locked, ignoring set", zap.Stringer("channel", key))
	}
}

// RampReveal ramps a follower's channel toward target over seconds.
func (d *Director) RampReveal(drawing, follower string, target, seconds float32, instance string) {
	key := NewChannelKey(drawing, follower, instance)
	if d == nil {
		warnMissing("RampReveal", zap.Stringer("channel", key))
		return
	}
	if !d.store.Ramp(key, target, seconds) {
		logger.Debug("reveal channel locked, ignoring ramp", zap.Stringer("channel", key))
	}
}

// GetReveal returns a follower's current reveal amount. A nil director
// reports 0.
func (d *Director) GetReveal(drawing, follower, instance string) float32 {
	key := NewChannelKey(drawing, follower, instance)
	if d == nil {
		warnMissing("GetReveal", zap.Stringer("channel", key))
		return 0
	}
	return d.store.Get(key)
}

// LockReveal locks or unlocks a follower's channel.
func (d *Director) LockReveal(drawing, follower string, locked bool, instance string) {
	key := NewChannelKey(drawing, follower, instance)
	if d == nil {
		warnMissing("LockReveal", zap.Stringer("channel", key))
		return
	}
	d.store.Lock(key, locked)
}

// IsLocked reports whether a follower's channel is locked.
func (d *Director) IsLocked(drawing, follower, instance string) bool {
	if d == nil {
		return false
	}
	return d.store.Locked(NewChannelKey(drawing, follower, instance))
}

// Channel returns a snapshot of a follower's channel.
func (d *Director) Channel(drawing, follower, instance string) (Channel, bool) {
	if d == nil {
		return Channel{}, false
	}
	return d.store.Channel(NewChannelKey(drawing, follower, instance))
}

// SetRevealGroup sets every follower of a group to amount and returns how
// many followers were addressed.
func (d *Director) SetRevealGroup(drawing, group string, amount float32, instance string) int {
	gk := NewGroupKey(drawing, group, instance)
	if d == nil {
		warnMissing("SetRevealGroup", zap.Stringer("group", gk))
		return 0
	}
	members := d.resolveGroup(gk)
	for _, f := range members {
		d.store.Set(ChannelKey{Drawing: gk.Drawing, Follower: f, Instance: gk.Instance}, amount)
	}
	return len(members)
}

// RampRevealGroup ramps every follower of a group toward target and returns
// how many followers were addressed.
func (d *Director) RampRevealGroup(drawing, group string, target, seconds float32, instance string) int {
	gk := NewGroupKey(drawing, group, instance)
	if d == nil {
		warnMissing("RampRevealGroup", zap.Stringer("group", gk))
		return 0
	}
	members := d.resolveGroup(gk)
	for _, f := range members {
		d.store.Ramp(ChannelKey{Drawing: gk.Drawing, Follower: f, Instance: gk.Instance}, target, seconds)
	}
	return len(members)
}

// Members returns the follower keys of a group without triggering a
// rebuild.
func (d *Director) Members(drawing, group, instance string) []string {
	if d == nil {
		return nil
	}
	return d.groups.Members(NewGroupKey(drawing, group, instance))
}

// resolveGroup looks a group up, rebuilding the index once on a miss when
// the policy allows it.
func (d *Director) resolveGroup(gk GroupKey) []string {
	members := d.groups.Members(gk)
	if len(members) == 0 && d.rebuildOnMiss {
		logger.Debug("reveal group miss, rebuilding index", zap.Stringer("group", gk))
		d.Rebuild()
		members = d.groups.Members(gk)
	}
	if len(members) == 0 {
		logger.Warn("reveal group has no followers", zap.Stringer("group", gk))
	}
	return members
}

// RegisterFollower records a live follower and its group membership.
// Registering again updates the group.
func (d *Director) RegisterFollower(id Identity) {
	if d == nil {
		warnMissing("RegisterFollower", zap.Stringer("channel", id.Key()))
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry[id.Key()] = id
	d.groups.Add(id)
}

// UnregisterFollower forgets a follower. Its channel keeps its value.
func (d *Director) UnregisterFollower(id Identity) {
	if d == nil {
		warnMissing("UnregisterFollower", zap.Stringer("channel", id.Key()))
		return
	}
	key := id.Key()
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.registry, key)
	d.groups.Remove(key)
}

// Registered returns the number of registered followers.
func (d *Director) Registered() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.registry)
}

// Rebuild repopulates the group index from the registered followers and the
// follower source. Followers reported by the source are registered. Call it
// whenever the application's follower topology changes.
//
// The registry and the index change together under the director's lock, so
// a follower unregistered concurrently never reappears in a group. The
// source must not call back into the director.
func (d *Director) Rebuild() {
	if d == nil {
		warnMissing("Rebuild")
		return
	}

	d.mu.Lock()
	if d.source != nil {
		for _, id := range d.source.ActiveFollowers() {
			d.registry[id.Key()] = id
		}
	}
	ids := make([]Identity, 0, len(d.registry))
	for _, id := range d.registry {
		ids = append(ids, id)
	}
	d.groups.Rebuild(ids)
	d.mu.Unlock()
	logger.Debug("reveal group index rebuilt",
		zap.Int("followers", len(ids)),
		zap.Int("groups", d.groups.Len()),
	)
}

// Tick advances all channel ramps by dt seconds.
func (d *Director) Tick(dt float32) {
	if d == nil {
		return
	}
	d.store.Tick(dt)
}

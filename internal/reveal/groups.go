package reveal

import (
	"sort"
	"sync"
)

// GroupIndex maps group keys to the follower keys that belong to them. A
// follower belongs to at most one group per drawing instance.
type GroupIndex struct {
	mu         sync.RWMutex
	groups     map[GroupKey]map[string]struct{}
	membership map[ChannelKey]GroupKey
}

// NewGroupIndex creates an empty group index.
func NewGroupIndex() *GroupIndex {
	return &GroupIndex{
		groups:     make(map[GroupKey]map[string]struct{}),
		membership: make(map[ChannelKey]GroupKey),
	}
}

// Add records the identity's group membership, moving it out of any group
// it was in before. Identities without a group label are removed from the
// index.
func (g *GroupIndex) Add(id Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.add(id)
}

func (g *GroupIndex) add(id Identity) {
	key := id.Key()
	g.remove(key)

	gk, ok := id.GroupKey()
	if !ok {
		return
	}
	set, ok := g.groups[gk]
	if !ok {
		set = make(map[string]struct{})
		g.groups[gk] = set
	}
	set[key.Follower] = struct{}{}
	g.membership[key] = gk
}

// Remove drops the follower from its group, pruning the group when it
// empties.
func (g *GroupIndex) Remove(key ChannelKey) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remove(key)
}

func (g *GroupIndex) remove(key ChannelKey) {
	gk, ok := g.membership[key]
	if !ok {
		return
	}
	delete(g.membership, key)
	if set, ok := g.groups[gk]; ok {
		delete(set, key.Follower)
		if len(set) == 0 {
			delete(g.groups, gk)
		}
	}
}

// Members returns the follower keys of a group in sorted order.
func (g *GroupIndex) Members(key GroupKey) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set := g.groups[key]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// GroupOf returns the group a follower currently belongs to.
func (g *GroupIndex) GroupOf(key ChannelKey) (GroupKey, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	gk, ok := g.membership[key]
	return gk, ok
}

// Len returns the number of non-empty groups.
func (g *GroupIndex) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.groups)
}

// Rebuild discards the index and repopulates it from ids.
func (g *GroupIndex) Rebuild(ids []Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.groups = make(map[GroupKey]map[string]struct{})
	g.membership = make(map[ChannelKey]GroupKey)
	for _, id := range ids {
		g.add(id)
	}
}

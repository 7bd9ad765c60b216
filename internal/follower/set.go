package follower

import (
	"sort"

	"github.com/Faultbox/strokereveal/internal/reveal"
)

// Set manages the followers of an application and serves as the
// director's follower source for group rebuilds.
type Set struct {
	followers map[reveal.ChannelKey]*Follower
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		followers: make(map[reveal.ChannelKey]*Follower),
	}
}

// Add adds a follower, replacing any follower with the same key.
func (s *Set) Add(f *Follower) {
	if old, ok := s.followers[f.Key()]; ok && old != f {
		old.Deactivate()
	}
	s.followers[f.Key()] = f
}

// Remove deactivates and removes the follower with key.
func (s *Set) Remove(key reveal.ChannelKey) {
	if f, ok := s.followers[key]; ok {
		f.Deactivate()
		delete(s.followers, key)
	}
}

// Get returns a follower by key.
func (s *Set) Get(key reveal.ChannelKey) *Follower {
	return s.followers[key]
}

// Update updates every active follower.
func (s *Set) Update() {
	for _, f := range s.followers {
		if f.active {
			f.Update()
		}
	}
}

// All returns every follower ordered by key.
func (s *Set) All() []*Follower {
	result := make([]*Follower, 0, len(s.followers))
	for _, f := range s.followers {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key().String() < result[j].Key().String()
	})
	return result
}

// Count returns the number of followers.
func (s *Set) Count() int {
	return len(s.followers)
}

// ActiveFollowers returns the identities of active followers.
func (s *Set) ActiveFollowers() []reveal.Identity {
	ids := make([]reveal.Identity, 0, len(s.followers))
	for _, f := range s.All() {
		if f.active {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// ActivateAll activates every follower.
func (s *Set) ActivateAll() {
	for _, f := range s.followers {
		f.Activate()
	}
}

// DeactivateAll deactivates every follower.
func (s *Set) DeactivateAll() {
	for _, f := range s.followers {
		f.Deactivate()
	}
}

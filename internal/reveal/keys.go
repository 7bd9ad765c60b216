// Package reveal tracks how much of each followed curve effect is visible.
//
// A Director owns one channel store and one group index. It is constructed
// once by the application and handed to every consumer; there is no global
// instance. All mutation is expected from the update thread, but the store
// and group index guard their maps and the director updates its registry
// and group index under one lock, so a multi-threaded caller stays safe.
package reveal

import (
	"fmt"
	"strings"
)

func normalize(s string) string {
	return strings.TrimSpace(s)
}

// ChannelKey identifies one reveal channel. Build it with NewChannelKey so
// the parts are normalized.
type ChannelKey struct {
	Drawing  string
	Follower string
	Instance string
}

// NewChannelKey returns the normalized key for a drawing/follower/instance
// triple.
func NewChannelKey(drawing, follower, instance string) ChannelKey {
	return ChannelKey{
		Drawing:  normalize(drawing),
		Follower: normalize(follower),
		Instance: normalize(instance),
	}
}

func (k ChannelKey) String() string {
	return fmt.Sprintf("%s/%s#%s", k.Drawing, k.Follower, k.Instance)
}

// GroupKey identifies a named group of followers within one drawing
// instance.
type GroupKey struct {
	Drawing  string
	Group    string
	Instance string
}

// NewGroupKey returns the normalized key for a drawing/group/instance
// triple.
func NewGroupKey(drawing, group, instance string) GroupKey {
	return GroupKey{
		Drawing:  normalize(drawing),
		Group:    normalize(group),
		Instance: normalize(instance),
	}
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s/[%s]#%s", k.Drawing, k.Group, k.Instance)
}

// Identity is what a follower registers with the director.
type Identity struct {
	Drawing  string
	Follower string
	Instance string
	Group    string // optional group label
}

// Key returns the identity's channel key.
func (id Identity) Key() ChannelKey {
	return NewChannelKey(id.Drawing, id.Follower, id.Instance)
}

// GroupKey returns the identity's group key, or false when it declares no
// group.
func (id Identity) GroupKey() (GroupKey, bool) {
	g := normalize(id.Group)
	if g == "" {
		return GroupKey{}, false
	}
	return NewGroupKey(id.Drawing, g, id.Instance), true
}

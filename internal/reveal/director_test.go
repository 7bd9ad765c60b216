package reveal

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/strokereveal/internal/logger"
)

type staticSource []Identity

func (s staticSource) ActiveFollowers() []Identity { return s }

func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(nil) })
	return logs
}

func TestDirectorSetGet(t *testing.T) {
	d := NewDirector(Options{})
	d.SetReveal("Garden", "A", 0.5, "")

	if got := d.GetReveal("Garden", "A", ""); got != 0.5 {
		t.Errorf("GetReveal() = %v, want 0.5", got)
	}
	if got := d.GetReveal(" Garden", "A ", " "); got != 0.5 {
		t.Errorf("GetReveal() with padded names = %v, want 0.5", got)
	}
	if got := d.GetReveal("Garden", "A", "2"); got != 0 {
		t.Errorf("other instance = %v, want 0", got)
	}
}

func TestDirectorDefaultAmount(t *testing.T) {
	d := NewDirector(Options{DefaultAmount: 1})
	if got := d.GetReveal("Garden", "never-set", ""); got != 1 {
		t.Errorf("GetReveal() = %v, want default 1", got)
	}
}

func TestDirectorRampAndTick(t *testing.T) {
	d := NewDirector(Options{})
	d.RampReveal("Garden", "A", 1, 2, "")

	for i := 0; i < 120; i++ {
		d.Tick(1.0 / 60.0)
	}

	ch, ok := d.Channel("Garden", "A", "")
	if !ok {
		t.Fatal("channel missing")
	}
	if 1-ch.Current > SnapEpsilon {
		t.Errorf("Current = %v, want within %v of 1", ch.Current, SnapEpsilon)
	}
	if ch.RampSeconds != 0 {
		t.Errorf("RampSeconds = %v, want 0", ch.RampSeconds)
	}
}

func TestDirectorLock(t *testing.T) {
	d := NewDirector(Options{})
	d.SetReveal("Garden", "A", 0.3, "")
	d.LockReveal("Garden", "A", true, "")

	d.SetReveal("Garden", "A", 1, "")
	d.RampReveal("Garden", "A", 0, 1, "")
	d.Tick(1)

	if got := d.GetReveal("Garden", "A", ""); got != 0.3 {
		t.Errorf("locked value changed to %v", got)
	}
	if !d.IsLocked("Garden", "A", "") {
		t.Error("IsLocked() = false")
	}

	d.LockReveal("Garden", "A", false, "")
	d.SetReveal("Garden", "A", 1, "")
	if got := d.GetReveal("Garden", "A", ""); got != 1 {
		t.Errorf("after unlock GetReveal() = %v, want 1", got)
	}
}

func TestDirectorGroupSet(t *testing.T) {
	d := NewDirector(Options{})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "A", Group: "Bees"})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "B", Group: "Bees"})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "C", Group: "Wasps"})
	d.SetReveal("Garden", "C", 0.1, "")

	if n := d.SetRevealGroup("Garden", "Bees", 0.5, ""); n != 2 {
		t.Fatalf("SetRevealGroup() addressed %d followers, want 2", n)
	}

	for _, f := range []string{"A", "B"} {
		if got := d.GetReveal("Garden", f, ""); got != 0.5 {
			t.Errorf("%s = %v, want 0.5", f, got)
		}
	}
	if got := d.GetReveal("Garden", "C", ""); got != 0.1 {
		t.Errorf("non-member changed to %v", got)
	}
}

func TestDirectorGroupRampIdentical(t *testing.T) {
	d := NewDirector(Options{})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "A", Group: "Bees"})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "B", Group: "Bees"})

	d.RampRevealGroup("Garden", "Bees", 1, 1.5, "")
	for i := 0; i < 30; i++ {
		d.Tick(1.0 / 60.0)
		a := d.GetReveal("Garden", "A", "")
		b := d.GetReveal("Garden", "B", "")
		if a != b {
			t.Fatalf("tick %d: members diverged %v vs %v", i, a, b)
		}
	}
}

func TestDirectorGroupLockedMemberSkipped(t *testing.T) {
	d := NewDirector(Options{})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "A", Group: "Bees"})
	d.RegisterFollower(Identity{Drawing: "Garden", Follower: "B", Group: "Bees"})
	d.LockReveal("Garden", "B", true, "")

	d.SetRevealGroup("Garden", "Bees", 1, "")
	if got := d.GetReveal("Garden", "A", ""); got != 1 {
		t.Errorf("A = %v, want 1", got)
	}
	if got := d.GetReveal("Garden", "B", ""); got != 0 {
		t.Errorf("locked B = %v, want 0", got)
	}
}

func TestDirectorRebuildOnMiss(t *testing.T) {
	src := staticSource{
		{Drawing: "Garden", Follower: "A", Group: "Bees"},
		{Drawing: "Garden", Follower: "B", Group: "Bees"},
	}
	d := NewDirector(Options{RebuildOnMiss: true, Source: src})

	if n := d.SetRevealGroup("Garden", "Bees", 0.75, ""); n != 2 {
		t.Fatalf("SetRevealGroup() addressed %d followers, want 2", n)
	}
	if got := d.GetReveal("Garden", "B", ""); got != 0.75 {
		t.Errorf("B = %v, want 0.75", got)
	}
	if d.Registered() != 2 {
		t.Errorf("Registered() = %d, want 2", d.Registered())
	}
	if got := d.Members("Garden", "Bees", ""); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Members() = %v", got)
	}
}

func TestDirectorNoRebuildWhenDisabled(t *testing.T) {
	logs := observeWarnings(t)
	src := staticSource{{Drawing: "Garden", Follower: "A", Group: "Bees"}}
	d := NewDirector(Options{RebuildOnMiss: false, Source: src})

	if n := d.SetRevealGroup("Garden", "Bees", 1, ""); n != 0 {
		t.Errorf("SetRevealGroup() addressed %d followers, want 0", n)
	}
	if got := d.GetReveal("Garden", "A", ""); got != 0 {
		t.Errorf("A = %v, want 0", got)
	}
	if logs.FilterMessage("reveal group has no followers").Len() != 1 {
		t.Error("expected one empty-group warning")
	}

	d.Rebuild()
	if n := d.SetRevealGroup("Garden", "Bees", 1, ""); n != 1 {
		t.Errorf("after explicit Rebuild addressed %d followers, want 1", n)
	}
}

func TestDirectorEmptyGroupWarns(t *testing.T) {
	logs := observeWarnings(t)
	d := NewDirector(Options{RebuildOnMiss: true})

	if n := d.RampRevealGroup("Garden", "Nobody", 1, 1, ""); n != 0 {
		t.Errorf("RampRevealGroup() addressed %d followers", n)
	}
	if d.Store().Len() != 0 {
		t.Error("empty group created channels")
	}
	entries := logs.FilterMessage("reveal group has no followers").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
}

func TestDirectorReregisterMovesGroup(t *testing.T) {
	d := NewDirector(Options{})
	id := Identity{Drawing: "Garden", Follower: "A", Group: "Bees"}
	d.RegisterFollower(id)
	id.Group = "Wasps"
	d.RegisterFollower(id)

	if got := d.Members("Garden", "Bees", ""); got != nil {
		t.Errorf("Bees still has %v", got)
	}
	if n := d.SetRevealGroup("Garden", "Wasps", 1, ""); n != 1 {
		t.Errorf("Wasps addressed %d followers, want 1", n)
	}
	if d.Registered() != 1 {
		t.Errorf("Registered() = %d, want 1", d.Registered())
	}
}

func TestDirectorUnregisterKeepsChannel(t *testing.T) {
	d := NewDirector(Options{})
	id := Identity{Drawing: "Garden", Follower: "A", Group: "Bees"}
	d.RegisterFollower(id)
	d.SetReveal("Garden", "A", 0.6, "")
	d.UnregisterFollower(id)

	if d.Members("Garden", "Bees", "") != nil {
		t.Error("group kept unregistered follower")
	}
	if got := d.GetReveal("Garden", "A", ""); got != 0.6 {
		t.Errorf("channel lost its value: %v", got)
	}
}

func TestNilDirectorWarns(t *testing.T) {
	logs := observeWarnings(t)
	var d *Director

	d.SetReveal("Garden", "A", 1, "")
	d.RampReveal("Garden", "A", 1, 1, "")
	d.LockReveal("Garden", "A", true, "")
	if got := d.GetReveal("Garden", "A", ""); got != 0 {
		t.Errorf("nil GetReveal() = %v, want 0", got)
	}
	if n := d.SetRevealGroup("Garden", "Bees", 1, ""); n != 0 {
		t.Errorf("nil SetRevealGroup() = %d", n)
	}
	d.Tick(1)

	entries := logs.All()
	if len(entries) != 5 {
		t.Fatalf("expected 5 warnings, got %d", len(entries))
	}
	for _, e := range entries {
		if !strings.HasPrefix(e.Message, "reveal director missing") {
			t.Errorf("unexpected warning %q", e.Message)
		}
	}
	if d.IsLocked("Garden", "A", "") || d.Registered() != 0 || d.Store() != nil {
		t.Error("nil director reported state")
	}
}

func TestDirectorRebuildDuringUnregister(t *testing.T) {
	d := NewDirector(Options{RebuildOnMiss: true})

	for round := 0; round < 200; round++ {
		ids := make([]Identity, 8)
		for i := range ids {
			ids[i] = Identity{Drawing: "Garden", Follower: fmt.Sprintf("f%d", i), Group: "Bees"}
			d.RegisterFollower(ids[i])
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for _, id := range ids {
				d.UnregisterFollower(id)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 4; i++ {
				d.Rebuild()
			}
		}()
		wg.Wait()

		if n := d.Registered(); n != 0 {
			t.Fatalf("round %d: %d followers still registered", round, n)
		}
		if m := d.Members("Garden", "Bees", ""); len(m) != 0 {
			t.Fatalf("round %d: unregistered followers still grouped: %v", round, m)
		}
	}
}

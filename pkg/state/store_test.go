package state

import (
	"sync"
	"testing"
	"time"

	"github.com/jwebster45206/ether-engine/pkg/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RejectedDispatchKeepsSnapshot(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)
	before := s.View()

	assert.False(t, s.Dispatch(SelectNode{NodeID: "nowhere"}))
	assert.True(t, before.Same(s.View()))

	assert.True(t, s.Dispatch(SelectNode{NodeID: "rest-1"}))
	assert.False(t, before.Same(s.View()))
	assert.Equal(t, "rest-1", s.View().CurrentNodeID())
}

func TestStore_SubscribeNotifiesOnSelectedChange(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)

	var golds []int
	unsubscribe := Subscribe(s, func(v View) int { return v.Resources().Gold }, func(g int) {
		golds = append(golds, g)
	})

	s.Dispatch(AddResources{Deltas: resources.Resources{Memory: 5}})
	s.Dispatch(AddResources{Deltas: resources.Resources{Gold: 5}})
	s.Dispatch(SelectNode{NodeID: "nowhere"})
	s.Dispatch(AddResources{Deltas: resources.Resources{Gold: 1}})
	assert.Equal(t, []int{105, 106}, golds)

	unsubscribe()
	s.Dispatch(AddResources{Deltas: resources.Resources{Gold: 1}})
	assert.Len(t, golds, 2)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)

	var phase string
	Subscribe(s, func(v View) string { return v.CurrentNodeID() }, func(string) {
		phase = s.View().Phase()
	})
	s.Dispatch(SelectNode{NodeID: "rest-1"})
	assert.Equal(t, "rest", phase)
}

func TestStore_ResetRunAppliesRunStartRelics(t *testing.T) {
	f := newFixture(t)
	f.engine.WithStartingRelics("merchant_seal", "old_journal")
	s := NewStore(f.engine)

	assert.Equal(t, StartingResources.Gold+50, s.View().Resources().Gold)
	assert.Equal(t, 50, s.View().Resources().Memory)

	s.Dispatch(SelectNode{NodeID: "rest-1"})
	s.Dispatch(AddResources{Deltas: resources.Resources{Gold: 999}})

	var resets int
	Subscribe(s, func(v View) string { return v.CurrentNodeID() }, func(string) { resets++ })

	s.ResetRun()
	v := s.View()
	assert.Equal(t, StartingResources.Gold+50, v.Resources().Gold)
	assert.Equal(t, []string{"merchant_seal", "old_journal"}, v.Relics())
	assert.Empty(t, v.CurrentNodeID())
	assert.Equal(t, 1, resets)
}

func TestStore_ConcurrentDispatchSerialised(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(AddResources{Deltas: resources.Resources{Gold: 1}})
		}()
	}
	wg.Wait()
	assert.Equal(t, StartingResources.Gold+50, s.View().Resources().Gold)
}

func TestView_ReturnsCopies(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)
	s.Dispatch(SelectNode{NodeID: "dungeon-1"})
	s.Dispatch(ConfirmDungeon{})

	v := s.View()
	p := v.Player()
	p.Cards[0] = "hacked"
	m := v.Map()
	m[0].Cleared = true
	d := v.ActiveDungeon()
	require.NotNil(t, d)
	d.Data.Nodes[0].ID = "hacked"

	fresh := s.View()
	assert.NotEqual(t, "hacked", fresh.Player().Cards[0])
	assert.False(t, fresh.Map()[0].Cleared)
	assert.NotEqual(t, "hacked", fresh.ActiveDungeon().Data.Nodes[0].ID)
}

func TestView_SnapshotIsDeep(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)
	s.Dispatch(EnhanceCard{CardID: "strike"})

	snap := s.View().Snapshot()
	snap.Relics = append(snap.Relics, "x")
	delete(snap.CardGrowth, "strike")

	assert.Equal(t, 1, s.View().CardGrowth("strike").EnhancementLevel)
	assert.Empty(t, s.View().Relics())
}

func dispatchWithin(t *testing.T, s *Store, a Action) bool {
	t.Helper()
	done := make(chan bool, 1)
	go func() { done <- s.Dispatch(a) }()
	select {
	case changed := <-done:
		return changed
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch did not return")
		return false
	}
}

func TestStore_SubscriberMayUnsubscribeItself(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)

	var calls int
	var unsubscribe func()
	unsubscribe = Subscribe(s, func(v View) int { return v.Resources().Gold }, func(int) {
		calls++
		unsubscribe()
	})

	assert.True(t, dispatchWithin(t, s, AddResources{Deltas: resources.Resources{Gold: 1}}))
	assert.True(t, dispatchWithin(t, s, AddResources{Deltas: resources.Resources{Gold: 1}}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, StartingResources.Gold+2, s.View().Resources().Gold)
}

func TestStore_SubscriberMaySubscribe(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)

	var inner []int
	var once sync.Once
	Subscribe(s, func(v View) int { return v.Resources().Gold }, func(int) {
		once.Do(func() {
			Subscribe(s, func(v View) int { return v.Resources().Gold }, func(g int) {
				inner = append(inner, g)
			})
		})
	})

	dispatchWithin(t, s, AddResources{Deltas: resources.Resources{Gold: 1}})
	assert.Empty(t, inner)
	dispatchWithin(t, s, AddResources{Deltas: resources.Resources{Gold: 1}})
	assert.Equal(t, []int{StartingResources.Gold + 2}, inner)
}

func TestStore_ConcurrentSubscribersSeeMonotonicGold(t *testing.T) {
	f := newFixture(t)
	s := NewStore(f.engine)

	var golds []int
	Subscribe(s, func(v View) int { return v.Resources().Gold }, func(g int) {
		golds = append(golds, g)
	})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(AddResources{Deltas: resources.Resources{Gold: 1}})
		}()
	}
	wg.Wait()

	require.NotEmpty(t, golds)
	assert.IsIncreasing(t, golds)
	assert.Equal(t, StartingResources.Gold+50, golds[len(golds)-1])
}

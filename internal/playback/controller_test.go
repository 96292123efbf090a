package playback

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/convoy/internal/channel"
	"github.com/tessro/convoy/internal/core"
	"github.com/tessro/convoy/internal/driver"
)

var catalog = core.Tracks{
	{Title: "Midnight City", Artist: "M83", Duration: 240},
	{Title: "Nightcall", Artist: "Kavinsky", Duration: 258},
	{Title: "Tech Noir", Artist: "Gunship", Duration: 300},
}

// countingChannel records publishes per origin.
type countingChannel struct {
	channel.Channel

	mu        sync.Mutex
	published map[string]int
}

func newCountingChannel(inner channel.Channel) *countingChannel {
	return &countingChannel{Channel: inner, published: make(map[string]int)}
}

func (c *countingChannel) Publish(ctx context.Context, env channel.Envelope) error {
	c.mu.Lock()
	c.published[env.Origin]++
	c.mu.Unlock()
	return c.Channel.Publish(ctx, env)
}

func (c *countingChannel) count(origin string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.published[origin]
}

func (c *countingChannel) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.published {
		n += v
	}
	return n
}

type peer struct {
	ctrl   *Controller
	driver *driver.Sim
}

func newPeer(t *testing.T, origin string, ch channel.Channel) peer {
	t.Helper()
	sim := driver.NewSim(driver.SimOptions{Tracks: catalog, Volume: DefaultVolume})
	ctrl, err := New(context.Background(), Options{
		Origin:  origin,
		Tracks:  catalog,
		Channel: ch,
		Driver:  sim,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	return peer{ctrl: ctrl, driver: sim}
}

func runPeer(t *testing.T, p peer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.ctrl.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestNewLoadsFirstTrack(t *testing.T) {
	p := newPeer(t, "a", channel.NewMemory())

	assert.Equal(t, core.PlaybackState{TrackIndex: 0, Playing: false}, p.ctrl.State())
	st := p.driver.State()
	assert.True(t, st.Loaded)
	assert.Equal(t, 0, st.TrackIndex)
	assert.Equal(t, DefaultVolume, st.Volume)
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(context.Background(), Options{Channel: channel.NewMemory(), Driver: driver.NewSim(driver.SimOptions{})})
	assert.Error(t, err)
}

func TestNewGeneratesOrigin(t *testing.T) {
	a := newPeer(t, "", channel.NewMemory())
	b := newPeer(t, "", channel.NewMemory())
	assert.NotEmpty(t, a.ctrl.Origin())
	assert.NotEqual(t, a.ctrl.Origin(), b.ctrl.Origin())
}

func TestAdvanceRetreatWrap(t *testing.T) {
	ctx := context.Background()
	p := newPeer(t, "a", channel.NewMemory())

	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Retreat}))
	assert.Equal(t, 2, p.ctrl.State().TrackIndex, "retreat from 0 wraps to last")

	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Advance}))
	assert.Equal(t, 0, p.ctrl.State().TrackIndex, "advance from last wraps to 0")
}

func TestAdvanceRetreatInverse(t *testing.T) {
	ctx := context.Background()
	p := newPeer(t, "a", channel.NewMemory())

	for start := 0; start < catalog.Len(); start++ {
		require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Select(start)))

		require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Advance}))
		require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Retreat}))
		assert.Equal(t, start, p.ctrl.State().TrackIndex)

		require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Retreat}))
		require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Advance}))
		assert.Equal(t, start, p.ctrl.State().TrackIndex)
	}
}

func TestSelectTrackOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := newCountingChannel(channel.NewMemory())
	p := newPeer(t, "a", mem)

	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Select(catalog.Len())))
	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Select(-1)))

	assert.Equal(t, 0, p.ctrl.State().TrackIndex)
	assert.Equal(t, 0, mem.total())
}

func TestLocalIntentPublishesAndDrives(t *testing.T) {
	ctx := context.Background()
	mem := channel.NewMemory()
	probe, cancel := mem.Subscribe()
	defer cancel()

	p := newPeer(t, "a", mem)
	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: TogglePlay}))

	select {
	case env := <-probe:
		assert.Equal(t, "a", env.Origin)
		state, err := env.PlaybackState()
		require.NoError(t, err)
		assert.Equal(t, core.PlaybackState{TrackIndex: 0, Playing: true}, state)
	case <-time.After(time.Second):
		t.Fatal("no envelope published")
	}
	assert.True(t, p.driver.State().Playing)
}

func TestOnRemoteUpdate(t *testing.T) {
	ctx := context.Background()
	mem := newCountingChannel(channel.NewMemory())
	p := newPeer(t, "a", mem)

	assert.False(t, p.ctrl.OnRemoteUpdate(ctx, core.PlaybackState{TrackIndex: 1, Playing: true}, "a"), "own origin is discarded")
	assert.Equal(t, core.PlaybackState{}, p.ctrl.State())

	assert.False(t, p.ctrl.OnRemoteUpdate(ctx, core.PlaybackState{TrackIndex: 0, Playing: false}, "b"), "equal state is ignored")
	assert.False(t, p.ctrl.OnRemoteUpdate(ctx, core.PlaybackState{TrackIndex: 7}, "b"), "out of range is dropped")

	assert.True(t, p.ctrl.OnRemoteUpdate(ctx, core.PlaybackState{TrackIndex: 1, Playing: true}, "b"))
	assert.Equal(t, core.PlaybackState{TrackIndex: 1, Playing: true}, p.ctrl.State())
	assert.Equal(t, core.DriverState{Loaded: true, TrackIndex: 1, Playing: true, Volume: DefaultVolume}, p.driver.State())

	assert.Equal(t, 0, mem.total(), "remote adoption is never published")
}

func TestRepeatedRemoteUpdateDoesNotTouchDriver(t *testing.T) {
	ctx := context.Background()
	p := newPeer(t, "a", channel.NewMemory())
	update := core.PlaybackState{TrackIndex: 2, Playing: true}

	p.ctrl.OnRemoteUpdate(ctx, update, "b")
	before := len(p.driver.History())

	for i := 0; i < 3; i++ {
		p.ctrl.OnRemoteUpdate(ctx, update, "b")
	}
	assert.Equal(t, before, len(p.driver.History()))
}

func TestRejectedPlayRevertsWithoutPublishing(t *testing.T) {
	ctx := context.Background()
	mem := newCountingChannel(channel.NewMemory())
	p := newPeer(t, "a", mem)
	p.driver.SetRejectPlay(true)

	changes, cancel := p.ctrl.Subscribe()
	defer cancel()

	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Intent{Kind: TogglePlay}))

	assert.False(t, p.ctrl.State().Playing)
	assert.False(t, p.driver.State().Playing)
	assert.Equal(t, 1, mem.count("a"), "only the intent itself is published")

	first := <-changes
	second := <-changes
	assert.Equal(t, SourceLocal, first.Source)
	assert.True(t, first.State.Playing)
	assert.Equal(t, SourceReverted, second.Source)
	assert.False(t, second.State.Playing)
}

func TestVolumeAndSeekAreLocal(t *testing.T) {
	ctx := context.Background()
	mem := newCountingChannel(channel.NewMemory())
	p := newPeer(t, "a", mem)

	require.NoError(t, p.ctrl.SetVolume(ctx, 0.3))
	assert.Equal(t, 0.3, p.ctrl.Volume())
	assert.Equal(t, 0.3, p.driver.State().Volume)

	require.NoError(t, p.ctrl.SetVolume(ctx, 4))
	assert.Equal(t, 1.0, p.ctrl.Volume())

	require.NoError(t, p.ctrl.SeekPercent(ctx, 50))
	prog := p.ctrl.Progress()
	assert.Equal(t, 120.0, prog.Position)
	assert.Equal(t, 240.0, prog.Duration)
	assert.Equal(t, 50.0, prog.Percentage)

	assert.Equal(t, 0, mem.total())
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	p := newPeer(t, "a", channel.NewMemory())
	require.NoError(t, p.ctrl.ApplyLocalIntent(ctx, Select(1)))

	snap := p.ctrl.Snapshot()
	assert.Equal(t, "a", snap.Origin)
	assert.Equal(t, "Nightcall", snap.Track.Title)
	assert.Equal(t, 1, snap.State.TrackIndex)
	assert.Equal(t, DefaultVolume, snap.Volume)
}

func TestRunDropsMalformedEnvelopes(t *testing.T) {
	mem := channel.NewMemory()
	p := newPeer(t, "a", mem)
	runPeer(t, p)

	ctx := context.Background()
	require.NoError(t, mem.Publish(ctx, channel.Envelope{Event: channel.EventMediaControl, Origin: "b", Data: []byte(`"nope"`)}))
	require.NoError(t, mem.Publish(ctx, channel.Envelope{Event: "chat", Origin: "b", Data: []byte(`{}`)}))

	env, err := channel.NewMediaControl("b", core.PlaybackState{TrackIndex: 2})
	require.NoError(t, err)
	require.NoError(t, mem.Publish(ctx, env))

	require.Eventually(t, func() bool { return p.ctrl.State().TrackIndex == 2 }, time.Second, 5*time.Millisecond)
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	mem := channel.NewMemory()
	p := newPeer(t, "a", mem)
	require.NoError(t, mem.Close())

	err := p.ctrl.Run(context.Background())
	assert.Error(t, err)
}

func TestTwoPeerToggle(t *testing.T) {
	ctx := context.Background()
	mem := newCountingChannel(channel.NewMemory())
	a := newPeer(t, "peer-a", mem)
	b := newPeer(t, "peer-b", mem)
	runPeer(t, a)
	runPeer(t, b)

	require.NoError(t, a.ctrl.ApplyLocalIntent(ctx, Intent{Kind: TogglePlay}))

	require.Eventually(t, func() bool {
		return b.ctrl.State() == core.PlaybackState{TrackIndex: 0, Playing: true}
	}, time.Second, 5*time.Millisecond)
	assert.True(t, b.driver.State().Playing)

	require.NoError(t, b.ctrl.ApplyLocalIntent(ctx, Intent{Kind: Advance}))
	require.Eventually(t, func() bool {
		return a.ctrl.State() == core.PlaybackState{TrackIndex: 1, Playing: true}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, a.driver.State().TrackIndex)
	assert.True(t, a.driver.State().Playing)

	// Give any echo a chance to surface before counting.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, mem.count("peer-a"))
	assert.Equal(t, 1, mem.count("peer-b"))
}

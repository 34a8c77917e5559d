package selection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_Lifecycle(t *testing.T) {
	m := &manual{}
	reg := NewSessions(WithScheduler(m.schedule))
	e := reg.Create("page-1")
	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "page-1", e.PageID)

	got, ok := reg.Get(e.ID)
	require.True(t, ok)
	assert.Same(t, e, got)

	reg.Close(e.ID)
	_, ok = reg.Get(e.ID)
	assert.False(t, ok)
	reg.Close("missing")
	assert.Equal(t, 0, reg.Len())
}

func TestSessions_MountQueuesScrolls(t *testing.T) {
	m := &manual{}
	reg := NewSessions(WithScheduler(m.schedule))
	e := reg.Create("p")
	e.Mount(PanelPreview, "s1")

	e.Click("s1", false)
	m.fire(0)
	cmds := e.Drain()
	require.Len(t, cmds, 1)
	assert.Equal(t, ScrollCommand{Panel: PanelPreview, ID: "s1", Options: CenterSmooth}, cmds[0])
	assert.Empty(t, e.Drain())
}

func TestSessions_QueueIsBounded(t *testing.T) {
	m := &manual{}
	reg := NewSessions(WithScheduler(m.schedule))
	e := reg.Create("p")
	e.Mount(PanelOutline, "s1")
	for i := 0; i < maxQueued+5; i++ {
		e.Select("s1")
		m.fire(i)
	}
	assert.Len(t, e.Drain(), maxQueued)
}

func TestSessions_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	reg := NewSessions(WithScheduler((&manual{}).schedule))
	reg.now = func() time.Time { return now }

	old := reg.Create("p1")
	now = now.Add(20 * time.Minute)
	fresh := reg.Create("p2")

	assert.Equal(t, 1, reg.Sweep(10*time.Minute))
	_, ok := reg.Get(old.ID)
	assert.False(t, ok)
	_, ok = reg.Get(fresh.ID)
	assert.True(t, ok)

	reg.CloseAll()
	assert.Equal(t, 0, reg.Len())
}

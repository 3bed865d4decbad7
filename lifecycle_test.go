package repeater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwakeThenStartOnLaterFlushes(t *testing.T) {
	FlushMicrotasks()

	var order []string
	n := NewNode(Props{
		On: map[string]Method{
			EventAwake: func(n *Node, e Event) PostListener { order = append(order, "awake"); return nil },
			EventStart: func(n *Node, e Event) PostListener { order = append(order, "start"); return nil },
		},
	})
	assert.False(t, n.Awake())
	assert.Empty(t, order, "nothing fires during construction")

	FlushMicrotasks()
	assert.Equal(t, []string{"awake", "start"}, order)
	assert.True(t, n.Awake())
	assert.True(t, n.Started())
}

func TestAwakeSeesChildrenAddedAfterConstruction(t *testing.T) {
	FlushMicrotasks()

	parent := NewNode(Props{})
	var seen int
	parent.On(EventAwake, func(Event) { seen = parent.NumChildren() })
	parent.Add(NewNode(Props{}), NewNode(Props{}))

	FlushMicrotasks()
	assert.Equal(t, 2, seen)
}

func TestStartFollowsAllAwakes(t *testing.T) {
	FlushMicrotasks()

	var order []string
	a := NewNode(Props{Name: "a"})
	b := NewNode(Props{Name: "b"})
	for _, n := range []*Node{a, b} {
		n.On(EventAwake, func(Event) { order = append(order, n.Name+".awake") })
		n.On(EventStart, func(Event) { order = append(order, n.Name+".start") })
	}

	ran := FlushMicrotasks()
	require.Equal(t, 4, ran)
	assert.Equal(t, []string{"a.awake", "b.awake", "a.start", "b.start"}, order)
	assert.Zero(t, PendingMicrotasks())
}

func TestDestroyBetweenAwakeAndStart(t *testing.T) {
	FlushMicrotasks()

	started := false
	n := NewNode(Props{})
	n.On(EventAwake, func(Event) { n.Destroy() })
	n.On(EventStart, func(Event) { started = true })

	FlushMicrotasks()
	assert.False(t, started)
	assert.True(t, n.Awake())
	assert.False(t, n.Started())
}

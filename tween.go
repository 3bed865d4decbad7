package repeater

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to three float channels of a node and applies
// them through a setter. Create one with TweenPosition, TweenScale or
// TweenRotation, then either call Update yourself or Play it as a
// coroutine on the target node.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	apply  func(vals [3]float64)
	target *Node
	Done   bool
}

// Update advances all channels by dt seconds and applies the values. If the
// target has been destroyed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.Destroyed() {
		g.Done = true
		return
	}

	var vals [3]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// Play runs the group on its target, advancing it by the target's Delta on
// every update. The future resolves when the group finishes and rejects if
// the target is destroyed first.
func (g *TweenGroup) Play() *Future[struct{}] {
	return g.target.Go(func(n *Node, yield func(Awaitable) bool) {
		for !g.Done {
			if !yield(nil) {
				return
			}
			g.Update(float32(n.Delta()))
		}
	})
}

func newTweenGroup(n *Node, from, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: 3, target: n}
	for i := range 3 {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
	}
	return g
}

// TweenPosition animates the node's local position to the given value.
func TweenPosition(n *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(n, n.LocalPosition(), to, duration, fn)
	g.apply = func(v [3]float64) { n.SetLocalPosition(mgl64.Vec3(v)) }
	return g
}

// TweenScale animates the node's local scale to the given value.
func TweenScale(n *Node, to mgl64.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := newTweenGroup(n, n.LocalScale(), to, duration, fn)
	g.apply = func(v [3]float64) { n.SetLocalScale(mgl64.Vec3(v)) }
	return g
}

// TweenRotation animates the node's local rotation to to, interpolating
// spherically.
func TweenRotation(n *Node, to mgl64.Quat, duration float32, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	from := n.LocalRotation()
	g := &TweenGroup{count: 1, target: n}
	g.tweens[0] = gween.New(0, 1, duration, fn)
	g.apply = func(v [3]float64) {
		n.SetLocalRotation(mgl64.QuatSlerp(from, to, v[0]))
	}
	return g
}

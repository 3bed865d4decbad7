// Package repeater is a scene-graph runtime for games built on
// [Ebitengine]: a tree of nodes with 3D transforms, named events that
// propagate up and down the tree, declarative composition, components, and
// coroutines driven by the engine clock.
//
// # Quick start
//
//	eng, err := repeater.New(repeater.DefaultConfig(), repeater.NewInputPlugin(&repeater.EbitenPointerSource{}))
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng.Root().Add(repeater.NewNode(repeater.Props{
//		Name:     "spinner",
//		Position: repeater.XYZ(100, 50, 0),
//		On: map[string]repeater.Method{
//			repeater.EventUpdate: func(n *repeater.Node, e repeater.Event) repeater.PostListener {
//				n.SetLocalRotationEuler(mgl64.Vec3{0, 0, 90 * n.Delta()})
//				return nil
//			},
//		},
//	}))
//	log.Fatal(eng.Run())
//
// Headless code (tests, tools) drives the same loop with [Engine.Step], or
// calls [FlushMicrotasks] directly when no engine is involved.
//
// # Nodes and events
//
// Every entity is a [Node]. [Node.Emit] invokes a node's own listeners,
// [Node.EmitUp] bubbles toward the root and [Node.EmitDown] cascades through
// the subtree. Payloads embed [NodeEvent]; listeners may stop propagation.
//
// # Lifecycle
//
// A new node receives "awake" and then "start" on later microtask flushes,
// once synchronous construction is over. [Node.Destroy] emits "destroy",
// fires the node's destroy signal (which detaches every listener bound to
// the node's lifetime and aborts its coroutines), and destroys the subtree.
//
// # Coroutines
//
// A [Coroutine] suspends by yielding an [Awaitable], usually a [Future]
// returned by [Node.Wait]:
//
//	var blink = repeater.NewCoroutine("blink", func(n *repeater.Node, yield func(repeater.Awaitable) bool) {
//		for yield(n.Wait(repeater.EventFixedUpdate, 30)) {
//			n.SetLocalScale(n.LocalScale().Mul(-1))
//		}
//	})
//	node.StartCoroutine(blink)
//
// Cameras, tweens (via [gween]), physics bodies and the ECS bridge (via
// [Donburi] in repeater/ecs) are built on the same primitives. The
// repeater/metrics plugin exports tick and event counters to Prometheus.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package repeater

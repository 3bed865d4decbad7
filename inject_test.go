package repeater

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestInjectClick(t *testing.T) {
	e, in := newInputEngine(t)
	btn := addButton(e.Root(), "btn", 0, 0, 100, 100)

	var clicked bool
	Listen(btn, EventClick, func(ev *PointerEvent) {
		clicked = true
		if ev.Target != btn {
			t.Error("expected btn as target")
		}
	})

	in.InjectClick(50, 50)
	if in.PendingInjected() != 2 {
		t.Fatalf("expected 2 queued samples, got %d", in.PendingInjected())
	}

	// Step 1: press
	stepN(t, e, 1)
	if in.PendingInjected() != 1 {
		t.Fatalf("expected 1 remaining sample after step 1, got %d", in.PendingInjected())
	}
	if clicked {
		t.Error("click should not fire on press step")
	}

	// Step 2: release, click fires
	stepN(t, e, 1)
	if in.PendingInjected() != 0 {
		t.Fatalf("expected 0 remaining samples after step 2, got %d", in.PendingInjected())
	}
	if !clicked {
		t.Error("click should fire on release step")
	}
}

func TestInjectDrag(t *testing.T) {
	e, in := newInputEngine(t)
	btn := addButton(e.Root(), "btn", 0, 0, 400, 400)

	var events []string
	Listen(btn, EventDragStart, func(*PointerEvent) { events = append(events, "dragstart") })
	Listen(btn, EventDrag, func(*PointerEvent) { events = append(events, "drag") })
	Listen(btn, EventDragEnd, func(*PointerEvent) { events = append(events, "dragend") })

	// press (10,10), moves at 1/4, 2/4, 3/4 of the way, release at (200,200)
	in.InjectDrag(10, 10, 200, 200, 5)
	if in.PendingInjected() != 5 {
		t.Fatalf("expected 5 queued samples, got %d", in.PendingInjected())
	}
	stepN(t, e, 5)

	want := []string{"dragstart", "drag", "drag", "drag", "dragend"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestInjectDrag_MinSteps(t *testing.T) {
	in := NewInputPlugin(nil)
	in.InjectDrag(0, 0, 100, 100, 1)
	if in.PendingInjected() != 2 {
		t.Errorf("expected minimum 2 samples (press + release), got %d", in.PendingInjected())
	}
}

func TestInjectQueueOrder(t *testing.T) {
	in := NewInputPlugin(nil)
	in.InjectPress(1, 2)
	in.InjectMove(3, 4)
	in.InjectHover(5, 6)
	in.InjectRelease(7, 8)

	want := []PointerSample{
		{ScreenX: 1, ScreenY: 2, Pressed: true, Button: MouseButtonLeft},
		{ScreenX: 3, ScreenY: 4, Pressed: true, Button: MouseButtonLeft},
		{ScreenX: 5, ScreenY: 6},
		{ScreenX: 7, ScreenY: 8, Button: MouseButtonLeft},
	}
	if len(in.injected) != len(want) {
		t.Fatalf("queued %d samples, want %d", len(in.injected), len(want))
	}
	for i, w := range want {
		if in.injected[i] != w {
			t.Errorf("sample %d = %+v, want %+v", i, in.injected[i], w)
		}
	}
}

func TestProcessInjected_EmptyQueue(t *testing.T) {
	_, in := newInputEngine(t)
	if in.processInjected() {
		t.Error("processInjected should report false on an empty queue")
	}
}

func TestInjectWithCamera(t *testing.T) {
	e, in := newInputEngine(t)
	cam, err := NewCamera(CameraOptions{Viewport: Rect{Width: 640, Height: 480}, Zoom: 2})
	if err != nil {
		t.Fatal(err)
	}
	cam.SetPosition(mgl64.Vec3{320, 240, 0})
	e.AddCamera(cam)

	btn := addButton(e.Root(), "btn", 295, 215, 50, 50)

	var hit *Node
	Listen(e.Root(), EventPointerDown, func(ev *PointerEvent) { hit = ev.Target })

	// Screen center maps to the camera position.
	in.InjectPress(320, 240)
	stepN(t, e, 1)

	if hit != btn {
		t.Errorf("expected btn hit through the camera, got %v", hit)
	}
}

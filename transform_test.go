package repeater

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// vecNear compares per component with an absolute tolerance. mgl64's
// ApproxEqualThreshold is relative and fails near zero.
func vecNear(got, want mgl64.Vec3, eps float64) bool {
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			return false
		}
	}
	return true
}

// quatNear is vecNear for rotations; q and -q are the same rotation.
func quatNear(got, want mgl64.Quat, eps float64) bool {
	same := math.Abs(got.W-want.W) <= eps && vecNear(got.V, want.V, eps)
	flipped := math.Abs(got.W+want.W) <= eps && vecNear(got.V, want.V.Mul(-1), eps)
	return same || flipped
}

func assertVec(t *testing.T, name string, got, want mgl64.Vec3) {
	t.Helper()
	if !vecNear(got, want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- Local matrix ---

func TestLocalMatrixIdentity(t *testing.T) {
	n := NewNode(Props{})
	if n.LocalMatrix() != mgl64.Ident4() {
		t.Errorf("LocalMatrix = %v, want identity", n.LocalMatrix())
	}
}

func TestLocalMatrixTranslation(t *testing.T) {
	n := NewNode(Props{Position: XYZ(10, 20, 30)})
	assertVec(t, "translation", n.LocalMatrix().Col(3).Vec3(), mgl64.Vec3{10, 20, 30})
}

func TestLocalMatrixRotation90(t *testing.T) {
	n := NewNode(Props{Rotation: XYZ(0, 0, 90)})
	got := n.LocalMatrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	assertVec(t, "rotated x axis", got, mgl64.Vec3{0, 1, 0})
}

func TestLocalMatrixCombined(t *testing.T) {
	// T * R * S: scale first, then rotate, then translate.
	n := NewNode(Props{Position: XYZ(5, 0, 0), Rotation: XYZ(0, 0, 90), Scale: XYZ(2, 2, 2)})
	got := n.LocalMatrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()
	assertVec(t, "combined", got, mgl64.Vec3{5, 2, 0})
}

// --- World matrix ---

func TestWorldPositionChain(t *testing.T) {
	root := NewNode(Props{Position: XYZ(1, 2, 3)})
	a := NewNode(Props{Position: XYZ(10, 0, -1)})
	b := NewNode(Props{Position: XYZ(0.5, 7, 2)})
	root.Add(a)
	a.Add(b)

	want := root.Position().Add(a.LocalPosition()).Add(b.LocalPosition())
	assertVec(t, "b.Position", b.Position(), want)
}

func TestWorldTransformParentChild(t *testing.T) {
	parent := NewNode(Props{Position: XYZ(100, 0, 0)})
	child := NewNode(Props{Position: XYZ(10, 0, 0)})
	parent.Add(child)

	assertNear(t, "parent.x", parent.Position().X(), 100)
	assertNear(t, "child.x", child.Position().X(), 110)
}

func TestParentMovePropagates(t *testing.T) {
	parent := NewNode(Props{Position: XYZ(100, 0, 0)})
	child := NewNode(Props{Position: XYZ(10, 0, 0)})
	parent.Add(child)
	_ = child.WorldMatrix()

	parent.SetLocalPosition(mgl64.Vec3{200, 0, 0})
	assertNear(t, "child.x (from parent)", child.Position().X(), 210)
}

func TestReparentKeepsLocalChangesWorld(t *testing.T) {
	a := NewNode(Props{Position: XYZ(100, 0, 0)})
	b := NewNode(Props{Position: XYZ(0, 50, 0)})
	child := NewNode(Props{Position: XYZ(1, 1, 0)})
	a.Add(child)
	assertVec(t, "under a", child.Position(), mgl64.Vec3{101, 1, 0})

	b.Add(child)
	assertVec(t, "under b", child.Position(), mgl64.Vec3{1, 51, 0})
}

func TestDeepHierarchy(t *testing.T) {
	root := NewNode(Props{})
	cur := root
	for i := 0; i < 50; i++ {
		next := NewNode(Props{Position: XYZ(1, 0, 0)})
		cur.Add(next)
		cur = next
	}
	assertNear(t, "leaf.x", cur.Position().X(), 50)
}

func TestRotatedParent(t *testing.T) {
	parent := NewNode(Props{Rotation: XYZ(0, 0, 90)})
	child := NewNode(Props{Position: XYZ(1, 0, 0)})
	parent.Add(child)
	assertVec(t, "child.Position", child.Position(), mgl64.Vec3{0, 1, 0})
}

// --- World setters ---

func TestSetPositionConvertsToLocal(t *testing.T) {
	parent := NewNode(Props{Position: XYZ(10, 10, 0), Scale: XYZ(2, 2, 2)})
	child := NewNode(Props{})
	parent.Add(child)

	child.SetPosition(mgl64.Vec3{14, 10, 0})
	assertVec(t, "local", child.LocalPosition(), mgl64.Vec3{2, 0, 0})
	assertVec(t, "world", child.Position(), mgl64.Vec3{14, 10, 0})
}

func TestSetPositionAxisKeepsOthers(t *testing.T) {
	parent := NewNode(Props{Position: XYZ(5, 5, 5)})
	child := NewNode(Props{Position: XYZ(1, 2, 3)})
	parent.Add(child)

	child.SetPositionX(0)
	assertVec(t, "after X", child.Position(), mgl64.Vec3{0, 7, 8})
	child.SetPositionY(1)
	assertVec(t, "after Y", child.Position(), mgl64.Vec3{0, 1, 8})
	child.SetPositionZ(-1)
	assertVec(t, "after Z", child.Position(), mgl64.Vec3{0, 1, -1})
	assertVec(t, "local", child.LocalPosition(), mgl64.Vec3{-5, -4, -6})
}

func TestSetLocalAxisSetters(t *testing.T) {
	n := NewNode(Props{Position: XYZ(1, 2, 3)})
	n.SetLocalPositionY(9)
	assertVec(t, "position", n.LocalPosition(), mgl64.Vec3{1, 9, 3})

	n.SetLocalScaleZ(4)
	assertVec(t, "scale", n.LocalScale(), mgl64.Vec3{1, 1, 4})
}

func TestWorldScaleProduct(t *testing.T) {
	parent := NewNode(Props{Scale: XYZ(2, 3, 4)})
	child := NewNode(Props{Scale: XYZ(0.5, 2, 1)})
	parent.Add(child)
	assertVec(t, "Scale", child.Scale(), mgl64.Vec3{1, 6, 4})

	child.SetScaleX(4)
	assertVec(t, "local after SetScaleX", child.LocalScale(), mgl64.Vec3{2, 2, 1})
}

func TestSetScaleZeroParentAxisKeepsLocal(t *testing.T) {
	parent := NewNode(Props{Scale: XYZ(0, 1, 1)})
	child := NewNode(Props{Scale: XYZ(3, 1, 1)})
	parent.Add(child)
	child.SetScale(mgl64.Vec3{5, 5, 5})
	assertVec(t, "local", child.LocalScale(), mgl64.Vec3{3, 5, 5})
}

func TestWorldRotationRoundtrip(t *testing.T) {
	parent := NewNode(Props{Rotation: XYZ(0, 0, 45)})
	child := NewNode(Props{})
	parent.Add(child)

	want := eulerDegToQuat(mgl64.Vec3{0, 0, 90})
	child.SetRotation(want)
	if !quatNear(child.Rotation(), want, 1e-9) {
		t.Errorf("Rotation = %v, want %v", child.Rotation(), want)
	}
	local := eulerDegToQuat(mgl64.Vec3{0, 0, 45})
	if !quatNear(child.LocalRotation(), local, 1e-9) {
		t.Errorf("LocalRotation = %v, want %v", child.LocalRotation(), local)
	}
}

// --- Conversion ---

func TestWorldToLocalRoundtrip(t *testing.T) {
	parent := NewNode(Props{Position: XYZ(100, 50, 0)})
	child := NewNode(Props{Position: XYZ(10, 20, 5), Scale: XYZ(2, 3, 1), Rotation: XYZ(0, 0, 30)})
	parent.Add(child)

	w := mgl64.Vec3{150, 80, 7}
	back := child.LocalToWorld(child.WorldToLocal(w))
	assertVec(t, "roundtrip", back, w)
}

func TestDirectionIgnoresTranslation(t *testing.T) {
	n := NewNode(Props{Position: XYZ(100, 100, 100), Rotation: XYZ(0, 0, 90)})
	assertVec(t, "DirectionToWorld", n.DirectionToWorld(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 1, 0})
	assertVec(t, "DirectionToLocal", n.DirectionToLocal(mgl64.Vec3{0, 1, 0}), mgl64.Vec3{1, 0, 0})
}

func TestLocalSettersEmitSetEvents(t *testing.T) {
	n := NewNode(Props{})
	var fields []string
	for _, f := range []string{FieldLocalPosition, FieldLocalRotation, FieldLocalScale} {
		Listen(n, SetEventName(f), func(e *SetEvent) { fields = append(fields, e.Field) })
	}
	n.SetLocalPositionX(1)
	n.SetLocalRotationEuler(mgl64.Vec3{0, 90, 0})
	n.SetScaleY(2)

	want := []string{FieldLocalPosition, FieldLocalRotation, FieldLocalScale}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, fields[i], want[i])
		}
	}
}

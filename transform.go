package repeater

import "github.com/go-gl/mathgl/mgl64"

// Transform field names, as used in "set(<field>)" events.
const (
	FieldLocalPosition = "localPosition"
	FieldLocalRotation = "localRotation"
	FieldLocalScale    = "localScale"
)

// LocalMatrix returns Translate(localPosition) * Rotate(localRotation) *
// Scale(localScale). The matrix is cached and rebuilt after a local write.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	if n.localDirty {
		p, s := n.localPosition, n.localScale
		n.localMatrix = mgl64.Translate3D(p[0], p[1], p[2]).
			Mul4(n.localRotation.Mat4()).
			Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
		n.localDirty = false
	}
	return n.localMatrix
}

// WorldMatrix returns parent.WorldMatrix * LocalMatrix, with an identity
// parent contribution for a node without a parent.
//
// A root's world matrix is therefore its own local matrix, not identity:
// transforming the root moves the whole tree. A root left at the default
// transform has an identity world matrix.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	if n.worldDirty {
		if n.parent != nil {
			n.worldMatrix = n.parent.WorldMatrix().Mul4(n.LocalMatrix())
		} else {
			n.worldMatrix = n.LocalMatrix()
		}
		n.worldDirty = false
	}
	return n.worldMatrix
}

// parentWorldMatrix is the transform that maps this node's local space
// coordinates (the space localPosition lives in) to world space.
func (n *Node) parentWorldMatrix() mgl64.Mat4 {
	if n.parent != nil {
		return n.parent.WorldMatrix()
	}
	return mgl64.Ident4()
}

// markSubtreeDirty invalidates the cached world matrix of node and all its
// descendants. A dirty node never has a clean descendant, so the walk stops
// at nodes that are already dirty.
func markSubtreeDirty(node *Node) {
	if node.worldDirty {
		return
	}
	node.worldDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

func (n *Node) localChanged() {
	n.localDirty = true
	markSubtreeDirty(n)
}

// --- Local space ---

// LocalPosition returns the position relative to the parent.
func (n *Node) LocalPosition() mgl64.Vec3 {
	return n.localPosition
}

// SetLocalPosition sets the position relative to the parent. Emits
// "set(localPosition)" before the change.
func (n *Node) SetLocalPosition(p mgl64.Vec3) {
	n.Emit(SetEventName(FieldLocalPosition), &SetEvent{Field: FieldLocalPosition, Value: p, Previous: n.localPosition})
	n.localPosition = p
	n.localChanged()
}

// SetLocalPositionX sets one component of the local position.
func (n *Node) SetLocalPositionX(x float64) {
	p := n.localPosition
	p[0] = x
	n.SetLocalPosition(p)
}

// SetLocalPositionY sets one component of the local position.
func (n *Node) SetLocalPositionY(y float64) {
	p := n.localPosition
	p[1] = y
	n.SetLocalPosition(p)
}

// SetLocalPositionZ sets one component of the local position.
func (n *Node) SetLocalPositionZ(z float64) {
	p := n.localPosition
	p[2] = z
	n.SetLocalPosition(p)
}

// LocalRotation returns the rotation relative to the parent.
func (n *Node) LocalRotation() mgl64.Quat {
	return n.localRotation
}

// SetLocalRotation sets the rotation relative to the parent. Emits
// "set(localRotation)" before the change.
func (n *Node) SetLocalRotation(q mgl64.Quat) {
	n.Emit(SetEventName(FieldLocalRotation), &SetEvent{Field: FieldLocalRotation, Value: q, Previous: n.localRotation})
	n.localRotation = q.Normalize()
	n.localChanged()
}

// SetLocalRotationEuler sets the local rotation from XYZ Euler angles in degrees.
func (n *Node) SetLocalRotationEuler(deg mgl64.Vec3) {
	n.SetLocalRotation(eulerDegToQuat(deg))
}

// LocalScale returns the scale relative to the parent.
func (n *Node) LocalScale() mgl64.Vec3 {
	return n.localScale
}

// SetLocalScale sets the scale relative to the parent. Emits
// "set(localScale)" before the change.
func (n *Node) SetLocalScale(s mgl64.Vec3) {
	n.Emit(SetEventName(FieldLocalScale), &SetEvent{Field: FieldLocalScale, Value: s, Previous: n.localScale})
	n.localScale = s
	n.localChanged()
}

// SetLocalScaleX sets one component of the local scale.
func (n *Node) SetLocalScaleX(x float64) {
	s := n.localScale
	s[0] = x
	n.SetLocalScale(s)
}

// SetLocalScaleY sets one component of the local scale.
func (n *Node) SetLocalScaleY(y float64) {
	s := n.localScale
	s[1] = y
	n.SetLocalScale(s)
}

// SetLocalScaleZ sets one component of the local scale.
func (n *Node) SetLocalScaleZ(z float64) {
	s := n.localScale
	s[2] = z
	n.SetLocalScale(s)
}

// --- World space ---

// Position returns the node's origin in world space.
func (n *Node) Position() mgl64.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// SetPosition places the node's origin at p in world space. The value is
// converted through the inverse of the parent's world matrix and stored as
// the local position.
func (n *Node) SetPosition(p mgl64.Vec3) {
	local := n.parentWorldMatrix().Inv().Mul4x1(p.Vec4(1)).Vec3()
	n.SetLocalPosition(local)
}

// SetPositionX sets one world-space component and keeps the other two.
// It goes through SetPosition, so the local position is recomputed.
func (n *Node) SetPositionX(x float64) {
	p := n.Position()
	p[0] = x
	n.SetPosition(p)
}

// SetPositionY sets one world-space component and keeps the other two.
func (n *Node) SetPositionY(y float64) {
	p := n.Position()
	p[1] = y
	n.SetPosition(p)
}

// SetPositionZ sets one world-space component and keeps the other two.
func (n *Node) SetPositionZ(z float64) {
	p := n.Position()
	p[2] = z
	n.SetPosition(p)
}

// Rotation returns the world rotation: the product of the ancestors' local
// rotations and this node's.
func (n *Node) Rotation() mgl64.Quat {
	if n.parent == nil {
		return n.localRotation
	}
	return n.parent.Rotation().Mul(n.localRotation).Normalize()
}

// SetRotation sets the world rotation, storing parentRotation⁻¹ * q locally.
func (n *Node) SetRotation(q mgl64.Quat) {
	if n.parent == nil {
		n.SetLocalRotation(q)
		return
	}
	n.SetLocalRotation(n.parent.Rotation().Inverse().Mul(q))
}

// SetRotationEuler sets the world rotation from XYZ Euler angles in degrees.
func (n *Node) SetRotationEuler(deg mgl64.Vec3) {
	n.SetRotation(eulerDegToQuat(deg))
}

// Scale returns the world scale as the component-wise product of the
// ancestors' local scales and this node's. Shear introduced by rotated
// non-uniform parents is not represented.
func (n *Node) Scale() mgl64.Vec3 {
	if n.parent == nil {
		return n.localScale
	}
	ps := n.parent.Scale()
	s := n.localScale
	return mgl64.Vec3{ps[0] * s[0], ps[1] * s[1], ps[2] * s[2]}
}

// SetScale sets the world scale. Axes on which the parent's world scale is
// zero keep their local value.
func (n *Node) SetScale(s mgl64.Vec3) {
	if n.parent == nil {
		n.SetLocalScale(s)
		return
	}
	ps := n.parent.Scale()
	local := n.localScale
	for i := 0; i < 3; i++ {
		if ps[i] != 0 {
			local[i] = s[i] / ps[i]
		}
	}
	n.SetLocalScale(local)
}

// SetScaleX sets one world-space scale component through SetScale.
func (n *Node) SetScaleX(x float64) {
	s := n.Scale()
	s[0] = x
	n.SetScale(s)
}

// SetScaleY sets one world-space scale component through SetScale.
func (n *Node) SetScaleY(y float64) {
	s := n.Scale()
	s[1] = y
	n.SetScale(s)
}

// SetScaleZ sets one world-space scale component through SetScale.
func (n *Node) SetScaleZ(z float64) {
	s := n.Scale()
	s[2] = z
	n.SetScale(s)
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in this node's space to world space.
func (n *Node) LocalToWorld(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

// WorldToLocal converts a world-space point to this node's space.
func (n *Node) WorldToLocal(p mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// DirectionToWorld converts a direction in this node's space to world space.
// Translation does not apply; rotation and scale do.
func (n *Node) DirectionToWorld(v mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Mul4x1(v.Vec4(0)).Vec3()
}

// DirectionToLocal converts a world-space direction to this node's space.
func (n *Node) DirectionToLocal(v mgl64.Vec3) mgl64.Vec3 {
	return n.WorldMatrix().Inv().Mul4x1(v.Vec4(0)).Vec3()
}

func eulerDegToQuat(deg mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(deg[0]),
		mgl64.DegToRad(deg[1]),
		mgl64.DegToRad(deg[2]),
		mgl64.XYZ,
	)
}

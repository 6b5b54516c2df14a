package physics

import "fmt"

// IDKind tags which handle namespace an EntityID refers to
type IDKind uint8

const (
	IDCollider IDKind = iota + 1
	IDRigidBody
)

// EntityID keys the registrar: a collider or a rigid body handle
type EntityID struct {
	Kind   IDKind
	Handle Handle
}

func ColliderID(h ColliderHandle) EntityID { return EntityID{Kind: IDCollider, Handle: Handle(h)} }
func BodyID(h BodyHandle) EntityID         { return EntityID{Kind: IDRigidBody, Handle: Handle(h)} }

func (id EntityID) String() string {
	switch id.Kind {
	case IDCollider:
		return ColliderHandle(id.Handle).String()
	case IDRigidBody:
		return BodyHandle(id.Handle).String()
	}
	return fmt.Sprintf("id(%d:%s)", id.Kind, id.Handle)
}

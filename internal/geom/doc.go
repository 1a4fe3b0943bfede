// Package geom provides the 2D vector type shared by the physics packages.
//
// [Vec2] is a defined type over mgl64.Vec2, so every mathgl helper is one
// conversion away, while the methods here keep the degenerate cases total:
//
//   - [Vec2.Normalize] returns the zero vector for a zero-length input
//   - [Vec2.Perp] rotates by +90°, which is how edge normals are derived
//   - [Vec2.Rotate] applies a rotation in radians via mgl64.Rotate2D
//
// All operations return new values; a Vec2 is never mutated in place.
package geom

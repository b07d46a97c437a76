package physics

// Lightweight 2D kinematics shared by the world simulation. Coordinates grow
// right and down: negative Y velocity moves a body up.

// Body is anything the integrator can advance: a position and a velocity.
type Body interface {
	Position() Vec2
	Velocity() Vec2
	SetPosition(Vec2)
	SetVelocity(Vec2)
}

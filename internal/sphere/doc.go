// Package sphere is the geometry kernel for points on a knob surface.
//
// Angle convention: the polar angle is measured from the +z axis, which is
// the apex of the knob. The knob base lies on the z=0 equator (polar = π/2).
// The azimuth runs over [0, 2π) in the x-y plane starting at +x.
//
//	x = R sin(polar) cos(azimuth)
//	y = R sin(polar) sin(azimuth)
//	z = R cos(polar)
//
// A Point carries no radius. Callers pair it with the radius of the knob it
// was placed on; mixing radii is a logic error.
package sphere

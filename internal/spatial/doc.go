// Package spatial provides the 6-DOF algebra used by the rigid-body core.
//
// Motion and force quantities are paired 3-vectors built on mgl64:
//
//   - [Twist]: spatial velocity or acceleration (angular, linear)
//   - [Wrench]: spatial force (torque, force)
//   - [Pose]: rigid transform (position, unit quaternion)
//   - [Inertia]: mass distribution of one body, diagonal in its principal frame
//
// # Conventions
//
// A [Twist] pairs an angular velocity with the linear velocity of the frame
// origin. The spatial force cross product used for bias terms is
//
//	v ×* f = (ω×n + v×f, ω×f)
//
// [Exp] maps a screw displacement expressed about the frame origin to a finite
// [Pose]; callers must renormalise orientations after composing increments.
package spatial

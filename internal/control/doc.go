// Package control turns vehicle state and a waypoint track into curvature
// and speed commands.
//
// The pure pursuit controller projects the vehicle position forward along
// its velocity, finds the nearest track segment from that point, walks a
// fixed look-ahead distance along the track and steers toward the result.
// Key types: Controller, Config, ControlOutput.
//
// A Controller mutates the progress state of the Track bound to it, so one
// Track should drive one Controller at a time.
package control

// Package track owns the waypoint polyline a vehicle follows.
//
// Responsibilities: closest-segment lookup with forward-only progress,
// completion detection, look-ahead walking along the polyline, and
// generators for common test shapes.
// Key types: Track.
//
// Dependency rule: track depends only on geom. It never imports the
// vehicle or control packages.
package track

// Package sim runs the closed loop between a control.Controller and a
// vehicle.BicycleModel on a track.Track.
//
// Responsibilities:
//   - derive a step budget from track length, target speed and timeout factor
//   - alternate Control and Step, recording every state and command
//   - stop when the track reports completion or the budget runs out
//
// Key types: Runner, Config, Result, Summary.
//
// Dependency rule: sim depends on control, vehicle and track; nothing in
// those packages depends on sim.
package sim

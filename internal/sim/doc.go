// Package sim provides the core build/finalize/step primitives for
// particle-spring simulation:
//
//   - [Builder]: mutable authoring surface accumulating particles,
//     springs, bodies and joints with stable declaration-order indices
//   - [Model]: immutable, flattened, device-bound scene description
//     produced by [Builder.Finalize]
//   - [State]: mutable per-step dynamic quantities paired with a Model
//
// # Example
//
//	b := sim.NewBuilder()
//	anchor := b.AddParticle(sim.Vec3{}, sim.Vec3{}, 0)
//	bob := b.AddParticle(sim.Vec3{Y: -1}, sim.Vec3{}, 1.0)
//	b.AddSpring(anchor, bob, 1000, 0.5, sim.SpringPassive)
//	model, err := b.Finalize("cpu")
//
// # Ownership
//
// A Model is read-only after finalize and may be shared by any number
// of States. A State has a single writer: the loop that steps it.
package sim

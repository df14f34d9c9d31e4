// Package solver advances simulation States in time.
//
//   - [SemiImplicit]: symplectic Euler, the default for spring-mass
//     scenes
//   - [ExplicitEuler]: classic forward Euler, for comparison runs
//   - [Session]: caller loop helper with double-buffered state swap,
//     metrics and observers
//
// A step evaluates spring forces, applies gravity to particles with
// mass > 0, integrates velocity and then position. Zero-mass anchors
// never move. Within one step all force accumulation completes before
// any velocity integration begins.
//
// # Example
//
//	model, _ := builder.Finalize("cpu")
//	slv := solver.NewSemiImplicit()
//	in, out := model.State(), model.State()
//	for i := 0; i < 100; i++ {
//		slv.Step(model, in, out, dt)
//		in, out = out, in
//	}
package solver

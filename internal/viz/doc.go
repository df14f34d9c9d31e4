// Package viz consumes simulation states through the frame-loop
// contract: BeginFrame / Render / EndFrame bracket read-only
// observation of a State between steps.
//
//   - [Renderer]: the contract implemented by all consumers
//   - [CanvasRenderer]: braille-canvas drawing of particles and springs
//   - [Live]: interactive bubbletea view with pause and reset
package viz

// Package compute provides hardware execution backends for the
// per-step spring force and integration kernels.
//
// Backends are resolved by device name at finalize time:
//
//	backend, ok := compute.Lookup("cpu")
//
// The "auto" name (or empty string) selects CUDA when the binary was
// built with the cuda tag and a device is present, else CPU.
//
// # Determinism
//
// Backends must be bit-reproducible for a fixed input on the same
// device class. The CPU backend accumulates spring forces into
// per-worker buffers and reduces them in worker order rather than
// racing on shared accumulators.
package compute

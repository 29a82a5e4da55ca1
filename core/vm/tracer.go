package vm

// Tracer observes execution one step at a time, e.g. to emit an EIP-3155
// structured-log line per opcode. The interpreter calls CaptureState before
// executing each opcode; a nil Evm.Tracer disables tracing entirely at
// effectively zero cost (one nil check per step).
type Tracer interface {
	CaptureState(pc uint64, op OpCode, gas uint64, fr *Frame)
}

// NoopTracer implements Tracer and does nothing; it exists so callers that
// want to swap tracers at runtime never need a nil check of their own.
type NoopTracer struct{}

func (NoopTracer) CaptureState(pc uint64, op OpCode, gas uint64, fr *Frame) {}

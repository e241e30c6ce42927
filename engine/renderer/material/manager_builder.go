package material

import "github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"

type ManagerBuilderOption func(*manager)

// WithCompiler sets the function used to compile template programs. Defaults to shader.CompileGL.
//
// Parameters:
//   - compiler: the program compiler
//
// Returns:
//   - ManagerBuilderOption: a function that sets the manager's compiler
func WithCompiler(compiler shader.Compiler) ManagerBuilderOption {
	return func(m *manager) {
		m.compiler = compiler
	}
}

// WithChunkLength sets the number of instance slots per chunk for templates loaded afterwards.
// Non-positive values are ignored.
//
// Parameters:
//   - n: slots per chunk
//
// Returns:
//   - ManagerBuilderOption: a function that sets the instance chunk length
func WithChunkLength(n int) ManagerBuilderOption {
	return func(m *manager) {
		if n > 0 {
			m.chunkLength = n
		}
	}
}

// WithWorkers sets how many documents PreloadTemplates reads in parallel.
// Non-positive values are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ManagerBuilderOption: a function that sets the preload worker count
func WithWorkers(n int) ManagerBuilderOption {
	return func(m *manager) {
		if n > 0 {
			m.workers = n
		}
	}
}

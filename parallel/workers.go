package parallel

import "runtime"
import "sync/atomic"

import "github.com/klauspost/cpuid/v2"

var workers atomic.Int32

// Workers reports how many goroutines the kernels split their work into.
// Defaults to the number of physical cores, bounded by GOMAXPROCS.
func Workers() int {
	if n := workers.Load(); n > 0 {
		return int(n)
	}
	n := cpuid.CPU.PhysicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if p := runtime.GOMAXPROCS(0); n > p {
		n = p
	}
	if n <= 0 {
		n = 1
	}
	return n
}

// SetWorkers overrides the worker count. Zero or less restores the default.
func SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	workers.Store(int32(n))
}

// Features lists the vector extensions of the CPU relevant for dense kernels.
func Features() []string {
	var out []string
	for _, f := range []struct {
		id   cpuid.FeatureID
		name string
	}{
		{cpuid.SSE2, "sse2"},
		{cpuid.AVX, "avx"},
		{cpuid.AVX2, "avx2"},
		{cpuid.FMA3, "fma3"},
		{cpuid.AVX512F, "avx512f"},
		{cpuid.ASIMD, "asimd"},
	} {
		if cpuid.CPU.Supports(f.id) {
			out = append(out, f.name)
		}
	}
	return out
}

// CPUName reports the brand string of the processor.
func CPUName() string {
	return cpuid.CPU.BrandName
}

// Package llama adapts go-llama.cpp to the lifecycle Loader interface.
//
// The real adapter requires CGO and the llama.cpp static libraries, so it
// is gated behind the 'llama' build tag; without the tag a stub is compiled
// that reports the dependency as unavailable. Both variants export the same
// Loader type so callers never branch on the tag themselves.
//
//	Built() reports which variant this binary carries.
package llama

// Built reports whether real llama.cpp support was compiled in.
func Built() bool { return built }

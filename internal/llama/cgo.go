//go:build llama

package llama

// cgo link directives for the in-process adapter.
// - rpath $ORIGIN lets the runtime loader find libllama.so and libggml*.so
//   next to the built binary (./bin).
// - -L${SRCDIR}/../../bin lets the linker find libllama.so at link time.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"

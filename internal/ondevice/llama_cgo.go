//go:build llama

package ondevice

// cgo link directives for the in-process llama runtime. libllama.so and
// libggml*.so are expected next to the binary ($ORIGIN) and under ./bin at
// link time.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../bin -lllama
*/
import "C"

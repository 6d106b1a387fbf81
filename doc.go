// Package modeltea provides a Go implementation of the ModelTea block library.
//
// The library is a set of small stateful computation units ("blocks") that
// operate over a closed set of primitive data kinds, plus the runtime layer
// that lets a caller who only knows a block's name and a kind construct,
// drive and tear down the correctly typed block behind one non-generic
// interface.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	modeltea/          Root package with the Memory interface used by boundary codecs
//	├── kind/          Closed data-kind catalog: widths, categories, WIT mapping
//	├── value/         Type-erased values validated on every typed access
//	├── block/         Block contract and the concrete generic blocks
//	├── catalog/       Block family descriptors and the name+kind factory
//	├── errors/        Structured error types
//	├── resource/      Handle table owning boundary blocks
//	├── ffi/           Flat, handle based function set for foreign callers
//	├── wasmhost/      The ffi function set exported to WebAssembly guests
//	├── scenario/      YAML block drive scripts and their runner
//	└── cmd/mtea/      Command line front end
//
// # Quick Start
//
// Create and drive a block by name:
//
//	cat := catalog.Build()
//
//	blk, err := cat.Create("add", []kind.Kind{kind.F64}, value.Of(int32(3)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = blk.SetInput(0, value.Of(1.0))
//	_ = blk.SetInput(1, value.Of(2.0))
//	_ = blk.SetInput(2, value.Of(3.0))
//	blk.Step()
//
//	out, _ := block.Output(blk, 0)
//	fmt.Println(out) // 6
//
// # Data Kinds
//
// Every value that enters or leaves a block carries one of the kinds below:
//
//   - Logical: bool
//   - Integral: u8, s8, u16, s16, u32, s32, u64, s64
//   - Floating: f32, f64
//
// A value read under the wrong kind, or with a byte width that disagrees with
// its kind, is rejected with a kind mismatch error. Nothing is coerced silently.
//
// # Foreign Callers
//
// Callers without access to Go generics use the ffi package, which wraps
// blocks in opaque handles and re-validates kind and byte size on every value
// crossing. The wasmhost package exports the same function set to
// WebAssembly guests through wazero.
//
// # Thread Safety
//
// Catalogs are immutable once built and safe for concurrent use. Blocks are
// NOT thread-safe: a single block must be driven by one goroutine at a time.
// Distinct blocks share no state and may be driven concurrently.
package modeltea

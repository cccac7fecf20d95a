// Package qoi implements an encoder and decoder for the QOI ("Quite OK
// Image") lossless raster format.
//
// The format stores 8-bit-per-channel RGB or RGBA pixels, row-major,
// top-left origin, as a stream of variable-length opcodes following a
// 14-byte header and terminated by an 8-byte end-marker. Encoding and
// decoding are single-pass and are safe to run concurrently across
// distinct images. Besides the output buffer, they allocate small
// buffers for the header, opcode scratch space and stream I/O.
//
// The package registers itself with the standard library's image
// package, so image.Decode and image.DecodeConfig transparently handle
// ".qoi" files once this package is imported for its side effects.
package qoi

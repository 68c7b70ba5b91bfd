// Package surface implements the rotated surface code: plaquette layout
// generation, encoding-circuit emission, and measurement-record decoding.
//
// # Architecture
//
// The package has three cooperating parts, in generation-then-consumption
// order:
//
//  1. Lattice: a pure function of the code distance d producing the ordered
//     X- and Z-plaquette collections and the four boundary logical-operator
//     supports. Plaquette index is stabilizer identity; circuit emission and
//     decoding both consume the same ordered collections.
//  2. Code: emits, against the pkg/circuit builder, the initialization,
//     repeated syndrome-extraction rounds, and final transversal readout for
//     both logical basis states "0" and "1" side by side.
//  3. Decoder: converts a single measurement-shot string into raw logical
//     values, a detection record, and the flat list of graph nodes a
//     matching-based decoder consumes.
//
// # Wire format
//
// A shot string is space-separated ASCII fields in reverse
// register-addition order:
//
//	final_code_readout round_{T-1}_x round_{T-1}_z ... round_0_x round_0_z
//
// and bit order within each field is the reverse of the qubit/ancilla
// index. Decoding correctness depends on this exact ordering; pkg/sim
// produces it and Decoder inverts it on read.
//
// # Concurrency
//
// Lattice and Decoder are immutable after construction and safe for
// concurrent use; decoding a batch of shots may run shots in parallel with
// no coordination. Code accumulates per-round classical registers and is
// not safe for concurrent use.
package surface

package surface

// Node is one vertex of the fault graph a matching-based decoder consumes.
//
// Bulk nodes represent a detected parity flip of stabilizer Element at
// round Time and carry that stabilizer's present-qubit support. Boundary
// nodes represent one of the two redundant boundary measurements of the
// prepared logical operator; they always carry Time = 0 and Element 0 or 1.
//
// Node identity is (Time, IsBoundary, Element); no two nodes share identity
// within one decoded shot.
type Node struct {
	Time       int     `json:"time" bson:"time"`
	Qubits     []Qubit `json:"qubits" bson:"qubits"`
	IsBoundary bool    `json:"is_boundary" bson:"is_boundary"`
	Element    int     `json:"element" bson:"element"`
}

package symmetry

// Database is the symmetry-operation store consulted in space-group mode.
type Database interface {
	// SpaceGroupSymbol returns the Hermann-Mauguin symbol of a space group
	// number in 1..230.
	SpaceGroupSymbol(number int) (string, error)

	// SpaceGroupNumber returns the International Tables number of a symbol.
	SpaceGroupNumber(symbol string) (int, error)

	// PointGroupOperations returns the point-group operations of a space
	// group in a stable enumeration order.
	PointGroupOperations(symbol string) ([]Matrix, error)
}

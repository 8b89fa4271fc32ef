// Package symdb is an in-memory crystallographic symmetry database. It maps
// International Tables space-group numbers to Hermann-Mauguin symbols and
// enumerates the point-group operations of each space group.
package symdb

import (
	"fmt"
	"strings"
	"sync"

	"symbinmd/internal/models"
	"symbinmd/pkg/symmetry"
)

// Database implements symmetry.Database over the built-in tables.
type Database struct {
	bySymbol map[string]int

	mu    sync.Mutex
	cache map[string][]symmetry.Matrix
}

var _ symmetry.Database = (*Database)(nil)

// New builds the symbol index.
func New() *Database {
	db := &Database{
		bySymbol: make(map[string]int, len(hermannMauguin)),
		cache:    make(map[string][]symmetry.Matrix),
	}
	for i, s := range hermannMauguin {
		db.bySymbol[normalize(s)] = i + 1
	}
	return db
}

// SpaceGroupSymbol returns the short Hermann-Mauguin symbol of a space group.
func (db *Database) SpaceGroupSymbol(number int) (string, error) {
	if number < 1 || number > len(hermannMauguin) {
		return "", fmt.Errorf("%w: no space group with number %d", models.ErrSymmetryLookup, number)
	}
	return hermannMauguin[number-1], nil
}

// SpaceGroupNumber returns the number of a symbol. Spacing is ignored, so
// "P213" and "P 21 3" are the same group.
func (db *Database) SpaceGroupNumber(symbol string) (int, error) {
	n, ok := db.bySymbol[normalize(symbol)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown space group symbol %q", models.ErrSymmetryLookup, symbol)
	}
	return n, nil
}

// PointGroupSymbol returns the crystal class of a space group.
func (db *Database) PointGroupSymbol(number int) (string, error) {
	class, ok := classOf(number)
	if !ok {
		return "", fmt.Errorf("%w: no point group for space group %d", models.ErrSymmetryLookup, number)
	}
	return class, nil
}

// PointGroupOperations returns the point-group operations of a space group,
// identity first, in closure order.
func (db *Database) PointGroupOperations(symbol string) ([]symmetry.Matrix, error) {
	number, err := db.SpaceGroupNumber(symbol)
	if err != nil {
		return nil, err
	}
	class, err := db.PointGroupSymbol(number)
	if err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	ops, ok := db.cache[class]
	if !ok {
		ops, err = generate(class)
		if err != nil {
			return nil, err
		}
		db.cache[class] = ops
	}
	return append([]symmetry.Matrix(nil), ops...), nil
}

// generate closes the generators of a point group under composition.
func generate(class string) ([]symmetry.Matrix, error) {
	pg, ok := pointGroups[class]
	if !ok {
		return nil, fmt.Errorf("%w: point group %q is not registered", models.ErrSymmetryLookup, class)
	}

	gens := make([]symmetry.Matrix, len(pg.generators))
	for i, g := range pg.generators {
		m, err := symmetry.ParseTriplet(g)
		if err != nil {
			return nil, fmt.Errorf("point group %s generator %d: %w", class, i, err)
		}
		gens[i] = m
	}

	group := []symmetry.Matrix{symmetry.Identity}
	seen := map[symmetry.Matrix]bool{symmetry.Identity: true}
	for i := 0; i < len(group); i++ {
		for _, g := range gens {
			p := group[i].Mul(g)
			if !seen[p] {
				seen[p] = true
				group = append(group, p)
			}
		}
	}

	if len(group) != pg.order {
		return nil, fmt.Errorf("%w: point group %s closed to %d operations, expected %d",
			models.ErrSymmetryLookup, class, len(group), pg.order)
	}
	return group, nil
}

func normalize(symbol string) string {
	return strings.Join(strings.Fields(symbol), "")
}

package pipeline

import (
	"fmt"

	"github.com/Pro7ech/ntt2x2/utils"
)

// CoefficientStore is a banked memory of Rows() rows of [Banks]
// coefficients. Each row access touches every bank exactly once.
type CoefficientStore interface {
	Rows() int
	ReadRow(addr int) [Banks]uint64
	WriteRow(addr int, row [Banks]uint64)
}

// BankedStore is an in-memory [CoefficientStore].
type BankedStore struct {
	rows [][Banks]uint64
}

// NewBankedStore allocates a zero [BankedStore] of the given number of rows,
// which must be a power of two.
func NewBankedStore(rows int) *BankedStore {
	if !utils.IsPow2(rows) {
		panic(fmt.Errorf("cannot NewBankedStore: rows=%d is not a power of two", rows))
	}
	return &BankedStore{rows: make([][Banks]uint64, rows)}
}

// Rows returns the number of rows of the store.
func (s *BankedStore) Rows() int {
	return len(s.rows)
}

// ReadRow returns the row at physical address addr.
func (s *BankedStore) ReadRow(addr int) [Banks]uint64 {
	return s.rows[addr]
}

// WriteRow overwrites the row at physical address addr.
func (s *BankedStore) WriteRow(addr int, row [Banks]uint64) {
	s.rows[addr] = row
}

// Load distributes the coefficients of pol on the banks: coefficient x
// goes to bank x/Rows() at logical row x%Rows(), placed according to layout.
func (s *BankedStore) Load(pol []uint64, layout Layout) {

	R := len(s.rows)

	// Sanity check
	if len(pol) != Banks*R {
		panic(fmt.Errorf("cannot Load: len(pol)=%d != %d", len(pol), Banks*R))
	}

	logR := utils.Log2(uint64(R))
	for x, c := range pol {
		s.rows[layout.Resolve(x&(R-1), logR)][x>>logR] = c
	}
}

// Unload is the inverse of [BankedStore.Load].
func (s *BankedStore) Unload(pol []uint64, layout Layout) {

	R := len(s.rows)

	// Sanity check
	if len(pol) != Banks*R {
		panic(fmt.Errorf("cannot Unload: len(pol)=%d != %d", len(pol), Banks*R))
	}

	logR := utils.Log2(uint64(R))
	for x := range pol {
		pol[x] = s.rows[layout.Resolve(x&(R-1), logR)][x>>logR]
	}
}

// CopyNew returns a deep copy of the receiver.
func (s *BankedStore) CopyNew() *BankedStore {
	return &BankedStore{rows: append([][Banks]uint64(nil), s.rows...)}
}

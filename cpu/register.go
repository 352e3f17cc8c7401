package cpu

import (
	"iter"
)

const (
	REGISTER_COUNT = 32 // Number of integer registers, x0..x31.
)

// RegisterFile is the RV32I integer register bank.
type RegisterFile [REGISTER_COUNT]int32

// Valid returns true if index names a register in the file.
func Valid(index int) bool {
	return index >= 0 && index < REGISTER_COUNT
}

// Get reads a register.
func (rf *RegisterFile) Get(index int) (value int32, err error) {
	if !Valid(index) {
		err = ErrRegisterRange(index)
		return
	}

	value = rf[index]
	return
}

// Set writes a register.
func (rf *RegisterFile) Set(index int, value int32) (err error) {
	if !Valid(index) {
		err = ErrRegisterRange(index)
		return
	}

	rf[index] = value
	return
}

// Reset zeros all registers.
func (rf *RegisterFile) Reset() {
	clear(rf[:])
}

// All iterates over the registers in ascending index order.
func (rf *RegisterFile) All() iter.Seq2[int, int32] {
	return func(yield func(index int, value int32) bool) {
		for n, value := range rf {
			if !yield(n, value) {
				return
			}
		}
	}
}

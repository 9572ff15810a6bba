package fee

import (
	"fmt"
	"math/bits"

	"soulboard/internal/core/domain"
)

func mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d overflows", domain.ErrCalculation, a, b)
	}
	return lo, nil
}

func add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %d + %d overflows", domain.ErrCalculation, a, b)
	}
	return sum, nil
}

// sub reports underflow with the supplied sentinel so callers can tell a
// short budget apart from an arithmetic fault.
func sub(a, b uint64, underflow error) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, fmt.Errorf("%w: %d - %d underflows", underflow, a, b)
	}
	return diff, nil
}

// mulDiv returns floor(a*b/c) or an error when a*b does not fit in 64 bits.
func mulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, fmt.Errorf("%w: division by zero", domain.ErrCalculation)
	}
	p, err := mul(a, b)
	if err != nil {
		return 0, err
	}
	return p / c, nil
}

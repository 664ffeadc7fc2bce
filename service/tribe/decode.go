package tribe

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pandodao/rewardtribe/core"
)

// decoder reads typed values out of unpacked ABI outputs. The first mismatch
// is kept in err and later calls return zero values.
type decoder struct {
	method string
	out    []any
	err    error
}

func (d *decoder) value(i int) (any, bool) {
	if d.err != nil {
		return nil, false
	}

	if i >= len(d.out) {
		d.err = fmt.Errorf("%w: %s: missing output %d of %d", core.ErrDecode, d.method, i, len(d.out))
		return nil, false
	}

	return d.out[i], true
}

func (d *decoder) mismatch(i int, want string, got any) {
	d.err = fmt.Errorf("%w: %s: output %d is %T, want %s", core.ErrDecode, d.method, i, got, want)
}

func (d *decoder) string(i int) string {
	v, ok := d.value(i)
	if !ok {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		d.mismatch(i, "string", v)
	}

	return s
}

func (d *decoder) bool(i int) bool {
	v, ok := d.value(i)
	if !ok {
		return false
	}

	b, ok := v.(bool)
	if !ok {
		d.mismatch(i, "bool", v)
	}

	return b
}

func (d *decoder) address(i int) common.Address {
	v, ok := d.value(i)
	if !ok {
		return common.Address{}
	}

	a, ok := v.(common.Address)
	if !ok {
		d.mismatch(i, "address", v)
	}

	return a
}

func (d *decoder) bigInt(i int) *big.Int {
	v, ok := d.value(i)
	if !ok {
		return nil
	}

	n, ok := v.(*big.Int)
	if !ok || n == nil {
		d.mismatch(i, "uint256", v)
		return nil
	}

	return n
}

func (d *decoder) uint64(i int) uint64 {
	n := d.bigInt(i)
	if n == nil {
		return 0
	}

	if !n.IsUint64() {
		d.err = fmt.Errorf("%w: %s: output %d value %s overflows uint64", core.ErrDecode, d.method, i, n)
		return 0
	}

	return n.Uint64()
}

func (d *decoder) bigInts(i int) []*big.Int {
	v, ok := d.value(i)
	if !ok {
		return nil
	}

	list, ok := v.([]*big.Int)
	if !ok {
		d.mismatch(i, "uint256[]", v)
	}

	return list
}

func (d *decoder) addresses(i int) []common.Address {
	v, ok := d.value(i)
	if !ok {
		return nil
	}

	list, ok := v.([]common.Address)
	if !ok {
		d.mismatch(i, "address[]", v)
	}

	return list
}

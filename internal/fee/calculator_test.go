package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeWithFixedFee(t *testing.T) {
	fixed := dec("100")

	fee, net := Compute(dec("10000"), dec("0.0300"), &fixed)

	assert.True(t, fee.Equal(dec("400")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("9600")), "net = %s", net)
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// 1111 * 0.0235 = 26.1085 -> 26
	fee, net := Compute(dec("1111"), dec("0.0235"), nil)

	assert.True(t, fee.Equal(dec("26")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("1085")), "net = %s", net)

	// 1000 * 0.0305 = 30.5 -> 31
	fee, net = Compute(dec("1000"), dec("0.0305"), nil)

	assert.True(t, fee.Equal(dec("31")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("969")), "net = %s", net)
}

func TestComputeZeroRateNoFixedFee(t *testing.T) {
	fee, net := Compute(dec("5000"), decimal.Zero, nil)

	assert.True(t, fee.IsZero())
	assert.True(t, net.Equal(dec("5000")))
}

func TestComputeDeterministic(t *testing.T) {
	fixed := dec("50")
	for i := 0; i < 10; i++ {
		fee, net := Compute(dec("12345"), dec("0.0250"), &fixed)
		assert.True(t, fee.Equal(dec("359")), "fee = %s", fee)
		assert.True(t, net.Equal(dec("11986")), "net = %s", net)
	}
}

func TestComputeDoesNotClampNegativeNet(t *testing.T) {
	fixed := dec("200")

	fee, net := Compute(dec("100"), dec("0.0300"), &fixed)

	assert.True(t, fee.Equal(dec("203")), "fee = %s", fee)
	assert.True(t, net.Equal(dec("-103")), "net = %s", net)
}

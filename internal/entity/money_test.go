package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetPay(t *testing.T) {
	// 60000 × (1 − 2/100) = 58800
	assert.Equal(t, int64(58800), NetPay(60000, 2.0))
	// Hendaya runs 2.5%
	assert.Equal(t, int64(97500), NetPay(100000, 2.5))
	assert.Equal(t, int64(0), NetPay(0, 2.0))
}

func TestNetPayRounds(t *testing.T) {
	// 99 × 0.98 = 97.02 → 97
	assert.Equal(t, int64(97), NetPay(99, 2.0))
	// 101 × 0.975 = 98.475 → 98
	assert.Equal(t, int64(98), NetPay(101, 2.5))
}

func TestCommissionAmount(t *testing.T) {
	assert.Equal(t, int64(1200), CommissionAmount(60000, 2.0))
	// gross splits exactly between net and commission
	assert.Equal(t, int64(60000), NetPay(60000, 2.0)+CommissionAmount(60000, 2.0))
}

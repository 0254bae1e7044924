package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"125.50", 125.50},
		{"-300", -300},
		{"$1,250.50", 1250.50},
		{"(300)", -300},
		{"($1,000.25)", -1000.25},
		{"  42  ", 42},
		{"", 0},
		{"garbage", 0},
		{"12..5", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseAmount(c.in), "input %q", c.in)
	}
}

func TestTradeStatus(t *testing.T) {
	valid := true
	invalid := false

	cases := []struct {
		name  string
		trade Trade
		want  ExecutionStatus
	}{
		{"enum wins", Trade{ExecutionStatus: StatusMissed, IsValid: &valid}, StatusMissed},
		{"legacy invalid", Trade{IsValid: &invalid}, StatusInvalid},
		{"legacy valid", Trade{IsValid: &valid}, StatusValid},
		{"nothing set", Trade{}, StatusValid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.trade.Status())
		})
	}
}

func TestTradeCountable(t *testing.T) {
	missed := Trade{ExecutionStatus: StatusMissed}
	assert.False(t, missed.Countable())
	assert.True(t, (&Trade{ExecutionStatus: StatusInvalid}).Countable())
	assert.True(t, (&Trade{}).Countable())
}

func TestAccountIsMain(t *testing.T) {
	assert.True(t, (&Account{Name: "FTMO hlavní"}).IsMain())
	assert.True(t, (&Account{Name: "HLAVNÍ účet"}).IsMain())
	assert.False(t, (&Account{Name: "Apex copy"}).IsMain())
}

package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatEUR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"12.5", "12,50 €"},
		{"1234.56", "1.234,56 €"},
		{"1000000", "1.000.000,00 €"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, FormatEUR(d))
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3", "3"},
		{"1250", "1.250"},
		{"2.5", "2,500"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, formatQuantity(d))
	}
}

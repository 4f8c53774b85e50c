//go:build unit

package barcode_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdv-terminal/internal/domain/barcode"
)

func TestParse(t *testing.T) {
	t.Run("weight label", func(t *testing.T) {
		// product 00123, 1005 g
		res, ok := barcode.Parse("2000123010052")
		require.True(t, ok)

		assert.Equal(t, "00123", res.ProductCode)
		assert.True(t, res.IsWeight)
		assert.True(t, res.WeightKg.Equal(decimal.RequireFromString("1.005")), "got %s", res.WeightKg)
	})

	t.Run("price label", func(t *testing.T) {
		// product 00456, R$ 12.50
		res, ok := barcode.Parse("2700456012500")
		require.True(t, ok)

		assert.Equal(t, "00456", res.ProductCode)
		assert.False(t, res.IsWeight)
		assert.True(t, res.Price.Equal(decimal.RequireFromString("12.50")), "got %s", res.Price)
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name string
			raw  string
		}{
			{name: "empty string", raw: ""},
			{name: "too short", raw: "200012301005"},
			{name: "too long", raw: "20001230100521"},
			{name: "wrong prefix", raw: "7890123456784"},
			{name: "non-digit in value field", raw: "20001230100X2"},
			{name: "bad check digit", raw: "2000123010053"},
			{name: "plain EAN-13 outside the scale range", raw: "0012345678905"},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				res, ok := barcode.Parse(c.raw)
				assert.False(t, ok)
				assert.Zero(t, res)
			})
		}
	})

	t.Run("variant digit splits weight from price", func(t *testing.T) {
		for variant := byte('0'); variant <= '9'; variant++ {
			label := "2" + string(variant) + "0012301005"
			label += string(checkDigitFor(label))

			res, ok := barcode.Parse(label)
			require.True(t, ok, "variant %c", variant)
			assert.Equal(t, variant <= '6', res.IsWeight, "variant %c", variant)
		}
	})
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Run("weight survives a round trip at three decimal places", func(t *testing.T) {
		weights := []string{"0.001", "0.100", "1.005", "2.350", "99.999"}
		for _, w := range weights {
			weight := decimal.RequireFromString(w)

			label, err := barcode.EncodeWeight("123", weight)
			require.NoError(t, err)

			res, ok := barcode.Parse(label)
			require.True(t, ok, "label %s", label)
			assert.True(t, res.IsWeight)
			assert.True(t, res.WeightKg.Equal(weight), "want %s got %s", weight, res.WeightKg)
		}
	})

	t.Run("price survives a round trip", func(t *testing.T) {
		price := decimal.RequireFromString("37.80")

		label, err := barcode.EncodePrice("00789", price)
		require.NoError(t, err)

		res, ok := barcode.Parse(label)
		require.True(t, ok)
		assert.False(t, res.IsWeight)
		assert.True(t, res.Price.Equal(price), "got %s", res.Price)
		assert.Equal(t, "00789", res.ProductCode)
	})

	t.Run("product code is zero padded", func(t *testing.T) {
		label, err := barcode.EncodeWeight("42", decimal.RequireFromString("0.5"))
		require.NoError(t, err)

		res, ok := barcode.Parse(label)
		require.True(t, ok)
		assert.Equal(t, "00042", res.ProductCode)
	})

	t.Run("encode errors", func(t *testing.T) {
		_, err := barcode.EncodeWeight("123456", decimal.RequireFromString("1"))
		assert.ErrorIs(t, err, barcode.ErrProductCodeTooLong)

		_, err = barcode.EncodeWeight("123", decimal.RequireFromString("100"))
		assert.ErrorIs(t, err, barcode.ErrValueOutOfRange)

		_, err = barcode.EncodePrice("123", decimal.RequireFromString("-1"))
		assert.ErrorIs(t, err, barcode.ErrValueOutOfRange)
	})
}

func checkDigitFor(body string) byte {
	sum := 0
	for i, c := range []byte(body) {
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}

package csvimport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomPriceRow(t *testing.T) {
	t.Parallel()

	t.Run("valid row", func(t *testing.T) {
		t.Parallel()
		row, err := ParseCustomPriceRow([]string{"42", "SKU-1", "19.99"}, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(42), row.CustomerID)
		assert.Equal(t, "SKU-1", row.SKU)
		assert.True(t, row.Price.Equal(decimal.RequireFromString("19.99")))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()
		row, err := ParseCustomPriceRow([]string{" 7 ", " ABC ", " 5 "}, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(7), row.CustomerID)
		assert.Equal(t, "ABC", row.SKU)
		assert.True(t, row.Price.Equal(decimal.NewFromInt(5)))
	})

	t.Run("rounds to configured precision", func(t *testing.T) {
		t.Parallel()
		row, err := ParseCustomPriceRow([]string{"1", "A", "9.999"}, 2)
		require.NoError(t, err)
		assert.Equal(t, "10", row.Price.String())
	})

	t.Run("wrong column count", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCustomPriceRow([]string{"1", "A"}, 2)
		require.Error(t, err)
		var invalid *InvalidRowError
		require.ErrorAs(t, err, &invalid)
		assert.Contains(t, invalid.Reason, "expected 3 columns")
	})

	t.Run("blank column", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCustomPriceRow([]string{"1", " ", "9.99"}, 2)
		assert.Error(t, err)
	})

	t.Run("non numeric customer id", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCustomPriceRow([]string{"abc", "A", "9.99"}, 2)
		assert.Error(t, err)
	})

	t.Run("negative customer id", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCustomPriceRow([]string{"-1", "A", "9.99"}, 2)
		assert.Error(t, err)
	})

	t.Run("sku too long", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCustomPriceRow([]string{"1", "ABCDEFGHIJ", "9.99"}, 2)
		assert.Error(t, err)
	})
}

func TestParseListPriceRow(t *testing.T) {
	t.Parallel()

	t.Run("valid row", func(t *testing.T) {
		t.Parallel()
		row, err := ParseListPriceRow([]string{"SKU-9", "120.50"}, 2)
		require.NoError(t, err)
		assert.Equal(t, "SKU-9", row.SKU)
		assert.True(t, row.Price.Equal(decimal.RequireFromString("120.50")))
	})

	t.Run("wrong column count", func(t *testing.T) {
		t.Parallel()
		_, err := ParseListPriceRow([]string{"SKU-9", "120.50", "extra"}, 2)
		assert.Error(t, err)
	})

	t.Run("invalid price", func(t *testing.T) {
		t.Parallel()
		_, err := ParseListPriceRow([]string{"SKU-9", "free"}, 2)
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		t.Parallel()
		_, err := ParseListPriceRow([]string{"SKU-9", "-1"}, 2)
		assert.Error(t, err)
	})
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "9.99", want: "9.99"},
		{raw: "$9.99", want: "9.99"},
		{raw: "9,99", want: "9.99"},
		{raw: "1,234.56", want: "1234.56"},
		{raw: "0", want: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			price, err := parsePrice(tc.raw, 2)
			require.NoError(t, err)
			assert.Equal(t, tc.want, price.String())
		})
	}
}

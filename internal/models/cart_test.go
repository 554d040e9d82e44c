package models_test

import (
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	tee := money.New(2500, "USD")

	t.Run("Success - Same Variant Merges", func(t *testing.T) {
		// Arrange
		cart := models.NewCart("s1", "usd")

		// Act
		require.NoError(t, cart.AddItem(7, "Tee", tee, 1, models.Variant{Size: "M"}))
		require.NoError(t, cart.AddItem(7, "Tee", tee, 2, models.Variant{Size: "M"}))

		// Assert
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.Equal(t, "USD", cart.Currency)
		assert.False(t, cart.UpdatedAt.IsZero())
	})

	t.Run("Success - Different Variant Is Separate Line", func(t *testing.T) {
		// Arrange
		cart := models.NewCart("s1", "USD")

		// Act
		require.NoError(t, cart.AddItem(7, "Tee", tee, 1, models.Variant{Size: "M"}))
		require.NoError(t, cart.AddItem(7, "Tee", tee, 1, models.Variant{Size: "L"}))
		require.NoError(t, cart.AddItem(7, "Tee", tee, 1, models.Variant{Size: "L", Color: "black"}))

		// Assert
		assert.Len(t, cart.Items, 3)
	})

	t.Run("Failure - Non Positive Quantity", func(t *testing.T) {
		// Arrange
		cart := models.NewCart("s1", "USD")

		// Act
		err := cart.AddItem(7, "Tee", tee, 0, models.Variant{})

		// Assert
		require.ErrorIs(t, err, models.ErrInvalidQuantity)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("Failure - Currency Mismatch", func(t *testing.T) {
		// Arrange
		cart := models.NewCart("s1", "USD")

		// Act
		err := cart.AddItem(7, "Tee", money.New(2500, "EUR"), 1, models.Variant{})

		// Assert
		require.ErrorIs(t, err, money.ErrCurrencyMismatch)
		assert.True(t, cart.IsEmpty())
	})
}

// Adding the same line in pieces must price exactly like adding it at once.
func TestCart_SubtotalIndependentOfMergeOrder(t *testing.T) {
	price := money.New(1999, "USD")

	for _, split := range [][]int{{5}, {1, 4}, {2, 2, 1}, {1, 1, 1, 1, 1}} {
		cart := models.NewCart("s1", "USD")
		for _, qty := range split {
			require.NoError(t, cart.AddItem(3, "Mug", price, qty, models.Variant{}))
		}

		assert.Equal(t, money.New(9995, "USD"), cart.Subtotal(), "split %v", split)
		assert.Len(t, cart.Items, 1)
	}
}

func TestCart_SetQuantity(t *testing.T) {

	newCart := func(t *testing.T) *models.Cart {
		t.Helper()
		cart := models.NewCart("s1", "USD")
		require.NoError(t, cart.AddItem(7, "Tee", money.New(2500, "USD"), 2, models.Variant{Size: "M"}))
		require.NoError(t, cart.AddItem(9, "Cap", money.New(1500, "USD"), 1, models.Variant{}))
		return cart
	}

	t.Run("Success - Replace Quantity", func(t *testing.T) {
		// Arrange
		cart := newCart(t)

		// Act
		err := cart.SetQuantity(7, models.Variant{Size: "M"}, 5)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, money.New(14000, "USD"), cart.Subtotal())
	})

	t.Run("Success - Zero Removes Line", func(t *testing.T) {
		// Arrange
		cart := newCart(t)

		// Act
		err := cart.SetQuantity(9, models.Variant{}, 0)

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, int64(7), cart.Items[0].ProductID)
	})

	t.Run("Failure - Unknown Line", func(t *testing.T) {
		// Arrange
		cart := newCart(t)

		// Act
		err := cart.SetQuantity(7, models.Variant{Size: "XL"}, 1)

		// Assert
		require.ErrorIs(t, err, models.ErrLineNotFound)
	})
}

func TestCart_RemoveClearAndClone(t *testing.T) {
	// Arrange
	cart := models.NewCart("s1", "USD")
	require.NoError(t, cart.AddItem(7, "Tee", money.New(2500, "USD"), 1, models.Variant{}))
	require.NoError(t, cart.AddItem(9, "Cap", money.New(1500, "USD"), 1, models.Variant{}))

	// Act
	clone := cart.Clone()
	cart.RemoveItem(7, models.Variant{})
	cart.RemoveItem(404, models.Variant{})

	// Assert
	assert.Len(t, cart.Items, 1)
	assert.Len(t, clone.Items, 2, "clone must not share lines with the original")

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, money.Zero("USD"), cart.Subtotal())
	assert.NotNil(t, cart.Items)
}

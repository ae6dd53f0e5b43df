package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestErroresEstructuradosRespondenASusSentinelas(t *testing.T) {
	short := fmt.Errorf("tx: %w", &InsufficientStockError{ItemID: "R", Available: decimal.NewFromInt(15), Requested: decimal.NewFromInt(20)})
	assert.ErrorIs(t, short, ErrInsufficientStock)
	assert.NotErrorIs(t, short, ErrNegativeResult)

	var target *InsufficientStockError
	assert.True(t, errors.As(short, &target))
	assert.Equal(t, "R", target.ItemID)

	assert.ErrorIs(t, &NegativeResultError{}, ErrNegativeResult)
	assert.ErrorIs(t, Invalid("quantity", "debe ser mayor que cero"), ErrInvalidInput)
	assert.ErrorIs(t, &TransitionError{From: "DRAFT", To: "REVERSED"}, ErrInvalidTransition)
	assert.ErrorIs(t, NotFound("ítem", "x"), ErrNotFound)
}

func TestCheckScale(t *testing.T) {
	for _, ok := range []string{"1", "0.0001", "12.3400", "1.50000", "-0.0002"} {
		assert.NoError(t, CheckScale("quantity", decimal.RequireFromString(ok)), ok)
	}
	for _, bad := range []string{"0.00015", "1.00001", "-0.00005"} {
		err := CheckScale("quantity", decimal.RequireFromString(bad))
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
		var ve *ValidationError
		if assert.True(t, errors.As(err, &ve)) {
			assert.Equal(t, "quantity", ve.Field)
		}
	}
}

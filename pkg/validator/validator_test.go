package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name   string `form:"name" validate:"notblank"`
	Email  string `form:"email" validate:"omitempty,email"`
	Price  string `form:"price" validate:"required,number,nonnegative"`
	Status string `form:"status" validate:"oneof=Unpaid Paid"`
}

func TestValidate(t *testing.T) {
	v := New()

	t.Run("valid input", func(t *testing.T) {
		errs := v.Validate(&sample{Name: "Jane", Price: "12.50", Status: "Paid"})
		assert.Nil(t, errs)
	})

	t.Run("field names come from form tags", func(t *testing.T) {
		errs := v.Validate(&sample{Name: "   ", Email: "nope", Price: "abc", Status: "Open"})
		assert.Equal(t, FieldErrors{
			"name":   "This field is required.",
			"email":  "Invalid email address.",
			"price":  "Not a valid number.",
			"status": "Not a valid choice.",
		}, errs)
	})

	t.Run("negative price", func(t *testing.T) {
		errs := v.Validate(&sample{Name: "x", Price: "-1", Status: "Unpaid"})
		assert.Equal(t, "Must not be negative.", errs["price"])
	})

	t.Run("missing price", func(t *testing.T) {
		errs := v.Validate(&sample{Name: "x", Status: "Unpaid"})
		assert.Equal(t, "This field is required.", errs["price"])
	})
}

func TestParseNumber(t *testing.T) {
	n, ok := ParseNumber(" 120.00 ")
	assert.True(t, ok)
	assert.Equal(t, 120.0, n)

	_, ok = ParseNumber("NaN")
	assert.False(t, ok)
	_, ok = ParseNumber("")
	assert.False(t, ok)
}

func TestFieldErrorsString(t *testing.T) {
	errs := FieldErrors{"b": "two", "a": "one"}
	assert.Equal(t, "a: one; b: two", errs.Error())
}

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Name   string `validate:"required,max=32,excludesall=\x00\n\r\t"`
	Amount string `validate:"required,money"`
	Stat   string `validate:"omitempty,stat"`
	Target string `validate:"omitempty,uuid"`
}

func TestValidator_Money(t *testing.T) {
	InitValidator()
	v := GetValidator()

	tests := []struct {
		amount  string
		wantErr bool
	}{
		{"10", false},
		{"10.5", false},
		{"0.01", false},
		{"0", true},
		{"-5", true},
		{"1.001", true},
		{"ten", true},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := v.ValidateStruct(testRequest{Name: "vito", Amount: tt.amount})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "Must be a positive amount with at most two decimals", FormatValidationError(err)["amount"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_StatAndID(t *testing.T) {
	v := GetValidator()

	assert.NoError(t, v.ValidateStruct(testRequest{Name: "vito", Amount: "1", Stat: "Speed"}))

	err := v.ValidateStruct(testRequest{Name: "vito", Amount: "1", Stat: "luck", Target: "nope"})
	require.Error(t, err)
	fields := FormatValidationError(err)
	assert.Contains(t, fields["stat"], "strength")
	assert.Equal(t, "Must be a valid id", fields["target"])
}

func TestFormatValidationError(t *testing.T) {
	v := GetValidator()

	t.Run("required and control characters", func(t *testing.T) {
		err := v.ValidateStruct(testRequest{Amount: "1"})
		assert.Equal(t, "This field is required", FormatValidationError(err)["name"])

		err = v.ValidateStruct(testRequest{Name: "vi\nto", Amount: "1"})
		assert.Equal(t, "Contains invalid characters", FormatValidationError(err)["name"])
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, FormatValidationError(nil))
	})

	t.Run("non validation error", func(t *testing.T) {
		assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(assert.AnError))
	})
}

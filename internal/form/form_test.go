package form

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Login(t *testing.T) {
	require.NoError(t, Validate(Login{Email: "asha@example.com", Password: "pw"}))

	err := Validate(Login{Email: "not-an-email"})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []FieldError{
		{Field: "email", Message: "Invalid email format"},
		{Field: "password", Message: "This field is required"},
	}, ve.Fields)
	assert.Equal(t, "invalid form: email: Invalid email format; password: This field is required", err.Error())
}

func TestValidate_WhitespaceIsEmpty(t *testing.T) {
	err := Validate(Register{Name: "   ", Email: "a@b.io", Password: "pw"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []FieldError{{Field: "name", Message: "This field is required"}}, ve.Fields)
}

func TestValidate_Pointer(t *testing.T) {
	assert.NoError(t, Validate(&Register{Name: "Ravi", Email: "r@x.io", Password: "pw"}))
}

func TestValidate_Shipping(t *testing.T) {
	err := Validate(Shipping{Address: "12 Lane", City: "Pune"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 2)
	assert.Equal(t, "zipCode", ve.Fields[0].Field)
	assert.Equal(t, "country", ve.Fields[1].Field)
}

func TestShippingAddress(t *testing.T) {
	s := Shipping{Address: "12 Lane", City: "Pune", ZipCode: "411001", Country: "India"}
	assert.Equal(t, "12 Lane, Pune, 411001, India", s.ShippingAddress())
}

func TestValidate_StudentApplication(t *testing.T) {
	app := StudentApplication{
		Name: "Mira", Email: "mira@uni.edu", Institution: "NID", StudentID: "S-1", Course: "Textiles",
	}
	assert.NoError(t, Validate(app))

	app.StudentID = ""
	err := Validate(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "studentId")
}

func TestIsValidationError(t *testing.T) {
	err := Validate(Login{})
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(fmt.Errorf("other")))
	assert.False(t, IsValidationError(nil))
}

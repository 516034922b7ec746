package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidator_RegisterRequest(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Struct(RegisterRequest{Email: "a@b.co", Password: "password123"}))

	errs := v.Struct(RegisterRequest{Email: "nope", Password: "short"})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestValidator_NestedFieldNames(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(SubmitResponsesRequest{Responses: []ResponseItem{{QuestionID: uuid.NewString(), Value: 9}}})
	assert.Contains(t, errs, "responses[0].value")

	errs = v.Struct(SubmitResponsesRequest{})
	assert.Contains(t, errs, "responses")
}

func TestValidator_NotBlank(t *testing.T) {
	v := NewValidator()

	errs := v.Struct(UniversityRequest{Name: "   "})
	assert.Equal(t, "name cannot be blank", errs["name"])
}

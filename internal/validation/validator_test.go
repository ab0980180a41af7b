// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}

	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

// rateRequest mirrors the rating submission payload.
type rateRequest struct {
	UserID    int     `validate:"required,min=1"`
	ProductID int     `validate:"required,min=1"`
	Rating    float64 `validate:"required,min=1,max=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input rateRequest
	}{
		{
			name:  "typical rating",
			input: rateRequest{UserID: 42, ProductID: 7, Rating: 4.5},
		},
		{
			name:  "minimum rating",
			input: rateRequest{UserID: 1, ProductID: 1, Rating: 1.0},
		},
		{
			name:  "maximum rating",
			input: rateRequest{UserID: 1, ProductID: 1, Rating: 5.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     rateRequest
		wantField string
		wantTag   string
	}{
		{
			name:      "missing user id",
			input:     rateRequest{ProductID: 7, Rating: 3},
			wantField: "UserID",
			wantTag:   "required",
		},
		{
			name:      "missing product id",
			input:     rateRequest{UserID: 42, Rating: 3},
			wantField: "ProductID",
			wantTag:   "required",
		},
		{
			name:      "rating too low",
			input:     rateRequest{UserID: 42, ProductID: 7, Rating: 0.5},
			wantField: "Rating",
			wantTag:   "min",
		},
		{
			name:      "rating too high",
			input:     rateRequest{UserID: 42, ProductID: 7, Rating: 5.5},
			wantField: "Rating",
			wantTag:   "max",
		},
		{
			name:      "negative user id",
			input:     rateRequest{UserID: -1, ProductID: 7, Rating: 3},
			wantField: "UserID",
			wantTag:   "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() should have returned an error")
			}

			errs := err.Errors()
			if len(errs) == 0 {
				t.Fatal("RequestValidationError should contain at least one error")
			}

			found := false
			for _, e := range errs {
				if e.Field() == tt.wantField && e.Tag() == tt.wantTag {
					found = true
					break
				}
			}

			if !found {
				t.Errorf("Expected error on field %s with tag %s, got: %v", tt.wantField, tt.wantTag, errs)
			}
		})
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	input := rateRequest{ProductID: 7, Rating: 3}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Message != "UserID is required" {
		t.Errorf("Unexpected message: %s", apiErr.Message)
	}

	if apiErr.Details == nil {
		t.Fatal("Expected details to be set")
	}

	if apiErr.Details["field"] != "UserID" {
		t.Errorf("Expected details.field UserID, got %v", apiErr.Details["field"])
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	input := rateRequest{Rating: 9}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	apiErr := err.ToAPIError()

	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected code VALIDATION_ERROR, got %s", apiErr.Code)
	}

	if apiErr.Details == nil {
		t.Fatal("Expected details to contain field information")
	}

	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("Expected details to contain 'fields' key")
	}

	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("Expected combined message for multiple errors, got: %s", apiErr.Message)
	}
}

type modeStruct struct {
	Mode string `validate:"omitempty,oneof=user_based item_based"`
}

func TestOneofValidation(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		wantErr bool
	}{
		{"empty", "", false},
		{"user based", "user_based", false},
		{"item based", "item_based", false},
		{"invalid mode", "hybrid", true},
		{"case sensitive", "User_Based", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := modeStruct{Mode: tt.mode}
			err := ValidateStruct(&input)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateStruct() should have returned error for mode %q", tt.mode)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateStruct() returned unexpected error for mode %q: %v", tt.mode, err)
			}
		})
	}
}

type userStruct struct {
	Name  string `validate:"required,min=1,max=100"`
	Email string `validate:"omitempty,email"`
	Age   int    `validate:"omitempty,gte=13,lte=120"`
}

func TestEmailAndRangeValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   userStruct
		wantErr bool
	}{
		{"valid user", userStruct{Name: "Ada", Email: "ada@example.com", Age: 30}, false},
		{"no email", userStruct{Name: "Ada"}, false},
		{"bad email", userStruct{Name: "Ada", Email: "not-an-email"}, true},
		{"too young", userStruct{Name: "Ada", Age: 12}, true},
		{"too old", userStruct{Name: "Ada", Age: 200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantErr && err == nil {
				t.Error("ValidateStruct() should have returned an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateStruct() returned unexpected error: %v", err)
			}
		})
	}
}

type nestedStruct struct {
	Inner innerStruct `validate:"required"`
}

type innerStruct struct {
	Value string `validate:"required"`
}

func TestNestedStructValidation(t *testing.T) {
	valid := nestedStruct{Inner: innerStruct{Value: "test"}}
	if err := ValidateStruct(&valid); err != nil {
		t.Errorf("ValidateStruct() returned unexpected error for valid nested struct: %v", err)
	}

	invalid := nestedStruct{Inner: innerStruct{Value: ""}}
	if err := ValidateStruct(&invalid); err == nil {
		t.Error("ValidateStruct() should have returned error for invalid nested struct")
	}
}

func TestErrorMessages(t *testing.T) {
	input := rateRequest{UserID: 42, ProductID: 7, Rating: 5.5}

	err := ValidateStruct(&input)
	if err == nil {
		t.Fatal("Expected validation error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "Rating") {
		t.Errorf("Error message should reference failed field: %s", msg)
	}
	if !strings.Contains(msg, "at most 5") {
		t.Errorf("Error message should mention the bound: %s", msg)
	}
}

package validation

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PointInput is a point as decoded from a request body. Nil coordinates
// mean the field was absent.
type PointInput struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// CreateBlueprintRequest is the body of POST /api/v1/blueprints.
type CreateBlueprintRequest struct {
	Author *string      `json:"author"`
	Name   *string      `json:"name"`
	Points []PointInput `json:"points"`
}

// ValidateCreateBlueprintRequest checks presence and shape of every field.
// Returns a slice of field errors; empty slice means valid.
func ValidateCreateBlueprintRequest(req CreateBlueprintRequest) []FieldError {
	var errs []FieldError

	if req.Author == nil || strings.TrimSpace(*req.Author) == "" {
		errs = append(errs, FieldError{Field: "author", Message: "author is required"})
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	if len(req.Points) == 0 {
		errs = append(errs, FieldError{Field: "points", Message: "points must contain at least one point"})
	}
	for i, p := range req.Points {
		errs = append(errs, validatePoint(fmt.Sprintf("points[%d]", i), p)...)
	}

	return errs
}

// ValidatePoint checks that both coordinates are present.
func ValidatePoint(p PointInput) []FieldError {
	return validatePoint("", p)
}

func validatePoint(prefix string, p PointInput) []FieldError {
	var errs []FieldError
	if p.X == nil {
		errs = append(errs, FieldError{Field: join(prefix, "x"), Message: "x is required"})
	}
	if p.Y == nil {
		errs = append(errs, FieldError{Field: join(prefix, "y"), Message: "y is required"})
	}
	return errs
}

func join(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "." + field
}

// Package inputval validates decoded request bodies with struct tags.
//
// Define an input struct with validate tags (go-playground/validator syntax)
// and optional label tags, decode the body into it, and call Validate to get
// user-friendly error messages.
//
// Example:
//
//	type registerInput struct {
//	    Email    string `json:"email" validate:"required,email" label:"Email"`
//	    Password string `json:"password" validate:"required" label:"Password"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.WriteError(w, res.Err())
//	    return
//	}
package inputval

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/apperr"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// All returns all error messages joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Err returns the result as an apperr Validation error, or nil.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return apperr.Validation(r.All())
}

var (
	v     *validator.Validate
	vOnce sync.Once
)

// get returns the singleton validator with custom rules registered.
func get() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their JSON name.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
			return models.IsValidPlatform(fl.Field().String())
		})
		_ = v.RegisterValidation("objective", func(fl validator.FieldLevel) bool {
			return models.IsValidObjective(fl.Field().String())
		})
		_ = v.RegisterValidation("campaignstatus", func(fl validator.FieldLevel) bool {
			return models.IsValidCampaignStatus(fl.Field().String())
		})
		_ = v.RegisterValidation("accountstatus", func(fl validator.FieldLevel) bool {
			return models.IsValidAdAccountStatus(fl.Field().String())
		})
	})
	return v
}

// Validate validates a struct and returns a Result with user-friendly errors.
//
// Besides the built-in rules, these are registered:
//   - objectid: valid MongoDB ObjectID hex
//   - platform: meta, google, linkedin or twitter
//   - objective: a campaign objective
//   - campaignstatus / accountstatus: a valid lifecycle status
func Validate(s any) *Result {
	result := &Result{}
	err := get().Struct(s)
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.Errors = append(result.Errors, FieldError{Message: err.Error()})
		return result
	}

	labels := fieldLabels(s)
	for _, fe := range verrs {
		label := labels[fe.StructField()]
		if label == "" {
			label = fe.Field()
		}
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Label:   label,
			Message: formatMessage(label, fe.Tag(), fe.Param()),
		})
	}
	return result
}

// Var validates a single value against tag, labelling errors with label.
func Var(value any, tag, label string) *Result {
	result := &Result{}
	err := get().Var(value, tag)
	if err == nil {
		return result
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		result.Errors = append(result.Errors, FieldError{
			Field:   label,
			Label:   label,
			Message: formatMessage(label, verrs[0].Tag(), verrs[0].Param()),
		})
		return result
	}
	result.Errors = append(result.Errors, FieldError{Field: label, Label: label, Message: err.Error()})
	return result
}

// fieldLabels maps struct field names to their "label" tag.
func fieldLabels(s any) map[string]string {
	labels := make(map[string]string)
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return labels
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if label := f.Tag.Get("label"); label != "" {
			labels[f.Name] = label
		}
	}
	return labels
}

// formatMessage creates a user-friendly message for a validation rule.
func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + "."
	case "max":
		return label + " must be at most " + param + "."
	case "gt":
		return label + " must be greater than " + param + "."
	case "gte":
		return label + " must be at least " + param + "."
	case "lte":
		return label + " must be at most " + param + "."
	case "objectid":
		return label + " is not a valid ID."
	case "platform":
		return label + " must be one of: " + strings.Join(models.AllPlatforms(), ", ") + "."
	case "objective":
		return label + " must be one of: " + strings.Join(models.AllObjectives(), ", ") + "."
	case "campaignstatus":
		return label + " must be one of: " + strings.Join(models.AllCampaignStatuses(), ", ") + "."
	case "accountstatus":
		return label + " must be one of: " + strings.Join(models.AllAdAccountStatuses(), ", ") + "."
	default:
		return label + " is invalid."
	}
}

// IsValidObjectID checks if the given string is a valid MongoDB ObjectID hex.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// ParseObjectID converts a path id into an ObjectID or returns a Validation
// error carrying msg (for example "Invalid campaign ID").
func ParseObjectID(s, msg string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(msg)
	}
	return oid, nil
}

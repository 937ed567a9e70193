package api

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"example.com/fitnesscenter/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so errors match the wire field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// sessionDateLayouts are tried in order; layouts without a zone are read as UTC.
var sessionDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// MemberRequest is the payload for POST /members and PUT /members/{id}.
// Fields are pointers so an absent key is distinguishable from an empty value;
// present values are stored exactly as sent.
type MemberRequest struct {
	Name  *string `json:"name" validate:"required"`
	Email *string `json:"email" validate:"required"`
	Phone *string `json:"phone" validate:"required"`
}

// Validate ensures every key is present.
func (r *MemberRequest) Validate() error {
	return validateStruct(r)
}

// Input converts a validated request into the domain shape.
func (r *MemberRequest) Input() domain.MemberInput {
	return domain.MemberInput{Name: *r.Name, Email: *r.Email, Phone: *r.Phone}
}

// ScheduleWorkoutRequest is the payload for POST /workouts. Range checks on
// member_id and duration are left to storage.
type ScheduleWorkoutRequest struct {
	MemberID    *int64  `json:"member_id" validate:"required"`
	SessionDate *string `json:"session_date" validate:"required"`
	Activity    *string `json:"activity" validate:"required"`
	Duration    *int    `json:"duration" validate:"required"`

	sessionDate time.Time
}

// Validate checks every key is present and parses session_date.
func (r *ScheduleWorkoutRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	parsed, err := parseSessionDate(*r.SessionDate)
	if err != nil {
		return err
	}
	r.sessionDate = parsed
	return nil
}

// Input converts a validated request into the domain shape.
func (r *ScheduleWorkoutRequest) Input() domain.WorkoutInput {
	return domain.WorkoutInput{
		MemberID:    *r.MemberID,
		SessionDate: r.sessionDate,
		Activity:    *r.Activity,
		Duration:    *r.Duration,
	}
}

func parseSessionDate(raw string) (time.Time, error) {
	for _, layout := range sessionDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, &domain.ValidationError{
		Field:  "session_date",
		Reason: "must be RFC 3339, YYYY-MM-DD HH:MM:SS or YYYY-MM-DD",
	}
}

// validateStruct reports the first failing field as a *domain.ValidationError.
func validateStruct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return &domain.ValidationError{Field: fe.Field(), Reason: reasonFor(fe)}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	default:
		return "is invalid"
	}
}

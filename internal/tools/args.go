package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"journal-coach/internal/journal"
)

type viewArgs struct {
	ViewDate string `json:"viewDate" validate:"omitempty,isodate"`
}

type diaryByDateArgs struct {
	viewArgs
	Date string `json:"date" validate:"required,isodate"`
}

type saveDiaryArgs struct {
	viewArgs
	Date    string   `json:"date" validate:"required,isodate"`
	Content string   `json:"content"`
	Tags    []string `json:"tags" validate:"max=5,dive,nonblank"`
}

type diaryTagsArgs struct {
	viewArgs
	Content string `json:"content"`
}

type addTodoArgs struct {
	viewArgs
	Title    string `json:"title" validate:"nonblank"`
	ClientID string `json:"clientId"`
}

type setDoneArgs struct {
	viewArgs
	ID     int64 `json:"id" validate:"gt=0"`
	IsDone *bool `json:"isDone" validate:"required"`
}

type deleteArgs struct {
	viewArgs
	ID int64 `json:"id" validate:"gt=0"`
}

type addWeeklyTaskArgs struct {
	viewArgs
	WeekStartDate string `json:"weekStartDate" validate:"omitempty,isodate"`
	Title         string `json:"title" validate:"nonblank"`
	ClientID      string `json:"clientId"`
}

type runAnalysisArgs struct {
	viewArgs
	PeriodType string `json:"periodType" validate:"required,oneof=week month"`
	StartDate  string `json:"startDate" validate:"required,isodate"`
}

type saveAnalysisArgs struct {
	viewArgs
	PeriodType string `json:"periodType" validate:"required,oneof=week month"`
	StartDate  string `json:"startDate" validate:"required,isodate"`
	EndDate    string `json:"endDate" validate:"required,isodate"`
	Summary    string `json:"summary" validate:"nonblank"`
}

// validate is configured once; validator.Validate is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"isodate": func(fl validator.FieldLevel) bool {
			_, err := journal.ParseDate(fl.Field().String())
			return err == nil
		},
		"nonblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("registering %s validation: %v", tag, err))
		}
	}
	return v
}

// decode copies the raw tool arguments into dst and validates it. Unknown
// arguments are ignored. Every failure is a *journal.ValidationError.
func decode(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return journal.Invalid("", "arguments are not valid JSON: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return journal.Invalid(te.Field, "must be %s", kindName(te.Type))
		}
		return journal.Invalid("", "%v", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return journal.Invalid(fe.Field(), "%s", reason(fe))
		}
		return fmt.Errorf("validating arguments: %w", err)
	}
	return nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "isodate":
		return fmt.Sprintf("%q is not a YYYY-MM-DD calendar date", fe.Value())
	case "nonblank":
		return "must not be empty"
	case "gt":
		return "must be a positive integer"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return fmt.Sprintf("must have at most %s items", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "of another type"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Slice:
		return "an array"
	case reflect.Pointer:
		return kindName(t.Elem())
	default:
		return "a " + t.Kind().String()
	}
}

package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 10
)

// Details holds the per-book fields a reader edits. A nil field is absent;
// sending Details to the store clears absent fields.
type Details struct {
	Rating      *int    `json:"rating" validate:"omitnil,min=1,max=10"`
	Comments    *string `json:"comments" validate:"omitnil,max=10000"`
	Series      *string `json:"series" validate:"omitnil,max=500"`
	SeriesIndex *int    `json:"series_index" validate:"omitnil,gt=0"`
}

// Clone returns a deep copy.
func (d Details) Clone() Details {
	return Details{
		Rating:      cloneInt(d.Rating),
		Comments:    cloneString(d.Comments),
		Series:      cloneString(d.Series),
		SeriesIndex: cloneInt(d.SeriesIndex),
	}
}

// Normalize trims text fields and turns empty strings into absent values.
func (d Details) Normalize() Details {
	d = d.Clone()
	d.Comments = trimToNil(d.Comments)
	d.Series = trimToNil(d.Series)
	return d
}

// Equal reports whether both detail sets hold the same values.
func (d Details) Equal(o Details) bool {
	return eqInt(d.Rating, o.Rating) && eqString(d.Comments, o.Comments) &&
		eqString(d.Series, o.Series) && eqInt(d.SeriesIndex, o.SeriesIndex)
}

// Validate checks the field constraints on the normalized value and returns
// a *ValidationError naming the first offending field.
func (d Details) Validate() error {
	return validateStruct(d.Normalize())
}

// Validate checks that the draft names a book and its catalog entry.
func (d Draft) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.CatalogRef = strings.TrimSpace(d.CatalogRef)
	return validateStruct(d)
}

// ValidationError is a local, pre-flight rejection of user input. It never
// reaches the store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(seriesRequiresName, Details{})
	return v
}

// seriesRequiresName enforces series_index present => series present.
func seriesRequiresName(sl validator.StructLevel) {
	d := sl.Current().Interface().(Details)
	if d.SeriesIndex != nil && d.Series == nil {
		sl.ReportError(d.Series, "series", "Series", "required_with", "SeriesIndex")
	}
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "rating":
		return fmt.Sprintf("must be between %d and %d", MinRating, MaxRating)
	case "series_index":
		return "must be a positive number"
	case "series":
		if fe.Tag() == "required_with" {
			return "is required when a series number is set"
		}
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "is too long (max " + fe.Param() + ")"
	}
	return "is invalid (" + fe.Tag() + ")"
}

func trimToNil(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

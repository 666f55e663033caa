package validator

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation. Request types carry gin "binding" tags, so the
	// standalone validator reads the same tag.
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.SetTagName("binding")
	mustRegister(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		mustRegister(engine)
	}
}

func mustRegister(v *validator.Validate) {
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("imageuri", imageURI); err != nil {
		panic(err)
	}
}

// Struct validates s and converts failures into an apperr validation error.
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate turns validator failures into an apperr validation error with one
// reason per field. A body cut off by http.MaxBytesReader becomes
// apperr.ErrTooLarge. Other errors (e.g. malformed JSON) become a validation
// error without field details.
func Translate(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &apperr.Error{Kind: apperr.ErrTooLarge}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("invalid inputs", nil)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = reason(fe)
	}
	return apperr.Validation("invalid inputs", fields)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind().String() == "string" {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind().String() == "string" {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "imageuri":
		return "must be a base64 encoded image data URI"
	default:
		return "is invalid"
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// imageURI accepts data:image/<subtype>;base64,<payload> with a decodable
// payload.
func imageURI(fl validator.FieldLevel) bool {
	return IsImageDataURI(fl.Field().String())
}

// IsImageDataURI reports whether s is an inline base64 encoded image.
func IsImageDataURI(s string) bool {
	rest, ok := strings.CutPrefix(s, "data:image/")
	if !ok {
		return false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || payload == "" {
		return false
	}
	if !strings.HasSuffix(meta, ";base64") {
		return false
	}
	subtype := strings.TrimSuffix(meta, ";base64")
	if i := strings.IndexByte(subtype, ';'); i >= 0 {
		subtype = subtype[:i]
	}
	if subtype == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(payload)
	return err == nil
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
)

// maxBodyBytes bounds request bodies. A 10000-row measurement batch fits.
const maxBodyBytes = 8 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// requestValidator returns the process-wide validator, reporting field
// names as their JSON keys.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// decodeBody decodes a JSON body into dst and validates it. Every failure
// wraps apperrors.ErrValidation.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", apperrors.ErrValidation)
		}
		return fmt.Errorf("%w: invalid request body: %s", apperrors.ErrValidation, err.Error())
	}
	return validateStruct(dst)
}

// validateStruct validates dst, or each element when dst points to a slice.
func validateStruct(dst any) error {
	v := reflect.ValueOf(dst)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		if err := requestValidator().Struct(dst); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, validationMessage(err))
		}
		return nil
	}
	for i := range v.Len() {
		if err := requestValidator().Struct(v.Index(i).Interface()); err != nil {
			return fmt.Errorf("%w: item %d: %s", apperrors.ErrValidation, i, validationMessage(err))
		}
	}
	return nil
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return describeValidation(errs)
	}
	return err.Error()
}

// describeValidation renders field errors as "field: rule" pairs.
func describeValidation(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Field()+": "+rule)
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

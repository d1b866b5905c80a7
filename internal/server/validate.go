package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
)

var (
	requestValidatorOnce sync.Once
	requestValidator     *validator.Validate
	requestTranslator    ut.Translator
	requestValidatorErr  error
)

func newRequestValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	// Field violations are reported with the wire names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate, trans, nil
}

func validateRequest(msg any) *connect.Error {
	requestValidatorOnce.Do(func() {
		requestValidator, requestTranslator, requestValidatorErr = newRequestValidator()
	})
	if requestValidatorErr != nil {
		return connect.NewError(connect.CodeInternal, requestValidatorErr)
	}

	err := requestValidator.Struct(msg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	var fieldViolations []*errdetails.BadRequest_FieldViolation
	descriptions := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		description := fe.Translate(requestTranslator)
		descriptions = append(descriptions, description)
		fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       fe.Field(),
			Description: description,
		})
	}
	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(descriptions, "; ")))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: fieldViolations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

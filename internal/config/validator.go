package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/stackrender/internal/style"
	stackerrors "github.com/alexisbeaulieu97/stackrender/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern     = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	questionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	inputNamePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// validatorInstance configures and returns the shared validator used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("style_id", func(fl validator.FieldLevel) bool {
			id := fl.Field().String()
			return id != "" && style.ValidID(id)
		})

		_ = v.RegisterValidation("question_id", func(fl validator.FieldLevel) bool {
			return questionIDPattern.MatchString(fl.Field().String())
		})

		// Input names end up inside [[input:<name>]] markers and form field ids.
		_ = v.RegisterValidation("input_name", func(fl validator.FieldLevel) bool {
			return inputNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// ValidateConfig performs schema and cross-field validation on cfg.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return stackerrors.NewValidationError("config", "configuration is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		return convertValidationError(err)
	}

	for key := range cfg.Styles.Inline {
		if _, ok := style.FormatForKey(key); !ok {
			return stackerrors.NewValidationError("styles.inline."+key,
				fmt.Sprintf("unknown style key; expected one of %s", strings.Join(style.Keys(), ", ")), nil)
		}
	}

	return nil
}

// ValidateDocument performs schema and cross-field validation on a question document.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return stackerrors.NewValidationError("document", "document is nil", nil)
	}

	if err := validatorInstance().Struct(doc); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]int, len(doc.Inputs))
	for i, in := range doc.Inputs {
		if first, ok := seen[in.Name]; ok {
			return stackerrors.NewValidationError(fieldForInput(i, "name"),
				fmt.Sprintf("duplicate input name %q (first declared at inputs[%d])", in.Name, first), nil)
		}
		seen[in.Name] = i

		if in.Type == "matrix" && (in.Width == 0 || in.Height == 0) {
			return stackerrors.NewValidationError(fieldForInput(i, "width"), "matrix inputs need width and height", nil)
		}
	}

	return nil
}

// convertValidationError normalizes validator errors into stackrender validation errors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return stackerrors.NewValidationError(field, msg, err)
	}

	return stackerrors.NewValidationError("config", err.Error(), err)
}

func yamlishFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	lowered := make([]string, 0, len(parts))
	for _, part := range parts {
		lowered = append(lowered, strings.ToLower(part))
	}
	return strings.Join(lowered, ".")
}

func fieldForInput(index int, field string) string {
	return fmt.Sprintf("inputs[%d].%s", index, field)
}

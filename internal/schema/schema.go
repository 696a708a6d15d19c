// Package schema validates project payloads. Unlike a plain validator run it
// reports every failed rule of a field, not only the first one.
package schema

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"softwise/internal/domain"

	"github.com/go-playground/validator/v10"
)

var kebabCase = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// messages are keyed by "<json field>.<rule>"; rule-only keys are fallbacks.
var messages = map[string]string{
	"title.min":       "O título precisa ter impacto (min 3 chars)",
	"slug.min":        "Slug necessário para URL",
	"slug.kebab":      "Slug deve ser kebab-case",
	"description.min": "Descrição curta demais para o SEO",
	"imageUrl.url":    "URL da imagem inválida",
	"tags.min":        "Adicione pelo menos uma tecnologia",
	"category.min":    "Categoria não pode ser vazia",
	"link.url":        "URL do projeto inválida",
	"required":        "Campo obrigatório",
	"url":             "URL inválida",
	"min":             "Valor curto demais",
}

// Validator checks create and update payloads.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with field names reported as their JSON keys.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("kebab", func(fl validator.FieldLevel) bool {
		return kebabCase.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// ValidateCreate returns nil when in is acceptable.
func (s *Validator) ValidateCreate(in domain.CreateProjectInput) []domain.FieldViolation {
	return s.check(&in)
}

// ValidateUpdate applies the create rules to the fields that are present.
func (s *Validator) ValidateUpdate(in domain.UpdateProjectInput) []domain.FieldViolation {
	return s.check(&in)
}

func (s *Validator) check(in any) []domain.FieldViolation {
	err := s.v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldViolation{{Message: err.Error(), Rule: "invalid"}}
	}

	rv := reflect.Indirect(reflect.ValueOf(in))
	rt := rv.Type()
	out := make([]domain.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, violation(fe.Field(), fe.Tag(), fe.Value()))

		sf, ok := rt.FieldByName(fe.StructField())
		if !ok || fe.Tag() == "required" {
			continue
		}
		value := rv.FieldByName(fe.StructField())
		if value.Kind() == reflect.Pointer {
			value = value.Elem()
		}
		for _, rule := range rulesAfter(sf.Tag.Get("validate"), fe.Tag()) {
			if s.v.Var(value.Interface(), rule) != nil {
				out = append(out, violation(fe.Field(), ruleName(rule), value.Interface()))
			}
		}
	}
	return out
}

// rulesAfter lists the rules that the validator skipped once failed fired.
func rulesAfter(tag, failed string) []string {
	rules := strings.Split(tag, ",")
	for i, r := range rules {
		if ruleName(r) == failed {
			return rules[i+1:]
		}
	}
	return nil
}

func ruleName(rule string) string {
	name, _, _ := strings.Cut(rule, "=")
	return name
}

func violation(field, rule string, value any) domain.FieldViolation {
	msg, ok := messages[field+"."+rule]
	if !ok {
		msg, ok = messages[rule]
	}
	if !ok {
		msg = "Valor inválido"
	}
	return domain.FieldViolation{Field: field, Message: msg, Rule: rule, Value: value}
}

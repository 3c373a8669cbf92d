package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

// AdviceParams is the request body shared by both advice endpoints.
// Level is restricted to the three sentiment buckets the mobile client sends.
type AdviceParams struct {
	Symbol   string   `json:"symbol" validate:"required"`
	Level    string   `json:"level" validate:"required,oneof=Optimistic Neutral Pessimistic"`
	Score    float64  `json:"score"`
	Keywords []string `json:"keywords"`
}

func (params *AdviceParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

// AdviceResponse always carries exactly three suggestions.
type AdviceResponse struct {
	Suggestions []string `json:"suggestions"`
}

type HealthResponse struct {
	OK       bool   `json:"ok"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath     string `validate:"required_without=ListSchema"` // persisted graph, .json/.yaml/.yml
	ManifestsPath string // extra hcl manifests, merged over the built-in set
	OutPath       string

	StopAt      string
	Wrap        bool
	WrapSubject string `validate:"omitempty,oneof=text image"`
	WrapText    string
	WrapHref    string
	Width       int `validate:"gte=0"`
	Height      int `validate:"gte=0"`

	PublishURL   string `validate:"omitempty,url"`
	PublishEvent string

	ListSchema bool

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed '%s' validation", fe.Field(), fe.Tag()))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return &cfg, nil
}

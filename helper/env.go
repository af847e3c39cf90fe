package helper

import (
	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables into target.
// Fields without a matching variable keep their current value.
func ParseEnv(target any) error {
	err := env.Parse(target)
	if err != nil {
		return NewError("parse env", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Problems collects configuration errors so they can be reported together.
type Problems []string

func (p *Problems) NonEmpty(value, envName string) {
	if value == "" {
		*p = append(*p, fmt.Sprintf("missing required env %s", envName))
	}
}

func (p *Problems) OneOf(value, envName string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	*p = append(*p, fmt.Sprintf("env %s must be one of [%s], got %q", envName, strings.Join(allowed, " "), value))
}

func (p *Problems) Addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p Problems) Err() error {
	if len(p) == 0 {
		return nil
	}
	return errors.New(strings.Join(p, "; "))
}

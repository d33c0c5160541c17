// Package module wires the factorize service from validated options
package module

import (
	"io"
	"strings"

	"factors/internal/core/factor"
	"factors/internal/core/supplier"
	perr "factors/internal/platform/errors"
	"factors/internal/platform/validate"
	"factors/internal/services/factorize/domain"
	"factors/internal/services/factorize/service"
)

// Ports exposed by the factorize module
type Ports struct {
	Runner domain.RunnerPort
}

// Module bundles the validated options and the runner built from them
type Module struct {
	opts  Options
	mode  supplier.Mode
	ports Ports
}

// New validates opts and builds the runner. Invalid options come back as
// perr.ErrorCodeValidation errors naming the offending flag
func New(opts Options) (*Module, error) {
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}
	mode, err := supplier.ParseMode(opts.Mode)
	if err != nil {
		return nil, perr.WithField(err, "-mode")
	}

	runner := service.New(factor.TrialDivision{}, service.Config{
		Workers:     opts.Workers,
		BatchSize:   opts.BatchSize,
		LargerFirst: opts.LargerFirst,
	})
	return &Module{opts: opts, mode: mode, ports: Ports{Runner: runner}}, nil
}

// Name identifies the module in logs
func (m *Module) Name() string { return "factorize" }

// Options returns the validated options
func (m *Module) Options() Options { return m.opts }

// Ports returns the module ports
func (m *Module) Ports() Ports { return m.ports }

// Source builds a supplier over r using the configured tokenization
func (m *Module) Source(r io.Reader) *supplier.Supplier {
	return supplier.New(r, supplier.WithMode(m.mode))
}

package diagnostics

import (
	"errors"
)

var (
	COMPILER_ERROR_FOUND = errors.New("compiler error found")
)

type Collector struct {
	Diags []*Error
}

func New() *Collector {
	return &Collector{
		Diags: nil,
	}
}

// ReportAndSave stores err when it is a pipeline diagnostic and returns
// COMPILER_ERROR_FOUND in its place. Any other error is returned untouched.
func (collector *Collector) ReportAndSave(err error) error {
	var diag *Error
	if !errors.As(err, &diag) {
		return err
	}
	collector.Diags = append(collector.Diags, diag)
	return COMPILER_ERROR_FOUND
}

func (collector *Collector) HasErrors() bool {
	return len(collector.Diags) > 0
}

func (collector *Collector) First() *Error {
	if len(collector.Diags) == 0 {
		return nil
	}
	return collector.Diags[0]
}

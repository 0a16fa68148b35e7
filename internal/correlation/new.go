package correlation

import (
	pkgLog "mail-calendar-automation/pkg/log"
)

type usecase struct {
	source       WindowSource
	duplicate    Policy
	cancellation Policy
	l            pkgLog.Logger
}

// New builds the correlation service over source with the two standard presets.
func New(source WindowSource, l pkgLog.Logger) UseCase {
	return &usecase{
		source:       source,
		duplicate:    DuplicatePolicy(),
		cancellation: CancellationPolicy(),
		l:            l,
	}
}

// NewWithPolicies is New with caller-supplied policies. Both are validated.
func NewWithPolicies(source WindowSource, duplicate, cancellation Policy, l pkgLog.Logger) (UseCase, error) {
	if err := duplicate.Validate(); err != nil {
		return nil, err
	}
	if err := cancellation.Validate(); err != nil {
		return nil, err
	}
	return &usecase{
		source:       source,
		duplicate:    duplicate,
		cancellation: cancellation,
		l:            l,
	}, nil
}

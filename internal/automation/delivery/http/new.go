package http

import (
	"time"

	"mail-calendar-automation/internal/automation"
	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/internal/ledger"
	"mail-calendar-automation/pkg/log"
)

type handler struct {
	l          log.Logger
	uc         automation.UseCase
	correlator correlation.UseCase
	ledger     ledger.Ledger
	loc        *time.Location
}

// New creates the HTTP handler for the pipeline. loc is the zone naive
// date-times in requests are read in.
func New(l log.Logger, uc automation.UseCase, correlator correlation.UseCase, led ledger.Ledger, loc *time.Location) *handler {
	if loc == nil {
		loc = time.UTC
	}
	return &handler{
		l:          l,
		uc:         uc,
		correlator: correlator,
		ledger:     led,
		loc:        loc,
	}
}

package automation

import (
	"github.com/hashicorp/golang-lru/v2/expirable"

	"mail-calendar-automation/internal/calendar"
	"mail-calendar-automation/internal/correlation"
	"mail-calendar-automation/internal/extraction"
	"mail-calendar-automation/internal/ledger"
	pkgLog "mail-calendar-automation/pkg/log"
)

type usecase struct {
	mailbox    Mailbox
	extractor  extraction.Extractor
	correlator correlation.UseCase
	calendar   calendar.Repository
	ledger     ledger.Ledger
	opt        Options
	processed  *expirable.LRU[string, struct{}]
	l          pkgLog.Logger
}

// New wires the pipeline. mailbox may be nil when messages are only fed
// through ProcessConfirmation and ProcessCancellation.
func New(
	mailbox Mailbox,
	extractor extraction.Extractor,
	correlator correlation.UseCase,
	cal calendar.Repository,
	led ledger.Ledger,
	opt Options,
	l pkgLog.Logger,
) UseCase {
	if opt.MaxResults <= 0 {
		opt.MaxResults = DefaultMaxResults
	}
	if opt.ProcessedCacheSize <= 0 {
		opt.ProcessedCacheSize = DefaultProcessedCacheSize
	}
	if opt.ProcessedCacheTTL <= 0 {
		opt.ProcessedCacheTTL = DefaultProcessedCacheTTL
	}
	if l == nil {
		l = pkgLog.NewNop()
	}

	return &usecase{
		mailbox:    mailbox,
		extractor:  extractor,
		correlator: correlator,
		calendar:   cal,
		ledger:     led,
		opt:        opt,
		processed:  expirable.NewLRU[string, struct{}](opt.ProcessedCacheSize, nil, opt.ProcessedCacheTTL),
		l:          l,
	}
}

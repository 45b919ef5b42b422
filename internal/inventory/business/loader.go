package business

import (
	"context"
	"fmt"

	"goinventory_api/internal/inventory/models"
	"goinventory_api/pkg/business/service"
)

// CandidateSource is the only contract the importer/API-client layer has to
// satisfy: per-channel listing rows for a status filter. An empty channel
// selects all channels.
type CandidateSource interface {
	Listings(ctx context.Context, status, channel string) ([]models.ListingRecord, error)
}

// CandidateLoader produces the normalized listing records a matching run
// operates on. Read-only; a load failure wraps ErrDataUnavailable so callers
// can tell "zero records" from "store unreachable".
type CandidateLoader struct {
	source CandidateSource
	text   service.ITextService
}

func NewCandidateLoader(source CandidateSource, text service.ITextService) *CandidateLoader {
	return &CandidateLoader{source: source, text: text}
}

// Load returns the listing records for one channel. Listings without a title
// get one synthesized from brand and model.
func (l *CandidateLoader) Load(ctx context.Context, status, channel string) ([]models.ListingRecord, error) {
	records, err := l.source.Listings(ctx, status, channel)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s listings: %v", ErrDataUnavailable, channel, err)
	}
	for i := range records {
		if records[i].Title == "" {
			records[i].Title = l.text.ComposeTitle(records[i].Brand, records[i].Model)
		}
	}
	return records, nil
}

// LoadByChannel loads every configured channel in one pass, keyed by channel
// name. Channels with no listings map to an empty slice, which is a distinct
// outcome from a load failure.
func (l *CandidateLoader) LoadByChannel(ctx context.Context, status string, channels []string) (map[string][]models.ListingRecord, error) {
	out := make(map[string][]models.ListingRecord, len(channels))
	for _, ch := range channels {
		records, err := l.Load(ctx, status, ch)
		if err != nil {
			return nil, err
		}
		if records == nil {
			records = []models.ListingRecord{}
		}
		out[ch] = records
	}
	return out, nil
}

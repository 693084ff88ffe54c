package usecase

import (
	"ShowPulse/internal/domain/models"
)

// Merge joins quotes with collected provider records into one record per
// show, preserving the given show order. The quote is the mandatory spine;
// any subset of provider records may be missing and the record still stands.
func Merge(
	shows []string,
	quotes map[string]models.MarketQuote,
	collected map[string]map[models.ProviderKind]*models.ProviderRecord,
) []*models.MergedRecord {
	records := make([]*models.MergedRecord, 0, len(shows))
	for _, show := range shows {
		quote, ok := quotes[show]
		if !ok {
			continue
		}
		providers := make(map[models.ProviderKind]*models.ProviderRecord)
		for kind, rec := range collected[show] {
			if rec != nil {
				providers[kind] = rec
			}
		}
		records = append(records, &models.MergedRecord{
			Show:      show,
			Market:    quote,
			Providers: providers,
		})
	}
	return records
}

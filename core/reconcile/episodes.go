package reconcile

// EpisodeReconciliation is the outcome of carrying old episode state onto new records.
type EpisodeReconciliation struct {
	// Updated holds the new records whose state changed.
	Updated []Episode

	// MaxSeen is the highest recognized number seen on the old entry.
	MaxSeen float64

	// HasMaxSeen is false when the old entry had no seen recognized record.
	HasMaxSeen bool

	// MarkedSeen counts records that became seen.
	MarkedSeen int
}

// ReconcileEpisodes copies date_fetch and bookmark between records sharing a
// recognized number and marks every recognized new record up to the old
// entry's highest seen number as seen. Unrecognized records are never touched.
func ReconcileEpisodes(oldEpisodes, newEpisodes []Episode) EpisodeReconciliation {
	var out EpisodeReconciliation

	byNumber := make(map[float64]Episode, len(oldEpisodes))
	for _, ep := range oldEpisodes {
		if !ep.IsRecognizedNumber() {
			continue
		}
		// First match wins, as a linear scan over the old list would.
		if _, exists := byNumber[ep.Number]; !exists {
			byNumber[ep.Number] = ep
		}
		if ep.Seen && (!out.HasMaxSeen || ep.Number > out.MaxSeen) {
			out.MaxSeen = ep.Number
			out.HasMaxSeen = true
		}
	}

	for _, ep := range newEpisodes {
		if !ep.IsRecognizedNumber() {
			continue
		}

		updated := ep
		if prev, ok := byNumber[ep.Number]; ok {
			updated.DateFetch = prev.DateFetch
			updated.Bookmark = prev.Bookmark
		}
		if out.HasMaxSeen && updated.Number <= out.MaxSeen && !updated.Seen {
			updated.Seen = true
			out.MarkedSeen++
		}

		if updated != ep {
			out.Updated = append(out.Updated, updated)
		}
	}

	return out
}

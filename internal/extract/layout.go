package extract

import "regexp"

// Layout is the structural description of one marketplace's listing pages:
// ordered selector hypotheses for fragments, per-field probes and link
// selectors. Layouts are read-only once built and safe to share.
type Layout struct {
	// Listing selectors are tried in order; the first that matches anything
	// is used for the whole page.
	Listing []string
	// FallbackContainers are scanned when no Listing selector matches; an
	// element qualifies when its class attribute matches FallbackClass.
	FallbackContainers string
	FallbackClass      *regexp.Regexp

	Title       []Probe
	Price       []Probe
	Supplier    []Probe
	Location    []Probe
	Description []Probe
	Image       []Probe
	Link        []Probe

	// Links are selector hypotheses for anchors to detail pages.
	Links []string
}

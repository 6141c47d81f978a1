package config

import (
	"strings"

	"indicli/pkg/contracts/domain"
)

// catalog is the built-in set of indicators the dashboard tracks: market
// price indices plus composite cost indices derived from weighted BLS PPI
// components. Collectors drop files named after the indicator ID; anything
// not listed here still loads, with metadata derived from its ID.
var catalog = []domain.Metadata{
	{
		ID:                 "cruspi",
		Name:               "CRU Steel Price Index",
		Source:             "CRU",
		PreferredDirection: domain.DirectionNeutral,
		Description:        "CRU Steel Price Index tracks steel price movements globally",
	},
	{
		ID:                 "cruspi_long",
		Name:               "CRU Long Products Index",
		Source:             "CRU",
		PreferredDirection: domain.DirectionNeutral,
		Description:        "CRU Steel Price Index for Long Products tracks price movements for steel long products",
	},
	{
		ID:                 "wti_oil",
		Name:               "WTI Crude Oil Price",
		Source:             "EIA",
		Unit:               "$",
		PreferredDirection: domain.DirectionDown,
		Description:        "West Texas Intermediate Crude Oil price, U.S. benchmark for oil prices",
	},
	{
		ID:                 "supply_chain",
		Name:               "NY Fed Supply Chain Pressure Index",
		Source:             "NY Fed",
		PreferredDirection: domain.DirectionDown,
		Description:        "Tracks global supply chain conditions (negative values = lower pressure)",
	},
	{
		ID:                 "ppi_steel_scrap",
		Name:               "BLS Steel Scrap Price Index",
		Source:             "BLS",
		PreferredDirection: domain.DirectionDown,
		Description:        "Producer Price Index for Metals and Metal Products: Carbon Steel Scrap",
	},
	{
		ID:                 "pmi_input_us",
		Name:               "ISM Manufacturing PMI Input Prices",
		Source:             "ISM",
		PreferredDirection: domain.DirectionDown,
		Description:        "PMI Input Prices index tracks price changes paid by manufacturers",
	},
	{
		ID:                 "ism_supplier_deliveries",
		Name:               "ISM Supplier Deliveries Index",
		Source:             "ISM",
		PreferredDirection: domain.DirectionDown,
		Description:        "ISM Supplier Deliveries Index; values above 50 indicate slower deliveries",
	},
	{
		ID:                 "baltic_dry_index",
		Name:               "Baltic Dry Index",
		Source:             "Baltic Exchange",
		PreferredDirection: domain.DirectionNeutral,
		Description:        "Shipping cost index for raw materials, a proxy for global trade volume",
	},
	{
		ID:                 "dollar_index",
		Name:               "US Dollar Index",
		Source:             "ICE",
		PreferredDirection: domain.DirectionNeutral,
		Description:        "Value of the US dollar relative to a basket of foreign currencies",
	},
	{
		ID:                 "empire_prices_paid",
		Name:               "NY Fed Empire State 6M Ahead Prices Paid",
		Source:             "NY Fed",
		PreferredDirection: domain.DirectionDown,
		Description:        "Expected price changes over the next 6 months in the NY manufacturing sector",
	},
	{
		ID:                 "komatsu_equipment",
		Name:               "Komatsu Heavy Equipment Cost Index",
		Source:             "BLS PPI composite",
		PreferredDirection: domain.DirectionDown,
		Description:        "Composite cost index for Komatsu heavy equipment based on weighted BLS PPI components",
	},
	{
		ID:                 "caterpillar_equipment",
		Name:               "Caterpillar Equipment Cost Index",
		Source:             "BLS PPI composite",
		PreferredDirection: domain.DirectionDown,
		Description:        "Composite cost index for Caterpillar equipment based on weighted BLS PPI components",
	},
	{
		ID:                 "sms_equipment",
		Name:               "SMS Equipment Cost Index",
		Source:             "BLS PPI composite",
		PreferredDirection: domain.DirectionDown,
		Description:        "Composite cost index for SMS equipment based on weighted BLS PPI components",
	},
	{
		ID:                 "fabricated_steel",
		Name:               "Fabricated Structural Steel Cost Index",
		Source:             "BLS PPI composite",
		PreferredDirection: domain.DirectionDown,
		Description:        "Composite cost index for fabricated structural steel based on weighted BLS PPI components",
	},
	{
		ID:                 "cement_ready_mix",
		Name:               "Cement and Ready-Mix Cost Index",
		Source:             "BLS PPI composite",
		PreferredDirection: domain.DirectionDown,
		Description:        "Composite cost index for cement and ready-mix based on weighted BLS PPI components",
	},
	{
		ID:                 "explosives",
		Name:               "Explosives & Accessories Cost Index",
		Source:             "BLS PPI composite",
		PreferredDirection: domain.DirectionDown,
		Description:        "Composite cost index for explosives and accessories based on weighted BLS PPI components",
	},
}

// Catalog returns the metadata for every built-in indicator.
func Catalog() []domain.Metadata {
	out := make([]domain.Metadata, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogIDs returns the built-in indicator IDs in catalog order.
func CatalogIDs() []string {
	ids := make([]string, len(catalog))
	for i, m := range catalog {
		ids[i] = m.ID
	}
	return ids
}

// LookupMetadata returns the catalog entry for an indicator ID. Unknown IDs
// get metadata derived from the ID itself so ad-hoc files still render.
func LookupMetadata(id string) domain.Metadata {
	for _, m := range catalog {
		if m.ID == id {
			return m
		}
	}
	return domain.Metadata{
		ID:                 id,
		Name:               titleFromID(id),
		PreferredDirection: domain.DirectionNeutral,
		Description:        titleFromID(id) + " indicator",
	}
}

// IsCatalogID reports whether an ID belongs to the built-in catalog.
func IsCatalogID(id string) bool {
	for _, m := range catalog {
		if m.ID == id {
			return true
		}
	}
	return false
}

func titleFromID(id string) string {
	words := strings.Split(id, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

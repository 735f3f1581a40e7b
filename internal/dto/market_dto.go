package dto

// MarketSnapshotRequest is bound from the path and query string.
type MarketSnapshotRequest struct {
	Symbol string `validate:"required,max=10"`
	Period string `validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y 5y ytd max"`
}

type MarketSnapshotResponse struct {
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`
	Snapshot string `json:"snapshot"`
}

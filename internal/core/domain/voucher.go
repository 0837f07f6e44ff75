package domain

// VoucherParts is the decoded form of a voucher number such as VCH-2025-00001.
type VoucherParts struct {
	Prefix   string `json:"prefix"`
	Year     int    `json:"year"`
	Sequence int    `json:"sequence"`
}

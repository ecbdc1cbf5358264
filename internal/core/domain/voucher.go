package domain

import "fmt"

// VoucherSequence identifies an independent per-organization counter.
type VoucherSequence string

const (
	VoucherSequenceInflow     VoucherSequence = "INFLOW"
	VoucherSequenceOutflow    VoucherSequence = "OUTFLOW"
	VoucherSequenceAdjustment VoucherSequence = "ADJUSTMENT"
	VoucherSequenceTransfer   VoucherSequence = "TRANSFER"
)

// Transfer leg suffixes appended to a shared voucher root.
const (
	VoucherSuffixDebit  = "-DR"
	VoucherSuffixCredit = "-CR"
)

// SequenceForEntryType maps an entry type to its voucher counter.
func SequenceForEntryType(t EntryType) VoucherSequence {
	switch t {
	case EntryTypeInflow:
		return VoucherSequenceInflow
	case EntryTypeOutflow:
		return VoucherSequenceOutflow
	case EntryTypeAdjustment:
		return VoucherSequenceAdjustment
	}
	panic(fmt.Sprintf("unknown entry type %q", string(t)))
}

// Prefix is the letter a voucher number of this sequence starts with.
func (s VoucherSequence) Prefix() string {
	switch s {
	case VoucherSequenceInflow:
		return "R"
	case VoucherSequenceOutflow:
		return "P"
	case VoucherSequenceAdjustment:
		return "J"
	case VoucherSequenceTransfer:
		return "T"
	}
	return "J"
}

// FormatVoucher renders a counter value, e.g. R-000042.
func FormatVoucher(seq VoucherSequence, value int64) string {
	return fmt.Sprintf("%s-%06d", seq.Prefix(), value)
}

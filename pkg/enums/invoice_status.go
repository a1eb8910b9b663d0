package enums

import "fmt"

// InvoiceStatus tracks the lifecycle of a consolidated invoice.
type InvoiceStatus string

const (
	InvoiceStatusInProcess InvoiceStatus = "proceso"
	InvoiceStatusClosed    InvoiceStatus = "cerrada"
)

var validInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusInProcess,
	InvoiceStatusClosed,
}

// String implements fmt.Stringer.
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s InvoiceStatus) IsValid() bool {
	for _, candidate := range validInvoiceStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseInvoiceStatus converts a raw string into an InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	for _, candidate := range validInvoiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice status %q", value)
}

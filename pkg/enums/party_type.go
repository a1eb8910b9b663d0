package enums

import "fmt"

// PartyType distinguishes the two roles a tercero can play.
type PartyType string

const (
	PartyTypeClient   PartyType = "cliente"
	PartyTypeSupplier PartyType = "proveedor"
)

var validPartyTypes = []PartyType{
	PartyTypeClient,
	PartyTypeSupplier,
}

// String implements fmt.Stringer.
func (p PartyType) String() string {
	return string(p)
}

// IsValid reports whether the party type is recognized.
func (p PartyType) IsValid() bool {
	for _, candidate := range validPartyTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartyType converts a raw string into a PartyType.
func ParsePartyType(value string) (PartyType, error) {
	for _, candidate := range validPartyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid party type %q", value)
}

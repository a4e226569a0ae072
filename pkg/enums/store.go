package enums

import (
	"fmt"
	"strings"
)

// StoreType is the kind of neighborhood shop a store is.
type StoreType string

const (
	StoreTypeKirana      StoreType = "Kirana"
	StoreTypeClothing    StoreType = "Clothing"
	StoreTypeElectronics StoreType = "Electronics"
	StoreTypeMedical     StoreType = "Medical"
	StoreTypePaints      StoreType = "Paints"
	StoreTypeShoes       StoreType = "Shoes"
	StoreTypeBakery      StoreType = "Bakery"
	StoreTypeGeneral     StoreType = "General"
	StoreTypeAutoParts   StoreType = "Auto Parts"
)

var validStoreTypes = []StoreType{
	StoreTypeKirana,
	StoreTypeClothing,
	StoreTypeElectronics,
	StoreTypeMedical,
	StoreTypePaints,
	StoreTypeShoes,
	StoreTypeBakery,
	StoreTypeGeneral,
	StoreTypeAutoParts,
}

// String implements fmt.Stringer.
func (s StoreType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StoreType.
func (s StoreType) IsValid() bool {
	for _, candidate := range validStoreTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// StoreTypes returns every known store type in display order.
func StoreTypes() []StoreType {
	out := make([]StoreType, len(validStoreTypes))
	copy(out, validStoreTypes)
	return out
}

// ParseStoreType converts raw input into a StoreType. Matching ignores case.
func ParseStoreType(value string) (StoreType, error) {
	for _, candidate := range validStoreTypes {
		if strings.EqualFold(string(candidate), strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid store type %q", value)
}

package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Valores aceitos pelo documento AWS-GatherSoftwareInventory.
const (
	CategoryEnabled  = "Enabled"
	CategoryDisabled = "Disabled"
)

// Category parameter names, in the order they are rendered.
const (
	CategoryApplications                = "applications"
	CategoryAWSComponents               = "awsComponents"
	CategoryCustomInventory             = "customInventory"
	CategoryInstanceDetailedInformation = "instanceDetailedInformation"
	CategoryNetworkConfig               = "networkConfig"
	CategoryServices                    = "services"
	CategoryWindowsRoles                = "windowsRoles"
	CategoryWindowsUpdates              = "windowsUpdates"
)

// ErrUnknownCategory is returned when a category name is not one of the eight
// inventory categories.
var ErrUnknownCategory = errors.New("unknown inventory category")

// CategoryNames lists every inventory category in render order.
var CategoryNames = []string{
	CategoryApplications,
	CategoryAWSComponents,
	CategoryCustomInventory,
	CategoryInstanceDetailedInformation,
	CategoryNetworkConfig,
	CategoryServices,
	CategoryWindowsRoles,
	CategoryWindowsUpdates,
}

// InventoryCategories selects the types of data collected from managed instances.
// A nil field means "use the default", which is enabled. Services, WindowsRoles and
// WindowsUpdates only apply to Windows instances.
type InventoryCategories struct {
	Applications                *bool
	AWSComponents               *bool
	CustomInventory             *bool
	InstanceDetailedInformation *bool
	NetworkConfig               *bool
	Services                    *bool
	WindowsRoles                *bool
	WindowsUpdates              *bool
}

// CategoryParameter is one rendered category: its parameter name and state.
type CategoryParameter struct {
	Name  string
	Value string
}

// Parameters resolves every category to Enabled or Disabled, always in the order of
// CategoryNames.
func (c InventoryCategories) Parameters() []CategoryParameter {
	params := make([]CategoryParameter, 0, len(CategoryNames))
	for _, name := range CategoryNames {
		value := CategoryEnabled
		if !enabledOrDefault(c.field(name)) {
			value = CategoryDisabled
		}
		params = append(params, CategoryParameter{Name: name, Value: value})
	}
	return params
}

// Set overrides a single category by parameter name (case-insensitive).
func (c *InventoryCategories) Set(name string, enabled bool) error {
	canonical, ok := canonicalCategory(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	v := enabled
	switch canonical {
	case CategoryApplications:
		c.Applications = &v
	case CategoryAWSComponents:
		c.AWSComponents = &v
	case CategoryCustomInventory:
		c.CustomInventory = &v
	case CategoryInstanceDetailedInformation:
		c.InstanceDetailedInformation = &v
	case CategoryNetworkConfig:
		c.NetworkConfig = &v
	case CategoryServices:
		c.Services = &v
	case CategoryWindowsRoles:
		c.WindowsRoles = &v
	case CategoryWindowsUpdates:
		c.WindowsUpdates = &v
	}
	return nil
}

// CategoriesFromMap builds categories from a name → enabled map, as found in
// configuration files. Unknown names are rejected.
func CategoriesFromMap(values map[string]bool) (InventoryCategories, error) {
	var categories InventoryCategories
	for name, enabled := range values {
		if err := categories.Set(name, enabled); err != nil {
			return InventoryCategories{}, err
		}
	}
	return categories, nil
}

func (c InventoryCategories) field(name string) *bool {
	switch name {
	case CategoryApplications:
		return c.Applications
	case CategoryAWSComponents:
		return c.AWSComponents
	case CategoryCustomInventory:
		return c.CustomInventory
	case CategoryInstanceDetailedInformation:
		return c.InstanceDetailedInformation
	case CategoryNetworkConfig:
		return c.NetworkConfig
	case CategoryServices:
		return c.Services
	case CategoryWindowsRoles:
		return c.WindowsRoles
	case CategoryWindowsUpdates:
		return c.WindowsUpdates
	}
	return nil
}

func canonicalCategory(name string) (string, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	for _, candidate := range CategoryNames {
		if strings.ToLower(candidate) == normalized {
			return candidate, true
		}
	}
	return "", false
}

func enabledOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// Bool returns a pointer to v. Útil para preencher campos opcionais.
func Bool(v bool) *bool {
	return &v
}

package models

// Store keys for the two backing Shopify accounts.
const (
	StoreAutospec = "autospec"
	StoreLinex    = "linex"
)

// Well-known wizard step IDs with special completion rules.
const (
	StepVehicleSelect = "vehicle_select"
	StepCustomerForm  = "customer_form"
)

// Selection modes for a wizard step.
const (
	SelectionSingle   = "single"
	SelectionMultiple = "multiple"
	SelectionNone     = "none"
)

// WizardStep is one ordered step of the quote builder.
type WizardStep struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	SelectionMode string `json:"selectionMode"`
	Required      bool   `json:"required"`
}

// Vehicle is a selectable vehicle in the first wizard step.
type Vehicle struct {
	ID    string `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Item is a catalog entry tied to a wizard step, with one Shopify variant ID
// per backing store. An empty VehicleTypeKeys list means the item fits all
// vehicles.
type Item struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	StepID           string           `json:"stepId"`
	VariantIDByStore map[string]int64 `json:"variantIdByStore"`
	VehicleTypeKeys  []string         `json:"vehicleTypeKeys,omitempty"`
}

// SampleVariantID returns the variant ID used for store-agnostic lookups,
// preferring the autospec ID when both are present.
func (i Item) SampleVariantID() (int64, bool) {
	if id, ok := i.VariantIDByStore[StoreAutospec]; ok && id > 0 {
		return id, true
	}
	if id, ok := i.VariantIDByStore[StoreLinex]; ok && id > 0 {
		return id, true
	}
	return 0, false
}

// Catalog is the full seed dataset served to the wizard.
type Catalog struct {
	Steps    []WizardStep `json:"steps"`
	Vehicles []Vehicle    `json:"vehicles"`
	Items    []Item       `json:"items"`
}

// ItemByID returns the item with the given ID, if present.
func (c *Catalog) ItemByID(id string) (Item, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// VehicleByID returns the vehicle with the given ID, if present.
func (c *Catalog) VehicleByID(id string) (Vehicle, bool) {
	for _, v := range c.Vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

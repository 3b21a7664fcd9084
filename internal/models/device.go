package models

// DeviceState describes the usage state of a device.
type DeviceState string

const (
	DeviceStateAvailable DeviceState = "AVAILABLE"
	DeviceStateInUse     DeviceState = "IN_USE"
	DeviceStateInactive  DeviceState = "INACTIVE"
)

func (s DeviceState) Valid() bool {
	switch s {
	case DeviceStateAvailable, DeviceStateInUse, DeviceStateInactive:
		return true
	}
	return false
}

// Device is a physical unit tracked by the inventory.
// Name and Brand are normalized mirrors of the display fields, maintained
// by the lifecycle service for search matching. Version increments by one
// on every successful write and backs optimistic concurrency detection.
type Device struct {
	Base
	DisplayName  string      `gorm:"size:255" json:"display_name" example:"iPhone 15 Pro"`
	DisplayBrand string      `gorm:"size:100" json:"display_brand" example:"Apple"`
	Name         string      `gorm:"size:255;index" json:"name" example:"iphone 15 pro"`
	Brand        string      `gorm:"size:100;index" json:"brand" example:"apple"`
	State        DeviceState `gorm:"size:20;index" json:"state" example:"AVAILABLE"`
	Version      uint64      `json:"version"`
}

func (d *Device) InUse() bool {
	return d.State == DeviceStateInUse
}

// AddDevice is the information needed to add a new Device.
type AddDevice struct {
	DisplayName  string       `json:"display_name" example:"iPhone 15 Pro"`
	DisplayBrand string       `json:"display_brand" example:"Apple"`
	State        *DeviceState `json:"state,omitempty" example:"AVAILABLE"`
}

// UpdateDevice is the information needed to partially update a Device.
// Nil fields are left unchanged.
type UpdateDevice struct {
	DisplayName  *string      `json:"display_name,omitempty" example:"iPhone 15 Pro"`
	DisplayBrand *string      `json:"display_brand,omitempty" example:"Apple"`
	State        *DeviceState `json:"state,omitempty" example:"IN_USE"`
}

// DevicePage is one page of a device listing.
type DevicePage struct {
	Content       []*Device `json:"content"`
	PageNumber    int       `json:"page_number"`
	PageSize      int       `json:"page_size"`
	TotalElements int64     `json:"total_elements"`
	TotalPages    int       `json:"total_pages"`
	Last          bool      `json:"last"`
}

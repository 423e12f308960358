package models

import "time"

// Equipment status values
const (
	EquipmentStatusActive      = "active"
	EquipmentStatusMaintenance = "maintenance"
	EquipmentStatusInactive    = "inactive"
)

// Operator status values
const (
	OperatorStatusActive   = "active"
	OperatorStatusInactive = "inactive"
	OperatorStatusOnLeave  = "on_leave"
)

// Equipment is a production tool that processes lots.
type Equipment struct {
	ID           int       `json:"equipment_id"`
	Code         string    `json:"equipment_code" validate:"required,max=50"`
	Name         string    `json:"equipment_name" validate:"required,max=100"`
	Type         string    `json:"equipment_type" validate:"required,max=50"`
	Location     *string   `json:"location" validate:"omitempty,max=100"`
	Manufacturer *string   `json:"manufacturer" validate:"omitempty,max=100"`
	InstallDate  *Date     `json:"install_date"`
	Status       string    `json:"status" validate:"omitempty,oneof=active maintenance inactive"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Operator is a person who runs lots and inspects quality results.
type Operator struct {
	ID             int       `json:"operator_id"`
	Code           string    `json:"operator_code" validate:"required,max=50"`
	Name           string    `json:"operator_name" validate:"required,max=100"`
	EmployeeNumber *string   `json:"employee_number" validate:"omitempty,max=50"`
	Department     *string   `json:"department" validate:"omitempty,max=100"`
	HireDate       *Date     `json:"hire_date"`
	Email          *string   `json:"email" validate:"omitempty,email,max=100"`
	Status         string    `json:"status" validate:"omitempty,oneof=active inactive on_leave"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Shift is a named time-of-day window. Times are "HH:MM:SS".
// A shift whose end is before its start wraps past midnight.
type Shift struct {
	ID          int       `json:"shift_id"`
	Code        string    `json:"shift_code" validate:"required,max=20"`
	Name        string    `json:"shift_name" validate:"required,max=50"`
	StartTime   string    `json:"start_time" validate:"required,datetime=15:04:05"`
	EndTime     string    `json:"end_time" validate:"required,datetime=15:04:05"`
	Description *string   `json:"description" validate:"omitempty,max=200"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductType is a product family member with a yield target in percent.
type ProductType struct {
	ID                   int       `json:"product_type_id"`
	Code                 string    `json:"product_code" validate:"required,max=50"`
	Name                 string    `json:"product_name" validate:"required,max=100"`
	Family               string    `json:"product_family" validate:"required,max=50"`
	TargetYield          float64   `json:"target_yield" validate:"gte=0,lte=100"`
	SpecificationVersion *string   `json:"specification_version" validate:"omitempty,max=20"`
	CreatedAt            time.Time `json:"created_at"`
}

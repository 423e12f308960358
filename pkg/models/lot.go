package models

import "time"

// Lot status values
const (
	LotStatusInProgress  = "in_progress"
	LotStatusCompleted   = "completed"
	LotStatusQualityHold = "quality_hold"
	LotStatusReleased    = "released"
	LotStatusScrapped    = "scrapped"
)

// DefaultWaferCount is applied when a lot is created without a wafer count.
const DefaultWaferCount = 25

// Lot is a batch of wafers processed together on one equipment, by one
// operator, during one shift.
type Lot struct {
	ID              int        `json:"lot_id"`
	LotNumber       string     `json:"lot_number" validate:"required,max=100"`
	ProductTypeID   int        `json:"product_type_id" validate:"required,gt=0"`
	EquipmentID     int        `json:"equipment_id" validate:"required,gt=0"`
	OperatorID      int        `json:"operator_id" validate:"required,gt=0"`
	ShiftID         int        `json:"shift_id" validate:"required,gt=0"`
	ProductionStart time.Time  `json:"production_start" validate:"required"`
	ProductionEnd   *time.Time `json:"production_end" validate:"omitempty,gtefield=ProductionStart"`
	WaferCount      int        `json:"wafer_count" validate:"gte=0"`
	Status          string     `json:"status" validate:"omitempty,oneof=in_progress completed quality_hold released scrapped"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// LotFilters are the optional predicates of a lot listing. A nil field
// matches every lot; the rest are combined with AND. Date bounds are
// inclusive and compare against ProductionStart.
type LotFilters struct {
	EquipmentID *int
	OperatorID  *int
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

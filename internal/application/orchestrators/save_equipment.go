package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/equipment"
)

// DefaultMaintenanceInterval is used when recording a service without an
// explicit next date.
const DefaultMaintenanceInterval = 90 * 24 * time.Hour

// EquipmentStore defines the store interface for equipment orchestrators.
type EquipmentStore interface {
	GetByID(ctx context.Context, id string) (equipment.Equipment, error)
	Save(ctx context.Context, e equipment.Equipment) error
}

// SaveEquipmentInput carries input for creating or editing equipment.
// A blank EquipmentID means create.
type SaveEquipmentInput struct {
	EquipmentID string
	Equipment   equipment.Equipment
}

// SaveEquipmentDeps holds dependencies for equipment orchestrators.
type SaveEquipmentDeps struct {
	EquipmentStore EquipmentStore
	Now            func() time.Time
}

// ExecuteSaveEquipment creates or updates an equipment record.
// PRE: Admin-only operation
// POST: Equipment persisted
func ExecuteSaveEquipment(ctx context.Context, input SaveEquipmentInput, deps SaveEquipmentDeps) (string, error) {
	e := input.Equipment

	if input.EquipmentID == "" {
		e.ID = uuid.New().String()
		if e.Status == "" {
			e.Status = equipment.StatusActive
		}
	} else {
		existing, err := deps.EquipmentStore.GetByID(ctx, input.EquipmentID)
		if err != nil {
			return "", err
		}
		e.ID = existing.ID
		if e.Status == "" {
			e.Status = existing.Status
		}
	}

	if err := e.Validate(); err != nil {
		return "", err
	}
	if err := deps.EquipmentStore.Save(ctx, e); err != nil {
		return "", err
	}

	slog.Info("equipment_saved", "equipment_id", e.ID, "name", e.Name)
	return e.ID, nil
}

// ExecuteRecordMaintenance stamps a completed service on an item.
// PRE: Item exists and is not retired
// POST: LastMaintenance set to now, NextMaintenance scheduled, status active
func ExecuteRecordMaintenance(ctx context.Context, equipmentID string, deps SaveEquipmentDeps) error {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	e, err := deps.EquipmentStore.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}
	if err := e.RecordMaintenance(now(), DefaultMaintenanceInterval); err != nil {
		return err
	}
	if err := deps.EquipmentStore.Save(ctx, e); err != nil {
		return err
	}

	slog.Info("equipment_maintained", "equipment_id", e.ID, "next", e.NextMaintenance)
	return nil
}

// ExecuteRetireEquipment soft-deletes an item.
// POST: Status is retired; row remains for reporting
func ExecuteRetireEquipment(ctx context.Context, equipmentID string, deps SaveEquipmentDeps) error {
	e, err := deps.EquipmentStore.GetByID(ctx, equipmentID)
	if err != nil {
		return err
	}
	e.Retire()
	return deps.EquipmentStore.Save(ctx, e)
}

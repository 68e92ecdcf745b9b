package ticket

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"weighscale/internal/models"
)

var (
	ErrMaterialRequired = errors.New("material is required")
	ErrInvalidWeight    = errors.New("weight must be a finite number")
	ErrInvalidStatus    = errors.New("invalid ticket status")
	ErrNoFields         = errors.New("no update fields provided")
)

// CreateInput is the payload for opening a new ticket. Weights are optional:
// a vehicle entering loaded gets only a gross weight at this point.
type CreateInput struct {
	CustomerID  *uint    `json:"customer_id"`
	VehicleID   string   `json:"vehicle_id"`
	Material    string   `json:"material"`
	GrossWeight *float64 `json:"gross_weight"`
	TareWeight  *float64 `json:"tare_weight"`
	Unit        string   `json:"unit"`
	Notes       string   `json:"notes"`
}

// GenerateNumber builds a ticket number from the creation date and a 4-digit
// random suffix, e.g. 2026-09-01-4821.
func GenerateNumber(now time.Time) string {
	return fmt.Sprintf("%s-%04d", now.Format("2006-01-02"), 1000+rand.Intn(9000))
}

// Derive turns a creation payload into a consistent ticket row:
// net = gross - tare when both weights are present, status completed iff the
// net weight is derivable, weigh-in stamped when a gross weight is recorded,
// weigh-out stamped only when both weights arrive at creation.
func Derive(in CreateInput, number string, now time.Time) (*models.WeighTicket, error) {
	if in.Material == "" {
		return nil, ErrMaterialRequired
	}
	if err := checkWeight(in.GrossWeight); err != nil {
		return nil, err
	}
	if err := checkWeight(in.TareWeight); err != nil {
		return nil, err
	}

	t := &models.WeighTicket{
		TicketNumber: number,
		CustomerID:   in.CustomerID,
		VehicleID:    in.VehicleID,
		Material:     in.Material,
		GrossWeight:  in.GrossWeight,
		TareWeight:   in.TareWeight,
		Unit:         in.Unit,
		Notes:        in.Notes,
		Status:       string(models.TicketPending),
		BackupStatus: string(models.BackupPending),
	}
	if t.Unit == "" {
		t.Unit = "kg"
	}

	if in.GrossWeight != nil && in.TareWeight != nil {
		net := *in.GrossWeight - *in.TareWeight
		t.NetWeight = &net
		t.Status = string(models.TicketCompleted)
	}

	if in.GrossWeight != nil {
		weighIn := now
		t.WeighInTime = &weighIn
	}
	if in.GrossWeight != nil && in.TareWeight != nil {
		weighOut := now
		t.WeighOutTime = &weighOut
	}

	return t, nil
}

// Apply computes the column assignments for a partial update against the
// current row. It never mutates current; the caller applies the returned
// assignments and re-reads inside the same transaction.
func Apply(current *models.WeighTicket, p Patch, now time.Time) (map[string]interface{}, error) {
	if p.empty() {
		return nil, ErrNoFields
	}
	if err := checkWeightField(p.GrossWeight); err != nil {
		return nil, err
	}
	if err := checkWeightField(p.TareWeight); err != nil {
		return nil, err
	}
	if p.Material.Set && (p.Material.Value == nil || *p.Material.Value == "") {
		return nil, ErrMaterialRequired
	}
	if p.Status.Set {
		if p.Status.Value == nil || !validStatus(*p.Status.Value) {
			return nil, ErrInvalidStatus
		}
	}

	assignments := map[string]interface{}{}

	if p.CustomerID.Set {
		assignments["customer_id"] = p.CustomerID.Value
	}
	if p.VehicleID.Set {
		assignments["vehicle_id"] = stringOrEmpty(p.VehicleID.Value)
	}
	if p.Material.Set {
		assignments["material"] = *p.Material.Value
	}
	if p.Unit.Set {
		assignments["unit"] = stringOrEmpty(p.Unit.Value)
	}
	if p.Notes.Set {
		assignments["notes"] = stringOrEmpty(p.Notes.Value)
	}

	// One-shot weigh event timestamps: stamped when a weight transitions
	// from unset to set, never moved by later corrections.
	if p.GrossWeight.Set {
		assignments["gross_weight"] = p.GrossWeight.Value
		if weightSet(p.GrossWeight.Value) && !weightSet(current.GrossWeight) {
			assignments["weigh_in_time"] = now
		}
	}
	if p.TareWeight.Set {
		assignments["tare_weight"] = p.TareWeight.Value
		if weightSet(p.TareWeight.Value) && !weightSet(current.TareWeight) {
			assignments["weigh_out_time"] = now
		}
	}

	finalGross := current.GrossWeight
	if p.GrossWeight.Set {
		finalGross = p.GrossWeight.Value
	}
	finalTare := current.TareWeight
	if p.TareWeight.Set {
		finalTare = p.TareWeight.Value
	}

	var net *float64
	if finalGross != nil && finalTare != nil {
		v := *finalGross - *finalTare
		net = &v
		assignments["net_weight"] = net
	} else if p.GrossWeight.Set || p.TareWeight.Set {
		// One side of the pair was cleared; the derived weight must not
		// survive it.
		assignments["net_weight"] = nil
	}

	if p.Status.Set {
		assignments["status"] = *p.Status.Value
	} else if finalGross != nil && finalTare != nil && net != nil {
		assignments["status"] = string(models.TicketCompleted)
	} else if finalGross != nil || finalTare != nil {
		assignments["status"] = string(models.TicketPending)
	}

	assignments["updated_at"] = now

	return assignments, nil
}

func validStatus(s string) bool {
	switch models.TicketStatus(s) {
	case models.TicketPending, models.TicketCompleted, models.TicketCancelled:
		return true
	}
	return false
}

// weightSet mirrors the recorded-weight check used for event stamping: a
// zero reading is treated the same as no reading.
func weightSet(w *float64) bool {
	return w != nil && *w != 0
}

func checkWeight(w *float64) error {
	if w != nil && (math.IsNaN(*w) || math.IsInf(*w, 0)) {
		return ErrInvalidWeight
	}
	return nil
}

func checkWeightField(f Field[float64]) error {
	if !f.Set {
		return nil
	}
	return checkWeight(f.Value)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

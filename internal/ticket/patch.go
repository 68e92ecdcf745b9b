package ticket

import (
	"encoding/json"
)

// Field is a tri-state JSON patch field: absent, present-null, or
// present-value. A key must appear in the payload for the field to be
// considered, and must be present-and-null to clear it. This replaces the
// "truthy merge" that silently drops legitimate zero/empty updates.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Patch is a partial update to a weigh ticket. Only fields whose keys were
// present in the request body have Set true.
type Patch struct {
	CustomerID  Field[uint]    `json:"customer_id"`
	VehicleID   Field[string]  `json:"vehicle_id"`
	Material    Field[string]  `json:"material"`
	GrossWeight Field[float64] `json:"gross_weight"`
	TareWeight  Field[float64] `json:"tare_weight"`
	Unit        Field[string]  `json:"unit"`
	Notes       Field[string]  `json:"notes"`
	Status      Field[string]  `json:"status"`
}

// empty reports whether no recognized key was present in the request body.
func (p Patch) empty() bool {
	return !p.CustomerID.Set && !p.VehicleID.Set && !p.Material.Set &&
		!p.GrossWeight.Set && !p.TareWeight.Set && !p.Unit.Set &&
		!p.Notes.Set && !p.Status.Set
}

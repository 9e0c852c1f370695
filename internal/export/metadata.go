package export

import (
	"time"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/floorplan"
)

// FeetToMeters converts plan lengths to meters.
const FeetToMeters = 0.3048

// SquareFeetToSquareMeters converts plan areas to square meters.
const SquareFeetToSquareMeters = FeetToMeters * FeetToMeters

// Metadata is the metric-unit summary attached to exported documents.
type Metadata struct {
	PlanID         string    `json:"planId,omitempty"`
	Revision       string    `json:"revision,omitempty"`
	SavedAt        time.Time `json:"savedAt,omitzero"`
	Units          string    `json:"units"`
	TotalArea      float64   `json:"totalArea"`
	EquipmentArea  float64   `json:"equipmentArea"`
	WallHeight     float64   `json:"wallHeight"`
	UtilizationPct float64   `json:"utilizationPct"`
	PalletCapacity int       `json:"palletCapacity"`
	ItemCount      int       `json:"itemCount"`
	DoorCount      int       `json:"doorCount"`
	WindowCount    int       `json:"windowCount"`
}

// NewMetadata converts m and the wall height to meters.
func NewMetadata(m floorplan.Metrics, wallHeight float64) Metadata {
	return Metadata{
		Units:          "m",
		TotalArea:      m.TotalArea * SquareFeetToSquareMeters,
		EquipmentArea:  m.EquipmentArea * SquareFeetToSquareMeters,
		WallHeight:     wallHeight * FeetToMeters,
		UtilizationPct: m.Utilization,
		PalletCapacity: m.PalletCapacity,
		ItemCount:      m.ItemCount,
		DoorCount:      m.DoorCount,
		WindowCount:    m.WindowCount,
	}
}

// DocumentMetadata converts a saved document.
func DocumentMetadata(d *floorplan.Document) Metadata {
	st := d.State()
	md := NewMetadata(floorplan.ComputeMetrics(st), st.WallHeight)
	md.PlanID = d.PlanID
	md.Revision = d.Revision
	md.SavedAt = d.SavedAt
	return md
}

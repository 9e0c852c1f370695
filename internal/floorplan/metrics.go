package floorplan

import "github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/geometry"

// Opening types stored in WallOpening.Type.
const (
	OpeningDoor   = "door"
	OpeningWindow = "window"
)

// Metrics are derived from a State on demand.
type Metrics struct {
	TotalArea      float64 `json:"totalArea"`
	EquipmentArea  float64 `json:"equipmentArea"`
	PalletCapacity int     `json:"palletCapacity"`
	Utilization    float64 `json:"utilization"`
	ItemCount      int     `json:"itemCount"`
	DoorCount      int     `json:"doorCount"`
	WindowCount    int     `json:"windowCount"`
}

// ComputeMetrics derives area, utilization and counts from s.
func ComputeMetrics(s State) Metrics {
	m := Metrics{
		TotalArea: geometry.PolygonArea(s.Vertices),
		ItemCount: len(s.Items),
	}
	for _, it := range s.Items {
		m.EquipmentArea += it.W * it.H
		m.PalletCapacity += it.Pallets
	}
	if m.TotalArea > 0 {
		m.Utilization = m.EquipmentArea / m.TotalArea * 100
	}
	for _, o := range s.Openings {
		switch o.Type {
		case OpeningDoor:
			m.DoorCount++
		case OpeningWindow:
			m.WindowCount++
		}
	}
	return m
}

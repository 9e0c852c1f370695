package floorplan

import "time"

// Document is the persisted form of a plan: the full state plus the metrics
// as of the save.
type Document struct {
	PlanID         string        `json:"planId"`
	Vertices       []Vertex      `json:"vertices"`
	Items          []PlacedItem  `json:"items"`
	WallOpenings   []WallOpening `json:"wallOpenings"`
	WallHeight     float64       `json:"wallHeight"`
	TotalArea      float64       `json:"totalArea"`
	EquipmentArea  float64       `json:"equipmentArea"`
	PalletCapacity int           `json:"palletCapacity"`
	Revision       string        `json:"revision,omitempty"`
	SavedAt        time.Time     `json:"savedAt"`
}

// NewDocument captures s and its metrics. The state is deep-copied so later
// edits cannot leak into the document.
func NewDocument(planID string, s State, savedAt time.Time) *Document {
	c := s.Clone()
	m := ComputeMetrics(c)
	return &Document{
		PlanID:         planID,
		Vertices:       c.Vertices,
		Items:          c.Items,
		WallOpenings:   c.Openings,
		WallHeight:     c.WallHeight,
		TotalArea:      m.TotalArea,
		EquipmentArea:  m.EquipmentArea,
		PalletCapacity: m.PalletCapacity,
		SavedAt:        savedAt,
	}
}

// State returns the editable state held by d. A missing wall height falls
// back to DefaultWallHeight.
func (d *Document) State() State {
	s := State{
		Vertices:   d.Vertices,
		Items:      d.Items,
		Openings:   d.WallOpenings,
		WallHeight: d.WallHeight,
	}.Clone()
	if s.WallHeight <= 0 {
		s.WallHeight = DefaultWallHeight
	}
	return s
}

// Content is the part of the document covered by its revision.
func (d *Document) Content() State {
	return State{
		Vertices:   d.Vertices,
		Items:      d.Items,
		Openings:   d.WallOpenings,
		WallHeight: d.WallHeight,
	}
}

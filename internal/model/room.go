package model

// Equipment is a bookable room feature (projector, whiteboard, ...).
type Equipment struct {
	Name string `json:"name"`
}

// Room is a bookable meeting room as returned by the backend.
type Room struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Capacity    int         `json:"capacity"`
	Equipments  []Equipment `json:"equipements"`
}

// HasEquipment reports whether the room lists the named equipment.
func (r *Room) HasEquipment(name string) bool {
	for _, e := range r.Equipments {
		if e.Name == name {
			return true
		}
	}
	return false
}

// FilterRooms returns the rooms matching the equipment filter (empty string
// means any) and holding at least minCapacity seats.
func FilterRooms(rooms []Room, equipment string, minCapacity int) []Room {
	filtered := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if equipment != "" && !r.HasEquipment(equipment) {
			continue
		}
		if r.Capacity < minCapacity {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

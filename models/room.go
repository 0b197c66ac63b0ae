package models

const (
	RoomAvailable   = "available"
	RoomMaintenance = "maintenance"
)

type Room struct {
	ID          string   `json:"id" bson:"id"`
	FacilityID  string   `json:"facilityId" bson:"facilityId"`
	Name        string   `json:"name" bson:"name"`
	Capacity    int      `json:"capacity" bson:"capacity"`
	Status      string   `json:"status" bson:"status"` // available, maintenance
	ResourceIDs []string `json:"resourceIds,omitempty" bson:"resourceIds,omitempty"`
	PhotoURL    string   `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	ThumbURL    string   `json:"thumbUrl,omitempty" bson:"thumbUrl,omitempty"`
	CreatedAt   int64    `json:"createdAt" bson:"createdAt"`
}

// RoomAvailability holds the per-room quota configuration. Missing rows fall
// back to the defaults below.
type RoomAvailability struct {
	RoomID                    string `json:"roomId" bson:"roomId"`
	MaxBookingsPerUserPerDay  int    `json:"maxBookingsPerUserPerDay" bson:"maxBookingsPerUserPerDay"`
	MaxBookingsPerUserPerWeek int    `json:"maxBookingsPerUserPerWeek" bson:"maxBookingsPerUserPerWeek"`
}

const (
	DefaultMaxPerDay  = 1
	DefaultMaxPerWeek = 5
)

type Facility struct {
	ID        string `json:"id" bson:"id"`
	ManagerID string `json:"managerId" bson:"managerId"`
	Name      string `json:"name" bson:"name"`
	Location  string `json:"location" bson:"location"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

type Resource struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Status     string `json:"status" bson:"status"`
	FacilityID string `json:"facilityId,omitempty" bson:"facilityId,omitempty"`
	CreatedAt  int64  `json:"createdAt" bson:"createdAt"`
}

package models

import "time"

const (
	RSVPPending  = "pending"
	RSVPAccepted = "accepted"
	RSVPDeclined = "declined"
)

type MeetingInvitation struct {
	ID               string     `json:"id" bson:"id"`
	BookingID        string     `json:"bookingId" bson:"bookingId"`
	InviteeName      string     `json:"inviteeName" bson:"inviteeName"`
	InviteeEmail     string     `json:"inviteeEmail" bson:"inviteeEmail"`
	RSVPStatus       string     `json:"rsvpStatus" bson:"rsvpStatus"` // pending, accepted, declined
	AttendanceStatus string     `json:"attendanceStatus,omitempty" bson:"attendanceStatus,omitempty"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty" bson:"checkInTime,omitempty"`
	CheckInMethod    string     `json:"checkInMethod,omitempty" bson:"checkInMethod,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" bson:"createdAt"`
}

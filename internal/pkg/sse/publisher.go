package sse

import (
	"github.com/cmlabs-hris/attendance-go/internal/service/attendance"
)

// AdminTopic is the single topic every admin dashboard subscribes to.
// The underlying Hub is keyed per-user, but the live punch feed has no
// per-recipient routing, so every subscriber shares one topic key.
const AdminTopic = "admin"

// AttendancePublisher adapts a punch-service event onto the Hub's
// generic Event shape and fans it out under AdminTopic. Satisfies
// attendance.EventPublisher.
type AttendancePublisher struct {
	hub *Hub
}

func NewAttendancePublisher(hub *Hub) *AttendancePublisher {
	return &AttendancePublisher{hub: hub}
}

func (p *AttendancePublisher) Publish(e attendance.PunchEvent) {
	p.hub.Publish(AdminTopic, Event{
		UserID: AdminTopic,
		Event:  e.Type,
		Data: map[string]interface{}{
			"type":         e.Type,
			"uid":          e.UID,
			"attendanceId": e.AttendanceID,
			"at":           e.At,
		},
	})
}

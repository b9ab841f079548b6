package profiles

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AttendeeProfile struct {
	ID        primitive.ObjectID `json:"_id"`
	FirstName string             `json:"firstName"`
	LastName  string             `json:"lastName"`
	Email     string             `json:"email"`
}

type Notification struct {
	ID        primitive.ObjectID `json:"_id"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"createdAt"`
}

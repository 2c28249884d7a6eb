package models

import (
	"strings"
	"time"
)

type User struct {
	ID       string `json:"_id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	IsAdmin  bool   `json:"isAdmin" bson:"isAdmin"`
	IsMember bool   `json:"isMember" bson:"isMember"`
}

// UserInfo is the profile view: the user document with the membership payment
// record and a derived post count attached.
type UserInfo struct {
	User        `bson:",inline"`
	PaymentData *Payment `json:"paymentData,omitempty"`
	PostCount   int      `json:"postCount"`
}

type RegisterRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterResult mirrors the Mongo insert acknowledgment the frontend keys
// off: a duplicate registration comes back acknowledged=false with no ID.
type RegisterResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId,omitempty"`
}

type BanStatus struct {
	BanUser bool `json:"banUser"`
	LeftDay int  `json:"leftDay,omitempty"`
}

type Ban struct {
	ID          string    `json:"_id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	BanFreeDate time.Time `json:"banFreeDate" bson:"banFreeDate"`
}

func (r *RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Email) == "" {
		errors["email"] = "Email is required"
	}
	if strings.TrimSpace(r.Name) == "" {
		errors["name"] = "Name is required"
	}

	return errors
}

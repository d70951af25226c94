package types

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	UserTypeUser  = "user"
	UserTypeAdmin = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	UserImage string             `bson:"userImage,omitempty" json:"userImage,omitempty"`
	UserType  string             `bson:"userType" json:"userType"`
}

// Identity is the authenticated caller extracted from a token. Core
// operations take these fields as explicit parameters.
type Identity struct {
	UserID   primitive.ObjectID
	Name     string
	Email    string
	UserType string
}

func (i Identity) IsAdmin() bool {
	return i.UserType == UserTypeAdmin
}

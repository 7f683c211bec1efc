package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a local account record keyed by the identity provider's subject id.
// Users are created on first successful authentication and never hard-deleted.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Subject      string               `bson:"subject" json:"subject"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	SavedRecipes []primitive.ObjectID `bson:"savedRecipes" json:"savedRecipes"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
}

// AddSavedRecipe appends id to the saved list unless it is already present.
// Returns true if the list changed.
func (u *User) AddSavedRecipe(id primitive.ObjectID) bool {
	for _, existing := range u.SavedRecipes {
		if existing == id {
			return false
		}
	}
	u.SavedRecipes = append(u.SavedRecipes, id)
	return true
}

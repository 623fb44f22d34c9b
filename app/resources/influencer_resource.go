package resources

import (
	"github.com/shashiranjanraj/influex/app/models"
	"github.com/shashiranjanraj/influex/pkg/resource"
)

// InfluencerResource is the public discovery card: no email, no phone.
type InfluencerResource struct{ resource.Base }

func (r *InfluencerResource) ToArray(v interface{}) resource.Map {
	u := v.(models.User)
	return resource.Map{
		"id":         u.ID,
		"name":       u.Name,
		"username":   u.Username,
		"category":   u.Category,
		"bio":        u.Bio,
		"avatar_url": u.AvatarURL,
		"followers":  u.Followers,
		"verified":   u.Verified,
	}
}

// ContactResource is the minimal user card shown in chat lists.
type ContactResource struct{ resource.Base }

func (r *ContactResource) ToArray(v interface{}) resource.Map {
	u := v.(models.User)
	return resource.Map{
		"id":         u.ID,
		"name":       u.Name,
		"username":   u.Username,
		"role":       u.Role,
		"avatar_url": u.AvatarURL,
	}
}

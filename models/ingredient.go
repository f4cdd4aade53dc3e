package models

type Ingredient struct {
	ID       int    `bson:"id"        json:"id"        yaml:"-"`
	Name     string `bson:"name"      json:"name"      yaml:"name"`
	ImageURL string `bson:"image_url" json:"image_url" yaml:"image_url"`
}

func (i Ingredient) Fields() map[string]any {
	return map[string]any{
		"name":      i.Name,
		"image_url": i.ImageURL,
	}
}

// Unit is read-only through the API; units are loaded with the seed command.
type Unit struct {
	ID   int    `bson:"id"   json:"id"   yaml:"-"`
	Name string `bson:"name" json:"name" yaml:"name"`
}

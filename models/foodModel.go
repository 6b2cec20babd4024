package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusOpen   Status = "Open"
	StatusClosed Status = "Closed"
)

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "Delivery"
	DeliveryTypePickup   DeliveryType = "Pickup"
	DeliveryTypeBoth     DeliveryType = "Both"
)

const (
	DefaultImage = "/placeholder.svg"
	DefaultLogo  = "🍽️"
)

// Food is a stored food item. Field order doubles as the validation
// priority: name, restaurant, price, rating, status, deliveryType.
type Food struct {
	ObjectID     primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ID           string             `json:"id" bson:"-"`
	Name         string             `json:"name" bson:"name" validate:"notblank"`
	Restaurant   string             `json:"restaurant" bson:"restaurant" validate:"notblank"`
	Price        float64            `json:"price" bson:"price" validate:"finite,gt=0"`
	Rating       float64            `json:"rating" bson:"rating" validate:"finite,gte=0,lte=5"`
	Status       Status             `json:"status" bson:"status" validate:"oneof=Open Closed"`
	DeliveryType DeliveryType       `json:"deliveryType" bson:"deliveryType" validate:"oneof=Delivery Pickup Both"`
	Image        string             `json:"image" bson:"image"`
	Logo         string             `json:"logo" bson:"logo"`
	Category     string             `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FoodPatch holds the mutable fields of a Food. A nil field is left untouched.
type FoodPatch struct {
	Name         *string       `json:"name,omitempty"`
	Restaurant   *string       `json:"restaurant,omitempty"`
	Price        *float64      `json:"price,omitempty"`
	Rating       *float64      `json:"rating,omitempty"`
	Status       *Status       `json:"status,omitempty"`
	DeliveryType *DeliveryType `json:"deliveryType,omitempty"`
	Image        *string       `json:"image,omitempty"`
	Logo         *string       `json:"logo,omitempty"`
	Category     *string       `json:"category,omitempty"`
}

// FoodInput is the create payload. It shares the patch shape; absent fields
// get defaults instead of being left alone.
type FoodInput FoodPatch

// Apply copies every present field of p onto f.
func (p FoodPatch) Apply(f *Food) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Restaurant != nil {
		f.Restaurant = *p.Restaurant
	}
	if p.Price != nil {
		f.Price = *p.Price
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.DeliveryType != nil {
		f.DeliveryType = *p.DeliveryType
	}
	if p.Image != nil {
		f.Image = *p.Image
	}
	if p.Logo != nil {
		f.Logo = *p.Logo
	}
	if p.Category != nil {
		f.Category = *p.Category
	}
}

// Fields returns the JSON names of the present fields.
func (p FoodPatch) Fields() []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Restaurant != nil {
		fields = append(fields, "restaurant")
	}
	if p.Price != nil {
		fields = append(fields, "price")
	}
	if p.Rating != nil {
		fields = append(fields, "rating")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	if p.DeliveryType != nil {
		fields = append(fields, "deliveryType")
	}
	if p.Image != nil {
		fields = append(fields, "image")
	}
	if p.Logo != nil {
		fields = append(fields, "logo")
	}
	if p.Category != nil {
		fields = append(fields, "category")
	}
	return fields
}

func String(s string) *string { return &s }

func Float(f float64) *float64 { return &f }

func StatusPtr(s Status) *Status { return &s }

func DeliveryTypePtr(d DeliveryType) *DeliveryType { return &d }

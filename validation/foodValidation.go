// Package validation checks food items before they reach a store.
// Every function here is pure: no I/O, no store access.
package validation

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/Fraol7/FoodWagen/models"
	"github.com/go-playground/validator"
)

var validate = newValidator()

// tags maps a Food JSON field name to its validate tag.
var tags = foodTags()

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every rejected field, in validation priority order.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid food item: " + strings.Join(msgs, "; ")
}

// FieldNames returns the names of the rejected fields.
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	}); err != nil {
		panic(err)
	}
	return v
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func foodTags() map[string]string {
	t := reflect.TypeOf(models.Food{})
	out := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fld := t.Field(i)
		if tag := fld.Tag.Get("validate"); tag != "" {
			out[jsonName(fld)] = tag
		}
	}
	return out
}

// NewFood applies defaults to a create payload, trims the text fields and
// validates the result. Empty image, logo, status and deliveryType values
// count as absent.
func NewFood(in models.FoodInput) (models.Food, error) {
	food := models.Food{
		Image:        models.DefaultImage,
		Logo:         models.DefaultLogo,
		Status:       models.StatusOpen,
		DeliveryType: models.DeliveryTypeDelivery,
	}

	p := models.FoodPatch(in)
	if p.Image != nil && *p.Image == "" {
		p.Image = nil
	}
	if p.Logo != nil && *p.Logo == "" {
		p.Logo = nil
	}
	if p.Status != nil && *p.Status == "" {
		p.Status = nil
	}
	if p.DeliveryType != nil && *p.DeliveryType == "" {
		p.DeliveryType = nil
	}
	p.Apply(&food)

	food.Name = strings.TrimSpace(food.Name)
	food.Restaurant = strings.TrimSpace(food.Restaurant)
	food.Category = strings.TrimSpace(food.Category)

	err := validate.Struct(food)
	if err == nil {
		return food, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return models.Food{}, err
	}

	out := &Error{}
	for _, fe := range verrs {
		msg := message(fe.Field(), fe.Tag(), fe.Param())
		if fe.Field() == "price" && in.Price == nil {
			msg = "price is required"
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return models.Food{}, out
}

// CheckPatch validates only the fields present in p, one at a time, against
// the same rules as NewFood. It returns p with name and restaurant trimmed.
func CheckPatch(p models.FoodPatch) (models.FoodPatch, error) {
	if p.Name != nil {
		p.Name = models.String(strings.TrimSpace(*p.Name))
	}
	if p.Restaurant != nil {
		p.Restaurant = models.String(strings.TrimSpace(*p.Restaurant))
	}
	if p.Category != nil {
		p.Category = models.String(strings.TrimSpace(*p.Category))
	}

	out := &Error{}
	check := func(field string, value interface{}) {
		tag, ok := tags[field]
		if !ok {
			return
		}
		err := validate.Var(value, tag)
		if err == nil {
			return
		}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			out.Fields = append(out.Fields, FieldError{Field: field, Message: err.Error()})
			return
		}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: field, Message: message(field, fe.Tag(), fe.Param())})
		}
	}

	if p.Name != nil {
		check("name", *p.Name)
	}
	if p.Restaurant != nil {
		check("restaurant", *p.Restaurant)
	}
	if p.Price != nil {
		check("price", *p.Price)
	}
	if p.Rating != nil {
		check("rating", *p.Rating)
	}
	if p.Status != nil {
		check("status", string(*p.Status))
	}
	if p.DeliveryType != nil {
		check("deliveryType", string(*p.DeliveryType))
	}

	if len(out.Fields) > 0 {
		return p, out
	}
	return p, nil
}

func message(field, tag, param string) string {
	switch tag {
	case "notblank":
		return field + " is required"
	case "finite":
		return field + " must be a finite number"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(param), ", "))
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

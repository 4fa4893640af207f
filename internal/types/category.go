package types

import "fmt"

// Category is one of the four fixed feedback buckets.
type Category string

const (
	WentWell    Category = "went-well"
	DidntGoWell Category = "didnt-go-well"
	Ideas       Category = "ideas"
	ActionItems Category = "action-items"
)

// Categories lists every category in board order.
var Categories = []Category{WentWell, DidntGoWell, Ideas, ActionItems}

var categoryTitles = map[Category]string{
	WentWell:    "Went Well",
	DidntGoWell: "Didn't Go Well",
	Ideas:       "Ideas",
	ActionItems: "Action Items",
}

// ParseCategory converts s into a Category, rejecting anything outside the set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := categoryTitles[c]
	return ok
}

// Title is the human heading used in reports.
func (c Category) Title() string {
	return categoryTitles[c]
}

func (c Category) String() string {
	return string(c)
}

package models

import "strings"

// OrderKey is one column of a customer sort
type OrderKey struct {
	Field string
	Desc  bool
}

var orderableFields = map[string]bool{
	FieldFirstName: true,
	FieldLastName:  true,
	FieldEmail:     true,
	"created_at":   true,
}

// DefaultCustomerOrdering sorts by last name, then first name
var DefaultCustomerOrdering = []OrderKey{
	{Field: FieldLastName},
	{Field: FieldFirstName},
}

// ParseCustomerOrdering turns an ordering parameter such as "-created_at" or
// "last_name,email" into sort keys. Unknown fields are dropped; when nothing
// usable remains the default ordering applies.
func ParseCustomerOrdering(param string) []OrderKey {
	var keys []OrderKey
	seen := make(map[string]bool)

	for _, term := range strings.Split(param, ",") {
		term = strings.TrimSpace(term)
		desc := strings.HasPrefix(term, "-")
		field := strings.TrimPrefix(term, "-")
		if !orderableFields[field] || seen[field] {
			continue
		}
		seen[field] = true
		keys = append(keys, OrderKey{Field: field, Desc: desc})
	}

	if len(keys) == 0 {
		return DefaultCustomerOrdering
	}
	return keys
}

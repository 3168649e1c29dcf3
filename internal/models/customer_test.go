package models

import (
	"reflect"
	"testing"
)

func TestCustomer_FullNameEscapesMarkup(t *testing.T) {
	c := &Customer{FirstName: "<script>alert('x')</script>", LastName: "O'Neil & Sons"}

	got := c.FullName()
	want := "&lt;script&gt;alert(&#x27;x&#x27;)&lt;&#x2F;script&gt; O&#x27;Neil &amp; Sons"
	if got != want {
		t.Errorf("FullName() = %q, want %q", got, want)
	}
}

func TestCustomer_String(t *testing.T) {
	c := &Customer{FirstName: "John", LastName: "Doe", Email: "john@example.com"}

	if got := c.String(); got != "John Doe (john@example.com)" {
		t.Errorf("String() = %q", got)
	}
}

func TestCustomer_Summary(t *testing.T) {
	c := &Customer{ID: 7, FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Phone: "555-1234", IsActive: true}

	got := c.Summary()
	want := &CustomerSummary{ID: 7, FullName: "Ann Lee", Email: "ann@example.com", Phone: "555-1234", IsActive: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
}

func TestParseCustomerOrdering(t *testing.T) {
	tests := []struct {
		param string
		want  []OrderKey
	}{
		{"", DefaultCustomerOrdering},
		{"password", DefaultCustomerOrdering},
		{"-created_at", []OrderKey{{Field: "created_at", Desc: true}}},
		{"email, -first_name", []OrderKey{{Field: "email"}, {Field: "first_name", Desc: true}}},
		{"email,email", []OrderKey{{Field: "email"}}},
		{"id,last_name", []OrderKey{{Field: "last_name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			got := ParseCustomerOrdering(tt.param)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCustomerOrdering(%q) = %+v, want %+v", tt.param, got, tt.want)
			}
		})
	}
}

func TestPaginationResult(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		total       int64
		wantPages   int
		wantNext    bool
		wantPrev    bool
		wantInRange bool
	}{
		{"empty first page", 1, 0, 0, false, false, true},
		{"first of three", 1, 45, 3, true, false, true},
		{"middle", 2, 45, 3, true, true, true},
		{"last", 3, 45, 3, false, true, true},
		{"past end", 4, 45, 3, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginationResult(tt.page, DefaultPageSize, tt.total)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.HasNext() != tt.wantNext {
				t.Errorf("HasNext() = %v, want %v", p.HasNext(), tt.wantNext)
			}
			if p.HasPrevious() != tt.wantPrev {
				t.Errorf("HasPrevious() = %v, want %v", p.HasPrevious(), tt.wantPrev)
			}
			if p.InRange() != tt.wantInRange {
				t.Errorf("InRange() = %v, want %v", p.InRange(), tt.wantInRange)
			}
		})
	}
}

// Package model contains domain models passed between layers.
package model

import "fmt"

// Status identifies a project lifecycle stage. The same identifiers key the
// per-stage records of a project.
type Status string

// Lifecycle stages in their fixed order.
const (
	StatusSales         Status = "venda"
	StatusManufacturing Status = "fabricacao"
	StatusInstallation  Status = "instalacao"
	StatusAfterSales    Status = "pos-venda"
)

var statuses = []Status{StatusSales, StatusManufacturing, StatusInstallation, StatusAfterSales}

// Statuses returns the lifecycle stages in order. The returned slice is a copy.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Index returns the zero-based position of s in the lifecycle, or -1.
func (s Status) Index() int {
	for i, st := range statuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the fixed lifecycle stages.
func (s Status) Valid() bool { return s.Index() >= 0 }

// Color is the display color the dashboard uses for the stage.
func (s Status) Color() string {
	switch s {
	case StatusSales:
		return "orange-600"
	case StatusManufacturing:
		return "blue-600"
	case StatusInstallation:
		return "purple-600"
	case StatusAfterSales:
		return "green-600"
	}
	return "gray-500"
}

// ParseStatus converts s into a Status, rejecting unknown identifiers.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Theme is the dashboard color scheme.
type Theme string

// Supported themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// Toggle flips between light and dark. Anything that is not dark becomes dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

package domain

import "time"

// ChartKind selects how a report section is visualised.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartPie  ChartKind = "pie"
)

// ChartSpec describes the optional chart attached to a report section. The X
// and Y columns name columns of the section's table.
type ChartSpec struct {
	Kind    ChartKind
	XColumn string
	YColumn string
}

// Section pairs a titled table with an optional chart. A section whose table
// is empty is still rendered, as a "no data available" placeholder.
type Section struct {
	Title string
	Data  Table
	Chart *ChartSpec
}

// Report is an ordered collection of sections assembled for one audience.
type Report struct {
	Title       string
	Audience    Role
	GeneratedAt time.Time
	Sections    []Section
}

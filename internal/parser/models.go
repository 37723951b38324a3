package parser

import "time"

// Axis describes one measurement channel listed in the axis description block.
// Index is the channel number exactly as written in the file.
type Axis struct {
	Index int     `yaml:"index"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Unit  string  `yaml:"unit,omitempty"`
	Name  string  `yaml:"name,omitempty"`
}

// Curve is one measured trace of an IRTECON file.
// Data holds the sample rows; rows may differ in length.
type Curve struct {
	Time     time.Time   `yaml:"time"`
	Duration float64     `yaml:"duration"`
	Legend   string      `yaml:"legend"`
	Data     [][]float64 `yaml:"data,flow"`
}

// NewCurve returns a curve with the defaults used before any of its lines are seen.
func NewCurve() Curve {
	return Curve{
		Time: time.Unix(0, 0).UTC(),
		Data: make([][]float64, 0),
	}
}

// Document is the result of decoding an IRTECON file.
// Axes and Curves keep file order.
type Document struct {
	Program           string  `yaml:"program"`
	ConfigurationFile string  `yaml:"configuration_file"`
	SampleName        string  `yaml:"sample_name"`
	Axes              []Axis  `yaml:"axes"`
	Curves            []Curve `yaml:"curves"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Axes:   make([]Axis, 0),
		Curves: make([]Curve, 0),
	}
}

// Dataset is a numeric table read from a plain delimited text file.
// Names and Units have one entry per kept column; Units is empty when the
// file carries no units row.
type Dataset struct {
	Names    []string
	Units    []string
	Rows     [][]float64
	Warnings []string // non-fatal problems met while reading
}

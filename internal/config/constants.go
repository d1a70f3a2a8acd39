package config

// DirectivePrefix is the comment directive that mints a marker type, e.g.
//
//	//unique:type Kilometers
const DirectivePrefix = "//unique:type"

// DefaultOutputFile is the name of the generated file written into each
// package that contains directives.
const DefaultOutputFile = "unique_typemint.go"

// ConfigFileNames are the recognized config file names, checked in order.
var ConfigFileNames = []string{"typemint.yaml", "typemint.yml"}

// GeneratedBy is the header line that marks emitted files as generated. The
// scanner also uses it to skip generated files, including typemint's own
// output, so repeated runs stay idempotent.
const GeneratedBy = "// Code generated by typemint. DO NOT EDIT."

// ToolVersion is mixed into the input digest so that semantic changes to the
// generator invalidate stale outputs under -verify.
const ToolVersion = "1"

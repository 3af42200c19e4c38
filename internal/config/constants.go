package config

// SourceFileExtensions are the recognized call-site manifest extensions.
var SourceFileExtensions = []string{".yaml", ".yml"}

// Sentinel results of a switch call site.
const (
	// NullIndex is returned when the selector value is null.
	NullIndex = -1
	// NoMatchCell marks an enum table cell that no case label resolved to.
	NoMatchCell = 0
)

// Component kind names used in shape descriptors and manifests.
const (
	IntKindName       = "int"
	LongKindName      = "long"
	FloatKindName     = "float"
	DoubleKindName    = "double"
	BooleanKindName   = "boolean"
	ByteKindName      = "byte"
	ShortKindName     = "short"
	CharKindName      = "char"
	ReferenceKindName = "ref"
)

// Call-site names used in bootstrap errors.
const (
	StringSwitchSite = "stringSwitch"
	EnumSwitchSite   = "enumSwitch"
)

// Code generation
const (
	// GeneratedPackageName is the default package for emitted carrier sources.
	GeneratedPackageName = "carriers"
	// GeneratedFileName is the file written by the carrier generator.
	GeneratedFileName = "carriers_gen.go"
	// CarrierTypePrefix prefixes emitted carrier struct names.
	CarrierTypePrefix = "Carrier"
)

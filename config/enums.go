package config

import (
	yaml "gopkg.in/yaml.v3"
)

// Specification of requested output type.
// ENUM(html, txt)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtHtml:
		return ".html"
	case OutputFmtTxt:
		return ".txt"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Specification of image resizing mode.
// ENUM(none, keepAR, stretch)
type ImageResizeMode int

// Specification of table rendering mode for text output.
// ENUM(auto, ascii, tabs, plain)
type TableTxtMode int

// Specification of conversion journal mode.
// ENUM(none, record, skip)
type JournalMode int

// yaml.v3 does not consult encoding.TextUnmarshaler when decoding, so enum
// fields bridge through UnmarshalYAML to the generated parsers. Marshaling
// goes through the generated MarshalText which yaml honors directly.

func (o *OutputFmt) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseOutputFmt(name)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (m *ImageResizeMode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseImageResizeMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m *TableTxtMode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseTableTxtMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m *JournalMode) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseJournalMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

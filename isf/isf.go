// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package isf

// Input types defined by the ISF specification.
const (
	TypeEvent    = "event"
	TypeBool     = "bool"
	TypeLong     = "long"
	TypeFloat    = "float"
	TypePoint2D  = "point2D"
	TypeColor    = "color"
	TypeImage    = "image"
	TypeAudio    = "audio"
	TypeAudioFFT = "audioFFT"
)

// Input is one entry of the INPUTS array in the ISF metadata header.
//
// Default, Min and Max hold whatever JSON shape the declaring type uses: a
// number or bool for scalar types, an array of numbers for point2D and color.
// They are nil when the header omits them.
type Input struct {
	Name    string
	Type    string
	Label   string
	Default any
	Min     any
	Max     any

	// Identity is the value at which a filter-style input leaves the image
	// unchanged. Carried through for metadata completeness.
	Identity any

	// Values and Labels enumerate the choices of a "long" input.
	Values []int64
	Labels []string
}

// Pass is one entry of the PASSES array. An empty Target means the pass
// renders to the final output.
type Pass struct {
	Target     string
	Persistent bool

	// FloatPrecision requests a float-texture render target (the FLOAT key).
	FloatPrecision bool

	// Width and Height are either empty, an integer literal, or a restricted
	// arithmetic expression over $WIDTH/$HEIGHT. They stay unevaluated here.
	Width  string
	Height string

	Description string
	Name        string

	// Main names a custom entry point function, when the pass declares one.
	Main string
}

// Import is a named image pulled in by the IMPORTED table.
type Import struct {
	Name string
	Path string
}

// Kind classifies a shader by the inputs it declares.
type Kind uint8

const (
	// KindGenerator produces output from nothing (no image inputs).
	KindGenerator Kind = iota
	// KindFilter transforms an inputImage.
	KindFilter
	// KindTransition blends startImage into endImage driven by progress.
	KindTransition
)

// String returns the conventional ISF name for the kind.
func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindTransition:
		return "transition"
	default:
		return "generator"
	}
}

// Shader is a parsed ISF source: the decoded metadata header plus the raw
// shader body that follows it. Values are not mutated after Parse returns.
type Shader struct {
	// ISFVsn is the ISF specification version tag ("1" or "2").
	ISFVsn string

	// Vsn is the shader's own version string, if any.
	Vsn         string
	Description string
	Credit      string
	Categories  []string

	// Inputs and Passes preserve declaration order. An empty Passes list
	// means a single implicit pass rendering to the output.
	Inputs []Input
	Passes []Pass

	Imported []Import

	// Body is everything after the metadata comment block, trimmed.
	Body string
}

// IsFilter reports whether the shader declares an inputImage input.
func (s *Shader) IsFilter() bool {
	for _, in := range s.Inputs {
		if in.Name == "inputImage" {
			return true
		}
	}
	return false
}

// IsTransition reports whether the shader declares startImage, endImage and
// progress.
func (s *Shader) IsTransition() bool {
	var start, end, progress bool
	for _, in := range s.Inputs {
		switch in.Name {
		case "startImage":
			start = true
		case "endImage":
			end = true
		case "progress":
			progress = true
		}
	}
	return start && end && progress
}

// Kind derives the shader classification from its inputs. The transition
// input set takes precedence: a shader declaring startImage, endImage and
// progress is a transition even when it also declares inputImage.
func (s *Shader) Kind() Kind {
	switch {
	case s.IsTransition():
		return KindTransition
	case s.IsFilter():
		return KindFilter
	default:
		return KindGenerator
	}
}

// Input returns the declared input with the given name, or nil.
func (s *Shader) Input(name string) *Input {
	for i := range s.Inputs {
		if s.Inputs[i].Name == name {
			return &s.Inputs[i]
		}
	}
	return nil
}

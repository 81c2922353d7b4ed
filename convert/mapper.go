// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"strconv"

	"github.com/gogpu/klproj/isf"
	"github.com/gogpu/klproj/kode"
)

// paramKinds is the fixed ISF-type → parameter-kind mapping. It is part of
// the output compatibility contract: changing an entry changes every
// converted project, so additions only.
var paramKinds = map[string]kode.ParamKind{
	isf.TypeEvent:    kode.ParamFloat1, // momentary button
	isf.TypeBool:     kode.ParamFloat1, // 0.0 or 1.0
	isf.TypeLong:     kode.ParamFloat1, // integer/enum selector
	isf.TypeFloat:    kode.ParamFloat1,
	isf.TypePoint2D:  kode.ParamFloat2,
	isf.TypeColor:    kode.ParamFloat4, // RGBA
	isf.TypeImage:    kode.ParamTexture2D,
	isf.TypeAudio:    kode.ParamTexture2D, // waveform as texture
	isf.TypeAudioFFT: kode.ParamTexture2D, // FFT as texture
}

// ParamKindFor returns the parameter kind an ISF input type maps to.
func ParamKindFor(isfType string) (kode.ParamKind, bool) {
	k, ok := paramKinds[isfType]
	return k, ok
}

// MapInput converts one ISF input declaration into a uniform parameter.
// Unsupported input types return ok=false and are skipped: not every host
// profile supports every ISF input kind, and omission is the documented
// behavior.
func MapInput(in isf.Input) (kode.Parameter, bool) {
	kind, ok := paramKinds[in.Type]
	if !ok {
		return kode.Parameter{}, false
	}

	p := kode.Parameter{
		Kind:         kind,
		DisplayName:  in.Name,
		VariableName: in.Name,
	}
	if in.Label != "" {
		p.DisplayName = in.Label
	}

	if in.Default != nil {
		switch in.Type {
		case isf.TypeBool, isf.TypeEvent:
			if jsonTruthy(in.Default) {
				p.SetProp("value", 1.0)
			} else {
				p.SetProp("value", 0.0)
			}
		case isf.TypeFloat, isf.TypeLong:
			p.SetProp("value", toFloat(in.Default))
		case isf.TypePoint2D:
			p.SetProp("value", toVec2(in.Default, 0.0, kode.Vec2{}))
		case isf.TypeColor:
			if vals, ok := floatSlice(in.Default); ok {
				p.SetProp("value", padColor(vals))
			} else {
				p.SetProp("value", kode.Vec4{X: 1, Y: 1, Z: 1, W: 1})
			}
		}
	}

	switch in.Type {
	case isf.TypeFloat, isf.TypeLong, isf.TypeBool, isf.TypeEvent:
		if in.Min != nil {
			p.SetProp("min", toFloat(in.Min))
		} else if in.Type == isf.TypeBool || in.Type == isf.TypeEvent {
			p.SetProp("min", 0.0)
		}
		if in.Max != nil {
			p.SetProp("max", toFloat(in.Max))
		} else if in.Type == isf.TypeBool || in.Type == isf.TypeEvent {
			p.SetProp("max", 1.0)
		}
		// Events default to off: a momentary input with no declared
		// default starts at 0.0.
		if in.Type == isf.TypeEvent {
			if _, ok := p.Prop("value"); !ok {
				p.SetProp("value", 0.0)
			}
		}
	case isf.TypePoint2D:
		if _, ok := floatSlice(in.Min); ok {
			p.SetProp("min", toVec2(in.Min, 0.0, kode.Vec2{}))
		}
		if _, ok := floatSlice(in.Max); ok {
			p.SetProp("max", toVec2(in.Max, 1.0, kode.Vec2{X: 1, Y: 1}))
		}
	case isf.TypeColor:
		if vals, ok := floatSlice(in.Min); ok {
			p.SetProp("min", padVec4(vals, 0.0))
		}
		if vals, ok := floatSlice(in.Max); ok {
			p.SetProp("max", padVec4(vals, 1.0))
		}
	}

	return p, true
}

// padColor pads color components to RGBA: missing alpha fills with 1.0,
// missing color channels with 0.0.
func padColor(vals []float64) kode.Vec4 {
	for len(vals) < 4 {
		if len(vals) == 3 {
			vals = append(vals, 1.0)
		} else {
			vals = append(vals, 0.0)
		}
	}
	return kode.Vec4{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}
}

// padVec4 pads to four components with a uniform fill value.
func padVec4(vals []float64, fill float64) kode.Vec4 {
	for len(vals) < 4 {
		vals = append(vals, fill)
	}
	return kode.Vec4{X: vals[0], Y: vals[1], Z: vals[2], W: vals[3]}
}

// toVec2 builds a Vec2 from a JSON array value; missing components take
// fill, a non-array value yields whole.
func toVec2(v any, fill float64, whole kode.Vec2) kode.Vec2 {
	vals, ok := floatSlice(v)
	if !ok {
		return whole
	}
	for len(vals) < 2 {
		vals = append(vals, fill)
	}
	return kode.Vec2{X: vals[0], Y: vals[1]}
}

// floatSlice extracts a []float64 from a decoded JSON array.
func floatSlice(v any) ([]float64, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	vals := make([]float64, 0, len(arr))
	for _, item := range arr {
		vals = append(vals, toFloat(item))
	}
	return vals, true
}

// toFloat coerces the scalar shapes JSON values arrive in.
func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case bool:
		if t {
			return 1.0
		}
		return 0.0
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0.0
	}
}

// jsonTruthy applies loose truthiness to bool/event defaults (numbers,
// bools, non-empty strings).
func jsonTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0" && t != "false"
	default:
		return false
	}
}

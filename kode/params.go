// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kode

// Preset constructors for the uniform parameters most projects carry.

// ClockParam returns a running time parameter.
func ClockParam(variableName string, speed float64) Parameter {
	return Parameter{
		Kind:         ParamClock,
		DisplayName:  "Time",
		VariableName: variableName,
		Props: []Property{
			{"running", 1},
			{"direction", 1},
			{"speed", speed},
			{"loop", 0},
			{"loopStart", 0},
			{"loopEnd", 6.28319},
		},
	}
}

// ResolutionParam returns a frame-resolution parameter.
func ResolutionParam(variableName string) Parameter {
	return Parameter{
		Kind:         ParamFrameResolution,
		DisplayName:  "Resolution",
		VariableName: variableName,
	}
}

// MouseParam returns a simple mouse-input parameter. When normalized is set
// the host reports coordinates in [0,1]; invertY flips the vertical axis to
// the GL convention.
func MouseParam(variableName string, normalized, invertY bool) Parameter {
	normalize := 0
	if normalized {
		normalize = 1
	}
	invert := 0
	if invertY {
		invert = 1
	}
	return Parameter{
		Kind:         ParamMouseSimple,
		DisplayName:  "Mouse",
		VariableName: variableName,
		Props: []Property{
			{"variant", 1},
			{"normalize", normalize},
			{"invert", []Property{{"x", 0}, {"y", invert}}},
		},
	}
}

// MVPParam returns the model-view-projection matrix parameter vertex stages
// consume.
func MVPParam() Parameter {
	return Parameter{
		Kind:         ParamMVP,
		DisplayName:  "Model View Projection Matrix",
		VariableName: "mvp",
	}
}

// ShadertoyParams returns the standard Shadertoy-compatible uniform set:
// iResolution, iTime, iTimeDelta, iFrame, iMouse, iDate and iSampleRate.
func ShadertoyParams() []Parameter {
	return []Parameter{
		{
			Kind:         ParamFrameResolution,
			DisplayName:  "Frame Resolution",
			VariableName: "iResolution",
		},
		{
			Kind:         ParamClock,
			DisplayName:  "Clock",
			VariableName: "iTime",
			Props: []Property{
				{"running", 1},
				{"direction", 1},
				{"speed", 1},
				{"loop", 0},
				{"loopStart", 0},
				{"loopEnd", 6.28319},
			},
		},
		{
			Kind:         ParamFrameDelta,
			DisplayName:  "Frame Delta",
			VariableName: "iTimeDelta",
		},
		{
			Kind:         ParamFrameNumber,
			DisplayName:  "Frame Number",
			VariableName: "iFrame",
		},
		{
			Kind:         ParamMouseSimple,
			DisplayName:  "Mouse Simple",
			VariableName: "iMouse",
			Props: []Property{
				{"variant", 1},
				{"normalize", 0},
				{"invert", []Property{{"x", 0}, {"y", 1}}},
			},
		},
		{
			Kind:         ParamDate,
			DisplayName:  "Date",
			VariableName: "iDate",
		},
		{
			Kind:         ParamAudioSampleRate,
			DisplayName:  "Audio Sample Rate",
			VariableName: "iSampleRate",
		},
	}
}

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kode

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"
)

// Encode serializes a project into .klproj container bytes: the klxml
// document tree rendered as canonical unindented XML, UTF-8 encoded and zlib
// compressed. The on-disk artifact is exactly these bytes.
func Encode(p *Project) ([]byte, error) {
	doc := buildDocument(p)

	var xmlBuf bytes.Buffer
	if _, err := doc.WriteTo(&xmlBuf); err != nil {
		return nil, fmt.Errorf("kode: render document: %w", err)
	}

	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(xmlBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("kode: compress document: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("kode: compress document: %w", err)
	}
	return out.Bytes(), nil
}

// EncodeXML renders the uncompressed document tree. Used by the extraction
// tool and tests; KodeLife itself only reads the compressed form.
func EncodeXML(p *Project) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buildDocument(p).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("kode: render document: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocument(p *Project) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", "version='1.0' encoding='UTF-8'")

	root := doc.CreateElement("klxml")
	root.CreateAttr("v", strconv.Itoa(p.Version))
	root.CreateAttr("a", string(p.API))

	document := root.CreateElement("document")
	buildProperties(document, p.Properties)
	buildParams(document, p.Params)
	buildPasses(document, p.Passes)

	return doc
}

func buildProperties(parent *etree.Element, props Properties) {
	e := parent.CreateElement("properties")

	textChild(e, "creator", props.Creator)
	textChild(e, "creatorVersion", props.CreatorVersion)
	textChild(e, "versionMajor", strconv.Itoa(props.VersionMajor))
	textChild(e, "versionMinor", strconv.Itoa(props.VersionMinor))
	textChild(e, "versionPatch", strconv.Itoa(props.VersionPatch))
	textChild(e, "author", props.Author)
	textChild(e, "comment", props.Comment)
	textChild(e, "enabled", strconv.Itoa(props.Enabled))

	size := e.CreateElement("size")
	textChild(size, "x", strconv.Itoa(props.Width))
	textChild(size, "y", strconv.Itoa(props.Height))

	textChild(e, "format", props.Format)

	clear := e.CreateElement("clearColor")
	vec4Children(clear, props.ClearColor, trimFloat)

	textChild(e, "audioSourceType", strconv.Itoa(props.AudioSource))
	textChild(e, "audioFilePath", props.AudioFilePath)
	textChild(e, "selectedRenderPassIndex", "0")
	textChild(e, "selectedKontrolPanelIndex", "0")
	textChild(e, "uiExpandedPreviewDocument", "1")
	textChild(e, "uiExpandedPreviewRenderPass", "1")
	textChild(e, "uiExpandedProperties", "1")
	textChild(e, "uiExpandedAudio", "1")
}

func buildParams(parent *etree.Element, params []Parameter) {
	e := parent.CreateElement("params")
	textChild(e, "uiExpanded", "1")
	for i := range params {
		buildParameter(e, &params[i])
	}
}

func buildParameter(parent *etree.Element, p *Parameter) {
	e := parent.CreateElement("param")
	e.CreateAttr("type", string(p.Kind))

	textChild(e, "displayName", p.DisplayName)
	textChild(e, "variableName", p.VariableName)
	textChild(e, "uiExpanded", strconv.Itoa(p.UIExpanded))

	for _, prop := range p.Props {
		buildPropertyValue(e, prop.Name, prop.Value)
	}
}

// buildPropertyValue writes one property-bag entry. Vectors expand into
// component children; nested []Property values become nested elements.
func buildPropertyValue(parent *etree.Element, name string, value any) {
	switch v := value.(type) {
	case Vec2:
		e := parent.CreateElement(name)
		textChild(e, "x", pyFloat(v.X))
		textChild(e, "y", pyFloat(v.Y))
	case Vec3:
		e := parent.CreateElement(name)
		textChild(e, "x", pyFloat(v.X))
		textChild(e, "y", pyFloat(v.Y))
		textChild(e, "z", pyFloat(v.Z))
	case Vec4:
		e := parent.CreateElement(name)
		vec4Children(e, v, pyFloat)
	case []Property:
		e := parent.CreateElement(name)
		for _, sub := range v {
			buildPropertyValue(e, sub.Name, sub.Value)
		}
	case int:
		textChild(parent, name, strconv.Itoa(v))
	case float64:
		textChild(parent, name, pyFloat(v))
	case string:
		textChild(parent, name, v)
	default:
		textChild(parent, name, fmt.Sprint(v))
	}
}

func buildPasses(parent *etree.Element, passes []RenderPass) {
	e := parent.CreateElement("passes")
	for i := range passes {
		buildPass(e, &passes[i])
	}
}

func buildPass(parent *etree.Element, pass *RenderPass) {
	e := parent.CreateElement("pass")
	e.CreateAttr("type", string(pass.Kind))

	props := e.CreateElement("properties")
	textChild(props, "label", pass.Label)
	textChild(props, "enabled", strconv.Itoa(pass.Enabled))
	textChild(props, "selectedShaderStageIndex", "4")
	textChild(props, "primitiveIndex", "0")
	textChild(props, "primitiveType", pass.PrimitiveType)
	textChild(props, "instanceCount", "1")
	textChild(props, "uiExpanded", "1")

	buildRenderState(props)
	buildRenderTarget(props, pass.Width, pass.Height)
	buildTransform(props)

	params := e.CreateElement("params")
	textChild(params, "uiExpanded", "1")
	for i := range pass.Params {
		buildParameter(params, &pass.Params[i])
	}

	stages := e.CreateElement("stages")
	for i := range pass.Stages {
		buildStage(stages, &pass.Stages[i])
	}
}

// buildRenderState writes the fixed render-state defaults: no blending,
// back-face culling, depth test LESS with write. The converter never varies
// these; KodeLife exposes them in its UI.
func buildRenderState(parent *etree.Element) {
	rs := parent.CreateElement("renderstate")

	colormask := rs.CreateElement("colormask")
	for _, c := range []string{"r", "g", "b", "a"} {
		textChild(colormask, c, "1")
	}
	textChild(colormask, "uiExpanded", "0")

	blend := rs.CreateElement("blendstate")
	textChild(blend, "enabled", "0")
	textChild(blend, "srcBlendRGB", "SRC_ALPHA")
	textChild(blend, "dstBlendRGB", "ONE_MINUS_SRC_ALPHA")
	textChild(blend, "srcBlendA", "ONE")
	textChild(blend, "dstBlendA", "ONE_MINUS_SRC_ALPHA")
	textChild(blend, "equationRGB", "ADD")
	textChild(blend, "equationA", "ADD")
	textChild(blend, "uiExpanded", "0")

	cull := rs.CreateElement("cullstate")
	textChild(cull, "enabled", "1")
	textChild(cull, "ccw", "1")
	textChild(cull, "uiExpanded", "0")

	depth := rs.CreateElement("depthstate")
	textChild(depth, "enabled", "1")
	textChild(depth, "write", "1")
	textChild(depth, "func", "LESS")
	textChild(depth, "uiExpanded", "0")
}

func buildRenderTarget(parent *etree.Element, width, height int) {
	rt := parent.CreateElement("rendertarget")

	size := rt.CreateElement("size")
	textChild(size, "x", strconv.Itoa(width))
	textChild(size, "y", strconv.Itoa(height))
	textChild(rt, "resolutionMode", "PROJECT")
	textChild(rt, "uiExpanded", "1")

	color := rt.CreateElement("color")
	textChild(color, "format", "RGBA32F")
	clear := color.CreateElement("clear")
	vec4Children(clear, Vec4{0, 0, 0, 1}, trimFloat)
	textChild(color, "uiExpanded", "0")

	depth := rt.CreateElement("depth")
	textChild(depth, "clear", "1")
	textChild(depth, "uiExpanded", "0")
}

// buildTransform writes the fixed default camera: orthographic-capable
// projection block, eye at (0,0,4) looking at the origin, identity model.
func buildTransform(parent *etree.Element) {
	tf := parent.CreateElement("transform")
	textChild(tf, "uiExpanded", "1")

	projection := tf.CreateElement("projection")
	textChild(projection, "type", "0")

	perspective := projection.CreateElement("perspective")
	textChild(perspective, "fov", "60")
	z := perspective.CreateElement("z")
	textChild(z, "x", "0.01")
	textChild(z, "y", "10")

	ortho := projection.CreateElement("orthographic")
	bounds := ortho.CreateElement("bounds")
	vec4Children(bounds, Vec4{-1, 1, -1, 1}, trimFloat)
	z = ortho.CreateElement("z")
	textChild(z, "x", "-10")
	textChild(z, "y", "10")
	textChild(projection, "uiExpanded", "0")

	view := tf.CreateElement("view")
	vec3Element(view, "eye", Vec3{0, 0, 4})
	vec3Element(view, "center", Vec3{0, 0, 0})
	vec3Element(view, "up", Vec3{0, 1, 0})
	textChild(view, "uiExpanded", "0")

	model := tf.CreateElement("model")
	vec3Element(model, "scale", Vec3{1, 1, 1})
	vec3Element(model, "rotate", Vec3{0, 0, 0})
	vec3Element(model, "translate", Vec3{0, 0, 0})
	textChild(model, "uiExpanded", "0")
}

func buildStage(parent *etree.Element, stage *ShaderStage) {
	e := parent.CreateElement("stage")
	e.CreateAttr("type", string(stage.Kind))

	props := e.CreateElement("properties")
	textChild(props, "enabled", strconv.Itoa(stage.Enabled))
	textChild(props, "hidden", strconv.Itoa(stage.Hidden))
	textChild(props, "locked", "0")

	watched, isWatched := stage.Body.(WatchedBody)
	if isWatched {
		textChild(props, "fileWatch", "1")
		textChild(props, "fileWatchPath", watched.Path)
	} else {
		textChild(props, "fileWatch", "0")
		textChild(props, "fileWatchPath", "")
	}
	textChild(props, "uiExpanded", "1")

	params := e.CreateElement("params")
	textChild(params, "uiExpanded", "1")
	for i := range stage.Params {
		buildParameter(params, &stage.Params[i])
	}

	shader := e.CreateElement("shader")
	for _, src := range stage.Sources() {
		source := shader.CreateElement("source")
		source.CreateAttr("profile", string(src.Profile))
		source.SetText(src.Code)
	}
}

func textChild(parent *etree.Element, name, text string) {
	parent.CreateElement(name).SetText(text)
}

func vec3Element(parent *etree.Element, name string, v Vec3) {
	e := parent.CreateElement(name)
	textChild(e, "x", trimFloat(v.X))
	textChild(e, "y", trimFloat(v.Y))
	textChild(e, "z", trimFloat(v.Z))
}

func vec4Children(parent *etree.Element, v Vec4, format func(float64) string) {
	textChild(parent, "x", format(v.X))
	textChild(parent, "y", format(v.Y))
	textChild(parent, "z", format(v.Z))
	textChild(parent, "w", format(v.W))
}

// pyFloat formats parameter values: integral floats keep a trailing ".0" so
// the consuming parser sees a float, everything else uses the shortest
// round-trippable form.
func pyFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// trimFloat formats fixed render-state vector components, which the
// container stores without a decimal point when integral.
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

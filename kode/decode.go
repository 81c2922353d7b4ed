// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kode

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Decode parses .klproj container bytes back into a Project. It is the exact
// inverse of Encode and exists for verification, analysis and tests.
func Decode(data []byte) (*Project, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("kode: not a zlib stream: %w", err)
	}
	defer zr.Close()

	xmlBytes, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("kode: decompress container: %w", err)
	}
	return DecodeXML(xmlBytes)
}

// DecodeXML parses an uncompressed klxml document.
func DecodeXML(xmlBytes []byte) (*Project, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("kode: parse document: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "klxml" {
		return nil, fmt.Errorf("kode: root element is not klxml")
	}

	p := &Project{API: Profile(root.SelectAttrValue("a", ""))}
	p.Version, _ = strconv.Atoi(root.SelectAttrValue("v", "0"))

	document := root.SelectElement("document")
	if document == nil {
		return nil, fmt.Errorf("kode: missing document element")
	}

	if props := document.SelectElement("properties"); props != nil {
		p.Properties = decodeProperties(props)
	}
	if params := document.SelectElement("params"); params != nil {
		for _, pe := range params.SelectElements("param") {
			p.Params = append(p.Params, decodeParameter(pe))
		}
	}
	if passes := document.SelectElement("passes"); passes != nil {
		for _, pe := range passes.SelectElements("pass") {
			p.Passes = append(p.Passes, decodePass(pe))
		}
	}
	return p, nil
}

func decodeProperties(e *etree.Element) Properties {
	props := Properties{
		Creator:        childText(e, "creator"),
		CreatorVersion: childText(e, "creatorVersion"),
		VersionMajor:   childInt(e, "versionMajor"),
		VersionMinor:   childInt(e, "versionMinor"),
		VersionPatch:   childInt(e, "versionPatch"),
		Author:         childText(e, "author"),
		Comment:        childText(e, "comment"),
		Enabled:        childInt(e, "enabled"),
		Format:         childText(e, "format"),
		AudioSource:    childInt(e, "audioSourceType"),
		AudioFilePath:  childText(e, "audioFilePath"),
	}
	if size := e.SelectElement("size"); size != nil {
		props.Width = childInt(size, "x")
		props.Height = childInt(size, "y")
	}
	if clear := e.SelectElement("clearColor"); clear != nil {
		props.ClearColor = decodeVec4(clear)
	}
	return props
}

func decodeParameter(e *etree.Element) Parameter {
	p := Parameter{
		Kind:         ParamKind(e.SelectAttrValue("type", "")),
		DisplayName:  childText(e, "displayName"),
		VariableName: childText(e, "variableName"),
		UIExpanded:   childInt(e, "uiExpanded"),
	}
	for _, child := range e.ChildElements() {
		switch child.Tag {
		case "displayName", "variableName", "uiExpanded":
			continue
		}
		p.Props = append(p.Props, Property{Name: child.Tag, Value: decodePropertyValue(child)})
	}
	return p
}

// decodePropertyValue reverses buildPropertyValue. Component-only children
// become vectors, other nested elements become []Property, and leaf text is
// narrowed to int or float64 when it parses as one.
func decodePropertyValue(e *etree.Element) any {
	children := e.ChildElements()
	if len(children) == 0 {
		return decodeScalar(e.Text())
	}

	if vec, ok := decodeVector(e, children); ok {
		return vec
	}

	props := make([]Property, 0, len(children))
	for _, child := range children {
		props = append(props, Property{Name: child.Tag, Value: decodePropertyValue(child)})
	}
	return props
}

func decodeVector(e *etree.Element, children []*etree.Element) (any, bool) {
	tags := make([]string, len(children))
	for i, c := range children {
		if len(c.ChildElements()) > 0 {
			return nil, false
		}
		tags[i] = c.Tag
	}
	component := func(name string) float64 {
		f, _ := strconv.ParseFloat(childText(e, name), 64)
		return f
	}
	switch strings.Join(tags, ",") {
	case "x,y":
		return Vec2{component("x"), component("y")}, true
	case "x,y,z":
		return Vec3{component("x"), component("y"), component("z")}, true
	case "x,y,z,w":
		return Vec4{component("x"), component("y"), component("z"), component("w")}, true
	}
	return nil, false
}

func decodeScalar(text string) any {
	if text == "" {
		return ""
	}
	if i, err := strconv.Atoi(text); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}

func decodePass(e *etree.Element) RenderPass {
	pass := RenderPass{Kind: PassKind(e.SelectAttrValue("type", ""))}

	if props := e.SelectElement("properties"); props != nil {
		pass.Label = childText(props, "label")
		pass.Enabled = childInt(props, "enabled")
		pass.PrimitiveType = childText(props, "primitiveType")
		if rt := props.SelectElement("rendertarget"); rt != nil {
			if size := rt.SelectElement("size"); size != nil {
				pass.Width = childInt(size, "x")
				pass.Height = childInt(size, "y")
			}
		}
	}
	if params := e.SelectElement("params"); params != nil {
		for _, pe := range params.SelectElements("param") {
			pass.Params = append(pass.Params, decodeParameter(pe))
		}
	}
	if stages := e.SelectElement("stages"); stages != nil {
		for _, se := range stages.SelectElements("stage") {
			pass.Stages = append(pass.Stages, decodeStage(se))
		}
	}
	return pass
}

func decodeStage(e *etree.Element) ShaderStage {
	stage := ShaderStage{Kind: StageKind(e.SelectAttrValue("type", ""))}

	var watchPath string
	watched := false
	if props := e.SelectElement("properties"); props != nil {
		stage.Enabled = childInt(props, "enabled")
		stage.Hidden = childInt(props, "hidden")
		watched = childInt(props, "fileWatch") == 1
		watchPath = childText(props, "fileWatchPath")
	}
	if params := e.SelectElement("params"); params != nil {
		for _, pe := range params.SelectElements("param") {
			stage.Params = append(stage.Params, decodeParameter(pe))
		}
	}

	if watched {
		stage.Body = WatchedBody{Path: watchPath}
		return stage
	}

	var sources []ShaderSource
	if shader := e.SelectElement("shader"); shader != nil {
		for _, se := range shader.SelectElements("source") {
			sources = append(sources, ShaderSource{
				Profile: Profile(se.SelectAttrValue("profile", "")),
				Code:    se.Text(),
			})
		}
	}
	stage.Body = EmbeddedBody{Sources: sources}
	return stage
}

func decodeVec4(e *etree.Element) Vec4 {
	f := func(name string) float64 {
		v, _ := strconv.ParseFloat(childText(e, name), 64)
		return v
	}
	return Vec4{f("x"), f("y"), f("z"), f("w")}
}

func childText(e *etree.Element, name string) string {
	if child := e.SelectElement(name); child != nil {
		return child.Text()
	}
	return ""
}

func childInt(e *etree.Element, name string) int {
	i, _ := strconv.Atoi(childText(e, name))
	return i
}

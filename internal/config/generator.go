package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/stemsplit/bundle/internal/platform"
	"github.com/stemsplit/bundle/internal/stage"
)

// Generator generates asset manifest source from Go values.
type Generator struct {
	indent string // Indentation string (default: two spaces)
}

// NewGenerator creates a new manifest generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
	}
}

// Generate writes a manifest that pins model and tools explicitly. Parsing
// the result yields overrides equal to the inputs.
func (g *Generator) Generate(model stage.ModelSpec, tools stage.ToolSpec) string {
	var buf bytes.Buffer

	buf.WriteString("-- stemsplit asset manifest\n")
	buf.WriteString("-- Every field is optional; unset fields keep the built-in defaults.\n")
	buf.WriteString("-- A read-only `platform` table describes the platform being staged for.\n\n")

	buf.WriteString("assets = {\n")
	g.writeModel(&buf, model)
	g.writeTools(&buf, tools)
	buf.WriteString("}\n")

	return buf.String()
}

// writeModel writes the model section to the buffer.
func (g *Generator) writeModel(buf *bytes.Buffer, model stage.ModelSpec) {
	buf.WriteString(g.indent)
	buf.WriteString("model = {\n")
	g.writeField(buf, 2, luaFieldName, model.Name)
	g.writeField(buf, 2, luaFieldSignature, model.Signature)
	g.writeField(buf, 2, luaFieldChecksum, model.Checksum)
	g.writeField(buf, 2, luaFieldURL, model.URL)
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

// writeTools writes the ffmpeg section to the buffer.
func (g *Generator) writeTools(buf *bytes.Buffer, tools stage.ToolSpec) {
	buf.WriteString(g.indent)
	buf.WriteString("ffmpeg = {\n")

	if len(tools.Executables) > 0 {
		quoted := make([]string, len(tools.Executables))
		for i, exe := range tools.Executables {
			quoted[i] = g.quoteLuaString(exe)
		}
		buf.WriteString(strings.Repeat(g.indent, 2))
		fmt.Fprintf(buf, "%s = { %s },\n", luaFieldExecutable, strings.Join(quoted, ", "))
	}

	if len(tools.URLs) > 0 {
		buf.WriteString(strings.Repeat(g.indent, 2))
		buf.WriteString("urls = {\n")
		for _, key := range platform.Keys() {
			if u, ok := tools.URLs[key]; ok {
				g.writeField(buf, 3, key.String(), u)
			}
		}
		buf.WriteString(strings.Repeat(g.indent, 2))
		buf.WriteString("},\n")
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n")
}

func (g *Generator) writeField(buf *bytes.Buffer, depth int, name, value string) {
	if value == "" {
		return
	}
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(g.quoteLuaString(value))
	buf.WriteString(",\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}

// Package docs renders the command reference of the README.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/keshon/discord-hybrid/pkg/cmd"
)

// CommandSections renders the commands of registry as markdown, one section
// per group. Slash commands are shown with a slash, message-only commands
// with prefix.
func CommandSections(registry *cmd.Registry, prefix string) string {
	byGroup := make(map[string][]cmd.Command)
	for _, c := range registry.All() {
		group := "other"
		if g, ok := cmd.As[cmd.Grouped](c); ok && g.Group() != "" {
			group = g.Group()
		}
		byGroup[group] = append(byGroup[group], c)
	}

	names := make([]string, 0, len(byGroup))
	for g := range byGroup {
		names = append(names, g)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for i, group := range names {
		if i > 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "### %s\n\n", group)
		for _, c := range byGroup[group] {
			display := prefix + c.Name()
			if _, ok := cmd.As[cmd.SlashProvider](c); ok {
				display = "/" + c.Name()
			}
			fmt.Fprintf(&buf, "- **%s** - %s", display, c.Description())
			if a, ok := cmd.As[cmd.Aliased](c); ok && len(a.Aliases()) > 0 {
				fmt.Fprintf(&buf, " (aliases: `%s`)", strings.Join(a.Aliases(), "`, `"))
			}
			buf.WriteString("\n")
		}
	}
	return buf.String()
}

// Render executes the README template with the command sections.
func Render(w io.Writer, tmplText string, registry *cmd.Registry, prefix string) error {
	tmpl, err := template.New("readme").Parse(tmplText)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	data := struct {
		CommandSections string
	}{
		CommandSections: CommandSections(registry, prefix),
	}
	return tmpl.Execute(w, data)
}

// UpdateReadme rewrites outPath from the template at tmplPath.
func UpdateReadme(tmplPath, outPath string, registry *cmd.Registry, prefix string) error {
	tmplData, err := os.ReadFile(tmplPath)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := Render(&out, string(tmplData), registry, prefix); err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		return err
	}

	log.Printf("[INFO] %s updated with current commands", outPath)
	return nil
}

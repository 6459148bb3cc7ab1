package main

import (
	"flag"
	"log"

	"github.com/keshon/discord-hybrid/internal/commands"
	"github.com/keshon/discord-hybrid/internal/docs"
	"github.com/keshon/discord-hybrid/pkg/cmd"
)

func main() {
	tmplPath := flag.String("template", "README.md.tmpl", "README template")
	outPath := flag.String("out", "README.md", "generated README")
	prefix := flag.String("prefix", "!", "command prefix shown for message-only commands")
	flag.Parse()

	// nothing runs, so the commands need no store
	registry := cmd.NewRegistry()
	commands.Register(commands.Deps{Registry: registry, Prefix: *prefix})

	if err := docs.UpdateReadme(*tmplPath, *outPath, registry, *prefix); err != nil {
		log.Fatal("[ERR] ", err)
	}
}

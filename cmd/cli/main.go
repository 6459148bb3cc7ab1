// Command cli runs the bot's commands from a terminal. Each input line is
// treated as a guild message; whatever the bot sends back is printed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/discord-hybrid/internal/commands"
	"github.com/keshon/discord-hybrid/internal/discord"
	"github.com/keshon/discord-hybrid/internal/storage"
	"github.com/keshon/discord-hybrid/pkg/cmd"
	"github.com/keshon/discord-hybrid/pkg/hybrid"
	"github.com/keshon/discord-hybrid/pkg/hybrid/hybridtest"
)

const (
	consoleBotID     = "1"
	consoleUserID    = "2"
	consoleGuildID   = "console"
	consoleChannelID = "3"
)

func main() {
	storagePath := flag.String("storage", "datastore.json", "datastore file")
	prefix := flag.String("prefix", "!", "command prefix")
	flag.Parse()

	store, err := storage.New(context.Background(), *storagePath)
	if err != nil {
		log.Fatal("[ERR] ", err)
	}
	defer store.Close()

	registry := cmd.NewRegistry()
	commands.Register(commands.Deps{
		Registry: registry,
		Store:    store,
		Prefix:   *prefix,
		// the console user may run everything
		DeveloperID: consoleUserID,
	})

	fmt.Printf("Type commands starting with %q, Ctrl+D to quit.\n", *prefix)
	scanner := bufio.NewScanner(os.Stdin)
	seq := 0
	for fmt.Print("> "); scanner.Scan(); fmt.Print("> ") {
		line := scanner.Text()
		name, args, ok := discord.ParseCommand(line, *prefix, consoleBotID)
		if !ok {
			continue
		}

		seq++
		s := hybridtest.NewSession(consoleBotID)
		s.Channels[consoleChannelID] = &discordgo.Channel{ID: consoleChannelID, GuildID: consoleGuildID, Name: "console", Type: discordgo.ChannelTypeGuildText}
		hc, err := hybrid.New(s, nil, hybrid.Origin{Message: &discordgo.Message{
			ID:        fmt.Sprintf("%d", seq),
			ChannelID: consoleChannelID,
			GuildID:   consoleGuildID,
			Content:   line,
			Author:    &discordgo.User{ID: consoleUserID, Username: "console"},
		}})
		if err != nil {
			log.Println("[ERR]", err)
			continue
		}

		if !discord.Dispatch(context.Background(), registry, &cmd.Invocation{Name: name, Args: args, Context: hc}) {
			fmt.Printf("unknown command %q\n", name)
			continue
		}
		printSent(s)
	}
}

func printSent(s *hybridtest.Session) {
	ids := make([]string, 0, len(s.Messages))
	for id := range s.Messages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		m := s.Messages[id]
		if m.Content != "" {
			fmt.Println(m.Content)
		}
		for _, e := range m.Embeds {
			if e.Title != "" {
				fmt.Printf("== %s ==\n", e.Title)
			}
			if e.Description != "" {
				fmt.Println(e.Description)
			}
			for _, f := range e.Fields {
				fmt.Printf("%s: %s\n", f.Name, f.Value)
			}
		}
	}
	for _, th := range s.Threads {
		fmt.Printf("(thread %q started)\n", strings.TrimSpace(th))
	}
}

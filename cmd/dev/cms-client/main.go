// Command cms-client queries the CMS directly through pkg/strapi and prints the normalized
// result. It is a development aid for checking CMS content without running the server.
//
//	cms-client list [-all]
//	cms-client get <id>
//	cms-client search <query>
//	cms-client stats
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/garnizeh/weboff/internal/config"
	"github.com/garnizeh/weboff/internal/stats"
	"github.com/garnizeh/weboff/pkg/strapi"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	all := flag.Bool("all", false, "Include drafts when listing")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: cms-client [-config file] [-all] list|get <id>|search <query>|stats")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	client, err := strapi.NewDefaultClient(cfg.Strapi)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	out, err := run(ctx, client, flag.Arg(0), flag.Args()[1:], *all)
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, client *strapi.Client, cmd string, args []string, all bool) (any, error) {
	switch cmd {
	case "list":
		return client.ListProjects(ctx, all)
	case "get":
		if len(args) != 1 {
			return nil, fmt.Errorf("get needs exactly one id")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		p, err := client.GetProject(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("project %d not found", id)
		}
		return p, nil
	case "search":
		if len(args) != 1 {
			return nil, fmt.Errorf("search needs exactly one query")
		}
		return client.SearchProjects(ctx, args[0])
	case "stats":
		ps, err := client.ListProjects(ctx, true)
		if err != nil {
			return nil, err
		}
		return stats.Compute(ps, time.Now()), nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

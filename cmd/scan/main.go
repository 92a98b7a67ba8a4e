package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/internal/domain/services"
	"guardian-lab/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	asJSON := flag.Bool("json", false, "print verdicts as JSON")
	offline := flag.Bool("offline", false, "skip reputation and classifier lookups")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Keep engine logs out of the scan output
	log := logger.New(logger.Config{Level: "error", Format: "console"})

	catalog := rules.NewDefaultCatalog()
	if cfg.Analysis.MaliciousDomainsFile != "" {
		if err := catalog.MaliciousDomains.LoadExternal(cfg.Analysis.MaliciousDomainsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load domain list: %v\n", err)
		}
	}

	var classifier services.Classifier
	if cfg.Classifier.Enabled && !*offline {
		classifier = services.NewHTTPClassifier(cfg.Classifier, log)
	}

	analyzer := services.NewMessageAnalyzer(cfg.Analysis, catalog, nil, classifier, log)

	messages := flag.Args()
	if len(messages) == 0 {
		// Read one message per line from stdin
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				messages = append(messages, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read stdin: %v\n", err)
			os.Exit(1)
		}
	}

	if len(messages) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: scan [flags] <message> [<message>...]")
		fmt.Fprintln(os.Stderr, "       echo 'message' | scan [flags]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	exitCode := 0
	for _, message := range messages {
		verdict := analyzer.Analyze(ctx, message)

		if *asJSON {
			out, _ := json.Marshal(verdict)
			fmt.Println(string(out))
		} else {
			fmt.Printf("%-10s score=%-3d %s\n", verdict.Level, verdict.Score, truncate(message, 60))
			for _, reason := range verdict.Reasons {
				fmt.Printf("           - %s\n", reason)
			}
		}

		if verdict.Level != "Safe" && exitCode == 0 {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

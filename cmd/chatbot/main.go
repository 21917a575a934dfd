// Command chatbot runs the booking dialogue as an interactive terminal
// session against the configured calendar and email backends.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/clinicassist/appointment-agent/internal/agent"
	"github.com/clinicassist/appointment-agent/internal/app/bootstrap"
	appconfig "github.com/clinicassist/appointment-agent/internal/config"
	"github.com/clinicassist/appointment-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	engine, closeEngine, err := bootstrap.BuildEngine(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to initialize dialogue engine", "error", err)
		os.Exit(1)
	}
	defer closeEngine()

	st := agent.NewState()
	st.SeedGreeting()
	engine.Invoke(ctx, st)
	printReplies(st)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			fmt.Println("Bot: Goodbye!")
			break
		}

		st.BeginTurn(input)
		engine.Invoke(ctx, st)
		printReplies(st)

		if st.Confirmed && st.Date != "" && st.Time != "" {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("input error", "error", err)
		os.Exit(1)
	}
}

func printReplies(st *agent.State) {
	for _, reply := range st.FlushReplies() {
		fmt.Printf("Bot: %s\n", reply)
	}
}

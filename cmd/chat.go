package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/assistant"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive solar advisor chat",
	Long:  "Starts a terminal chat with the solar advisor assistant. The assistant answers from the same knowledge base the engine uses. Type 'exit' or press Ctrl-D to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(cfg.Assistant.Key) == "" {
			return assistant.ErrMissingAPIKey
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := loadKnowledge()
		if err != nil {
			return err
		}

		a := assistant.New(
			assistant.NewClient(cfg.Assistant.Key),
			kb.NewHandle(k),
			assistant.Options{
				Model:          cfg.Assistant.Model,
				MaxTokens:      cfg.Assistant.MaxTokens,
				HistoryWindow:  cfg.Assistant.HistoryWindow,
				RequestsPerMin: cfg.Assistant.RequestsPerMin,
			},
		)

		fmt.Println("Solar advisor chat. Type 'exit' to quit.")
		var history []assistant.Turn
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			if question == "exit" || question == "quit" {
				return nil
			}

			answer, err := a.Ask(ctx, history, question)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}

			fmt.Println(answer)
			history = append(history,
				assistant.Turn{Role: "user", Content: question},
				assistant.Turn{Role: "assistant", Content: answer},
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

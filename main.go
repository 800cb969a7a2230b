package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Yadino/vidextract/api"
	"github.com/Yadino/vidextract/config"
	"github.com/Yadino/vidextract/logging"
	"github.com/Yadino/vidextract/model"
	"github.com/Yadino/vidextract/tui"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var baseURL string

	rootCmd := &cobra.Command{
		Use:   "vidextract [video-file]",
		Short: "terminal client for the VidExtract video analysis backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(baseURL, logger)
			m := tui.NewModel(client, logger)
			if len(args) == 1 {
				m.SetInitialPath(args[0])
			}
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", cfg.BaseURL, "backend base URL")

	// headless subcommands for scripting, same client as the TUI

	uploadCmd := &cobra.Command{
		Use:   "upload <video-file>",
		Short: "upload and analyze a video, print the resulting filename",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(baseURL, logger)
			res, err := client.Upload(cmd.Context(), args[0], func(sent, total int64) {
				if total <= 0 {
					return
				}
				fmt.Fprintf(os.Stderr, "\ruploading: %3d%%", sent*100/total)
				if sent == total {
					fmt.Fprint(os.Stderr, "\nanalyzing...\n")
				}
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d events saved\n", res.Filename, res.EventsSaved)
			return nil
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat <video-filename> <query...>",
		Short: "query the extracted moments of an analyzed video",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(baseURL, logger)
			input := strings.Join(args[1:], " ")
			allRequested := strings.ToLower(strings.TrimSpace(input)) == "all"
			query := input
			if allRequested {
				query = api.QueryAllEvents
			}
			resp, err := client.Query(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			printReply(allRequested, resp.Events)
			return nil
		},
	}

	eventsCmd := &cobra.Command{
		Use:   "events <video-filename>",
		Short: "list every extracted moment of an analyzed video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(baseURL, logger)
			events, err := client.Events(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printReply(true, events)
			return nil
		},
	}

	rootCmd.AddCommand(uploadCmd, chatCmd, eventsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printReply(allRequested bool, events []model.Event) {
	fmt.Println(model.Intro(allRequested, len(events)))
	for _, e := range events {
		fmt.Println(model.FormatEvent(e))
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/rpager/pkg/kai"
)

var kaiCmd = &cobra.Command{
	Use:   "kai",
	Short: "Talk to Kai, the study assistant",
	Long: `Kai answers with Gemini when an API key is configured and with a local Ollama model
otherwise. When neither answers, Kai replies with a canned message that fits the current code
status, so the chat never fails.`,
}

// newAssistant builds the completer chain from the configuration.
func newAssistant(ctx context.Context) *kai.Assistant {
	client := &http.Client{Timeout: cfg.ServiceTimeout}

	var completers []kai.Completer
	if cfg.GeminiAPIKey != "" {
		g, err := kai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn(ctx, "gemini unavailable, using ollama only", "error", err)
		} else {
			completers = append(completers, g)
		}
	}
	completers = append(completers, kai.NewOllama(cfg.OllamaURL, cfg.OllamaModel, client))

	return kai.NewAssistant(logger, kai.Options{StudentName: cfg.StudentName, Timeout: cfg.ServiceTimeout}, completers...)
}

var kaiChatCmd = &cobra.Command{
	Use:   "chat [MESSAGE...]",
	Short: "Send one message, or chat line by line until an empty line",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageContext, _ := cmd.Flags().GetString("context")

		app, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()

		assistant := newAssistant(cmd.Context())
		out := cmd.OutOrStdout()
		send := func(msg string) {
			reply := assistant.Send(cmd.Context(), kai.Request{
				Message:    msg,
				CodeStatus: app.state.Current().CodeStatus,
				Context:    pageContext,
			})
			fmt.Fprintf(out, "Kai: %s\n", reply.Text)
			if reply.Fallback {
				logger.Info(cmd.Context(), "kai replied with a fallback")
			}
		}

		if len(args) > 0 {
			send(strings.Join(args, " "))
			return nil
		}

		reader := bufio.NewReader(cmd.InOrStdin())
		fmt.Fprintf(out, "Paging Kai (%s). Empty line to hang up.\n", app.state.Current().CodeStatus)
		for {
			fmt.Fprint(out, "> ")
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line == "" {
				return nil
			}
			send(line)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	},
}

var kaiTranscribeCmd = &cobra.Command{
	Use:   "transcribe AUDIO",
	Short: "Transcribe an audio file with a local whisper.cpp server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		w := kai.NewWhisper(cfg.WhisperURL, &http.Client{Timeout: cfg.ServiceTimeout})
		if !w.Available(cmd.Context()) {
			logger.Warn(cmd.Context(), "whisper health check failed, trying anyway", "url", cfg.WhisperURL)
		}
		text, ok := w.TranscribeOrFallback(cmd.Context(), f, filepath.Base(args[0]))
		fmt.Fprintln(cmd.OutOrStdout(), text)
		if !ok {
			return errors.New("transcription failed")
		}
		return nil
	},
}

func initKaiCmd() {
	kaiChatCmd.Flags().String("context", "", "What you are looking at, e.g. Flashcards")
	kaiCmd.AddCommand(kaiChatCmd, kaiTranscribeCmd)
}

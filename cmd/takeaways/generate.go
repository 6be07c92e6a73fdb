package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/takeaways/internal/ingestion"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/observability"
	"github.com/jonathan/takeaways/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate output from a URL or a text file",
	Long: `Loads the content behind --url (a web page or a YouTube video) or --file
(.txt or .md), runs the selected task over every chunk and prints the joined result.

Use --interactive to pick the source, task, language and model in a form.`,
	Example: `  takeaways generate --url https://go.dev/blog/go1.22 --language English
  takeaways generate --file notes.md --task student-notes --out notes.txt
  takeaways generate --file talk.txt --task custom --prompt "Summarize: {content}"
  takeaways generate -i`,
	RunE: runGenerate,
}

var (
	genURL            string
	genFile           string
	genTask           string
	genPrompt         string
	genLanguage       string
	genCustomLanguage string
	genModel          string
	genChunkSize      int
	genAPIKey         string
	genOut            string
	genCopy           bool
	genInteractive    bool
	genVerbose        bool
)

func init() {
	generateCmd.Flags().StringVarP(&genURL, "url", "u", "", "Web page or YouTube URL (wins over --file)")
	generateCmd.Flags().StringVarP(&genFile, "file", "f", "", "Path to a .txt or .md file")
	generateCmd.Flags().StringVarP(&genTask, "task", "t", "", "Task key (see 'takeaways catalog')")
	generateCmd.Flags().StringVar(&genPrompt, "prompt", "", "Custom prompt with a {content} placeholder, used with --task custom")
	generateCmd.Flags().StringVarP(&genLanguage, "language", "l", "", "Output language")
	generateCmd.Flags().StringVar(&genCustomLanguage, "custom-language", "", "Free-text language, used with --language Custom")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Model name or label")
	generateCmd.Flags().IntVar(&genChunkSize, "chunk-size", 0, "Characters per chunk (overrides the profile)")
	// API key can be passed as a flag, or read from OPENAI_API_KEY / GEMINI_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "API key for the model provider (defaults to the provider's env var)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write the result to this file instead of stdout")
	generateCmd.Flags().BoolVar(&genCopy, "copy", false, "Copy the result to the clipboard")
	generateCmd.Flags().BoolVarP(&genInteractive, "interactive", "i", false, "Choose options in an interactive form")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print a source and run summary to stderr")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	profile, err := appConfig.ActiveProfile()
	if err != nil {
		return err
	}

	input := generateInput{
		URL:            genURL,
		File:           genFile,
		Task:           genTask,
		Prompt:         genPrompt,
		Language:       genLanguage,
		CustomLanguage: genCustomLanguage,
		Model:          genModel,
		APIKey:         genAPIKey,
	}
	if genInteractive {
		if err := newGenerateForm(profile, &input).RunWithContext(ctx); err != nil {
			return err
		}
	}

	req := pipeline.Request{
		Task:           input.Task,
		CustomPrompt:   input.Prompt,
		Language:       input.Language,
		CustomLanguage: input.CustomLanguage,
		Model:          input.Model,
		ChunkSize:      genChunkSize,
	}
	req.Source.URL = strings.TrimSpace(input.URL)
	if req.Source.URL == "" && input.File != "" {
		upload, err := ingestion.ReadUpload(input.File)
		if err != nil {
			return err
		}
		req.Source.File = upload
	}

	creds := llm.Credentials{APIKey: input.APIKey}
	if creds.Empty() {
		// request-credential profiles still accept the env var on the command line
		if model, err := llm.LookupModel(firstNonEmpty(req.Model, profile.DefaultModel)); err == nil {
			creds = llm.CredentialsFromEnv(model.Provider)
		}
	}

	runner := newRunner(appConfig, profile)
	result, err := run(ctx, cmd, runner, req, creds)
	if err != nil {
		appLogger.Debug("generation failed", zap.Error(err))
		if kind := pipeline.KindOf(err); kind != pipeline.KindUnknown {
			return errors.New(pipeline.UserMessage(err))
		}
		return err
	}

	if genVerbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintSource(result.Metadata)
		printer.PrintResult(result)
	}

	if err := writeResult(cmd, result.Output); err != nil {
		return err
	}
	if genCopy {
		if err := clipboard.WriteAll(result.Output); err != nil {
			appLogger.Warn("could not copy to clipboard", zap.Error(err))
		} else {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
		}
	}
	return nil
}

// run shows a spinner in interactive mode and progress lines otherwise.
func run(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, req pipeline.Request, creds llm.Credentials) (*pipeline.Result, error) {
	if !genInteractive {
		req.OnProgress = func(ev pipeline.ProgressEvent) {
			if ev.Step == pipeline.StepGenerate {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", ev.Message)
			}
		}
		return runner.Run(ctx, req, creds)
	}

	var (
		result *pipeline.Result
		runErr error
	)
	err := spinner.New().Context(ctx).Title("Generating...").Action(func() {
		result, runErr = runner.Run(ctx, req, creds)
	}).Run()
	if err != nil {
		return nil, err
	}
	return result, runErr
}

func writeResult(cmd *cobra.Command, output string) error {
	if genOut == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), output)
		return err
	}
	if err := os.WriteFile(genOut, []byte(output), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", genOut)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

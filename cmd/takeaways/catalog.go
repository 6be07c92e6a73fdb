package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/takeaways/internal/chunking"
	"github.com/jonathan/takeaways/internal/config"
	"github.com/jonathan/takeaways/internal/llm"
	"github.com/jonathan/takeaways/internal/prompts"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the tasks, languages and models of the active profile",
	RunE:  runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Print the profile as JSON")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	profile, err := appConfig.ActiveProfile()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if catalogJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}
	return printCatalog(out, profile)
}

func printCatalog(out io.Writer, profile *config.Profile) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Profile:\t%s\n", profile.Name)
	fmt.Fprintf(w, "Profiles:\t%s\n", strings.Join(config.ProfileNames(), ", "))
	fmt.Fprintf(w, "Chunking:\t%s\n", chunkingSummary(profile))
	fmt.Fprintf(w, "API key:\t%s\n", profile.CredentialSource)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TASK\tLABEL")
	tasks, err := prompts.Tasks()
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if !profile.AllowsTask(t.Key) {
			continue
		}
		marker := ""
		if t.Key == profile.DefaultTask {
			marker = " (default)"
		}
		fmt.Fprintf(w, "%s\t%s%s\n", t.Key, t.Label, marker)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "MODEL\tPROVIDER\tMAX TOKENS")
	for _, name := range profile.Models {
		m, err := llm.LookupModel(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\n", m.Name, m.Provider, m.MaxTokens)
	}
	fmt.Fprintln(w)

	languages := profile.DefaultLanguage
	if len(profile.Languages) > 0 {
		languages = strings.Join(profile.Languages, ", ")
		if profile.AllowCustomLanguage {
			languages += ", " + prompts.CustomLanguage
		}
	}
	fmt.Fprintf(w, "Languages:\t%s\n", languages)

	return w.Flush()
}

func chunkingSummary(p *config.Profile) string {
	switch p.ChunkSizeSource {
	case config.ChunkFixed:
		return fmt.Sprintf("fixed, %d characters", p.FixedChunkSize)
	case config.ChunkNone:
		return "off, whole text in one request"
	default:
		reserved := p.ReservedTokens
		if reserved == 0 {
			reserved = chunking.DefaultReservedTokens
		}
		return fmt.Sprintf("model context minus %d", reserved)
	}
}

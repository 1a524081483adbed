package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/NancyCima/Azure-Dashboard/internal/analysis"
	"github.com/NancyCima/Azure-Dashboard/internal/bootstrap"
	"github.com/NancyCima/Azure-Dashboard/internal/criteria"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/config"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
	"github.com/NancyCima/Azure-Dashboard/internal/workitems"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ticketcheck",
		Short: "Inspect work item filtering and ticket analysis locally",
		Long: `ticketcheck runs the gateway's pipeline without the HTTP server:

- filter:  apply the visibility rules to a work item dump or the live tracker
- prompt:  print the analysis prompt built for a ticket
- analyze: send a ticket (and optional images) to the configured LLM`,
		SilenceUsage: true,
	}
	root.AddCommand(newFilterCmd(), newPromptCmd(), newAnalyzeCmd())
	return root
}

func newFilterCmd() *cobra.Command {
	var input, state string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Apply the work item visibility rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			var items []workitems.WorkItem
			if input != "" {
				data, err := readInput(input)
				if err != nil {
					return err
				}
				if items, err = workitems.DecodeList(data); err != nil {
					return fmt.Errorf("decode work items: %w", err)
				}
			} else {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				src, err := bootstrap.BuildSource(cfg)
				if err != nil {
					return err
				}
				if items, err = src.List(cmd.Context()); err != nil {
					return err
				}
			}
			kept := workitems.ByState(workitems.Filter(items), state)
			return printFilter(cmd.OutOrStdout(), items, kept)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Work item JSON file, or - for stdin (default: live tracker)")
	cmd.Flags().StringVarP(&state, "state", "s", "", "Only keep items in this state")
	return cmd
}

func printFilter(w io.Writer, all, kept []workitems.WorkItem) error {
	headerColor.Fprintf(w, "%d of %d work items visible\n", len(kept), len(all))
	visible := make(map[int]bool, len(kept))
	for _, it := range kept {
		visible[it.ID] = true
	}
	for _, it := range all {
		line := fmt.Sprintf("#%d [%s] %s (%s)", it.ID, it.WorkItemType, it.Title, it.State)
		if visible[it.ID] {
			successColor.Fprintln(w, "  + "+line)
		} else {
			warningColor.Fprintln(w, "  - "+line)
		}
	}
	return nil
}

type ticketFlags struct {
	ticket   string
	criteria string
	language string
}

func (f *ticketFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ticket, "ticket", "t", "", "Ticket JSON file, or - for stdin (required)")
	cmd.Flags().StringVar(&f.criteria, "criteria", "", "Criteria catalog file (default: embedded catalog)")
	cmd.Flags().StringVarP(&f.language, "lang", "l", "es", "Fallback language: es or en")
	_ = cmd.MarkFlagRequired("ticket")
}

func (f *ticketFlags) load() (analysis.Ticket, criteria.Catalog, analysis.Language, error) {
	data, err := readInput(f.ticket)
	if err != nil {
		return analysis.Ticket{}, criteria.Catalog{}, "", err
	}
	var ticket analysis.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return analysis.Ticket{}, criteria.Catalog{}, "", fmt.Errorf("decode ticket: %w", err)
	}
	cat, err := criteria.Load(f.criteria)
	if err != nil {
		return analysis.Ticket{}, criteria.Catalog{}, "", err
	}
	lang, ok := analysis.ParseLanguage(f.language)
	if !ok {
		return analysis.Ticket{}, criteria.Catalog{}, "", fmt.Errorf("unsupported language %q", f.language)
	}
	return ticket, cat, lang, nil
}

func newPromptCmd() *cobra.Command {
	var flags ticketFlags
	var images int
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt built for a ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, cat, fallback, err := flags.load()
			if err != nil {
				return err
			}
			prompt, lang := analysis.BuildPrompt(analysis.PromptInput{
				Title:              ticket.Title,
				Description:        ticket.Description,
				AcceptanceCriteria: ticket.AcceptanceCriteria,
				FigmaLink:          ticket.FigmaLink,
				ImageCount:         images,
				Criteria:           cat,
			}, fallback)
			infoColor.Fprintf(cmd.ErrOrStderr(), "language: %s\n", lang)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&images, "images", 0, "Pretend this many images are attached")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var flags ticketFlags
	var imagePaths []string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a ticket with the configured LLM provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, cat, fallback, err := flags.load()
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := telemetry.NewStructured(cfg.LogLevel, "console")
			client, err := bootstrap.BuildLLM(cfg, logger)
			if err != nil {
				return err
			}
			svc := analysis.NewService(client, cat, bootstrap.ProviderName(cfg.LLMProvider), logger)
			svc.DefaultLanguage = fallback
			svc.Timeout = cfg.LLMTimeout
			svc.Temperature = cfg.LLMTemperature
			if cfg.LLMMaxTokens > 0 {
				svc.MaxTokens = cfg.LLMMaxTokens
			}

			uploads, err := readImages(imagePaths)
			if err != nil {
				return err
			}
			result, err := svc.Analyze(cmd.Context(), ticket, uploads)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&imagePaths, "image", nil, "Image file to attach (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printResult(w io.Writer, r analysis.Result) {
	headerColor.Fprintf(w, "Suggested acceptance criteria (%d)\n", len(r.SuggestedCriteria))
	for _, c := range r.SuggestedCriteria {
		fmt.Fprintf(w, "  - %s\n", c)
	}
	headerColor.Fprintf(w, "General suggestions (%d)\n", len(r.GeneralSuggestions))
	for _, s := range r.GeneralSuggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	if r.RequiresRevision {
		warningColor.Fprintln(w, "Ticket requires revision")
	} else {
		successColor.Fprintln(w, "Ticket looks complete")
	}
}

func readImages(paths []string) ([]analysis.Upload, error) {
	uploads := make([]analysis.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		uploads = append(uploads, analysis.Upload{
			Filename:    filepath.Base(p),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}
	return uploads, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

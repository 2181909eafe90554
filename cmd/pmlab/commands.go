package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"productlab-workers/pkg/registry"

	ds "productlab-workers/internal/workers/discovery/discovery-summarize"
	fs "productlab-workers/internal/workers/funnel/funnel-simulate"
	ip "productlab-workers/internal/workers/initiative/initiative-prioritize"
	ps "productlab-workers/internal/workers/persona/persona-select"

	"github.com/spf13/cobra"
)

// dashboard is the starting state of the lab.
type dashboard struct {
	Persona     *ps.Output `json:"persona" yaml:"persona"`
	Funnel      *fs.Output `json:"funnel" yaml:"funnel"`
	Initiatives *ip.Output `json:"initiatives" yaml:"initiatives"`
}

func (l *lab) runDashboard(cmd *cobra.Command) error {
	ctx := contextOf(cmd)

	persona, err := l.persona()
	if err != nil {
		return err
	}
	funnel, surfaces, err := l.funnel("")
	if err != nil {
		return err
	}
	defer surfaces.Close()
	initiatives, cleanup, err := l.initiatives()
	if err != nil {
		return err
	}
	defer cleanup()

	var d dashboard
	if d.Persona, err = persona.Execute(ctx, &ps.Input{}); err != nil {
		return err
	}
	if d.Funnel, err = funnel.Execute(ctx, &fs.Input{}); err != nil {
		return err
	}
	if d.Initiatives, err = initiatives.Execute(ctx, &ip.Input{Action: string(ip.ActionRender)}); err != nil {
		return err
	}
	return l.print(cmd.OutOrStdout(), d)
}

func newPersonaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "persona [key]",
		Short: "Show a buyer persona",
		Long: fmt.Sprintf(`Show the jobs, pains and opportunities of a persona.

Keys: %s. Without a key the configured default persona is shown.`, strings.Join(ps.Keys(), ", ")),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: ps.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLab(opts)
			if err != nil {
				return err
			}
			h, err := l.persona()
			if err != nil {
				return err
			}

			input := &ps.Input{}
			if len(args) == 1 {
				input.PersonaKey = &args[0]
			}
			out, err := h.Execute(contextOf(cmd), input)
			if err != nil {
				return err
			}
			return l.print(cmd.OutOrStdout(), out)
		},
	}
}

func newSummarizeCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarise discovery notes",
		Long: "Read discovery notes from --file or standard input. Lines starting with\n" +
			"\"-\" or \"\u2022\" count as pains or needs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLab(opts)
			if err != nil {
				return err
			}

			var notes []byte
			if file != "" {
				notes, err = os.ReadFile(file)
			} else {
				notes, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read notes: %w", err)
			}

			h, err := l.discovery()
			if err != nil {
				return err
			}
			out, err := h.Execute(contextOf(cmd), &ds.Input{Notes: string(notes)})
			if err != nil {
				return err
			}
			return l.print(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File holding the notes")
	return cmd
}

func newFunnelCmd(opts *options) *cobra.Command {
	var (
		leads, winRate, improvedWinRate, dealValue string
		chartDir                                   string
	)

	cmd := &cobra.Command{
		Use:   "funnel",
		Short: "Simulate monthly revenue with better lead prioritisation",
		Long: `Compute baseline and improved monthly revenue. Omitted inputs take the
configured defaults; values that are not numbers count as 0.

With --chart-dir the revenue chart is written there as a PDF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLab(opts)
			if err != nil {
				return err
			}
			h, surfaces, err := l.funnel(chartDir)
			if err != nil {
				return err
			}
			if chartDir == "" {
				defer surfaces.Close()
			}

			flags := cmd.Flags()
			input := &fs.Input{
				Leads:           numericFlag(flags.Changed("leads"), leads),
				WinRate:         numericFlag(flags.Changed("win-rate"), winRate),
				ImprovedWinRate: numericFlag(flags.Changed("improved-win-rate"), improvedWinRate),
				DealValue:       numericFlag(flags.Changed("deal-value"), dealValue),
			}
			out, err := h.Execute(contextOf(cmd), input)
			if err != nil {
				return err
			}
			return l.print(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&leads, "leads", "", "Leads per month")
	cmd.Flags().StringVar(&winRate, "win-rate", "", "Current win rate (%)")
	cmd.Flags().StringVar(&improvedWinRate, "improved-win-rate", "", "Win rate with lead focus (%)")
	cmd.Flags().StringVar(&dealValue, "deal-value", "", "Average deal value (SEK)")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Write the revenue chart as a PDF into this directory")
	return cmd
}

func numericFlag(set bool, raw string) *float64 {
	if !set {
		return nil
	}
	v := fs.CoerceNumber(raw)
	return &v
}

func newInitiativesCmd(opts *options) *cobra.Command {
	var (
		sort    bool
		boardID string
	)

	cmd := &cobra.Command{
		Use:   "initiatives",
		Short: "Show or sort the initiative board",
		Long: `Show the initiatives with their score
(userValue*0.4 + businessValue*0.4) / (effort*0.2).

--sort orders the board by descending score and keeps that order for the
board when initiatives.store is redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLab(opts)
			if err != nil {
				return err
			}
			h, cleanup, err := l.initiatives()
			if err != nil {
				return err
			}
			defer cleanup()

			action := ip.ActionRender
			if sort {
				action = ip.ActionSort
			}
			out, err := h.Execute(contextOf(cmd), &ip.Input{Action: string(action), BoardID: boardID})
			if err != nil {
				return err
			}
			return l.print(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&sort, "sort", false, "Sort by score, highest first")
	cmd.Flags().StringVar(&boardID, "board", "", "Board id (defaults to initiatives.default_board)")
	return cmd
}

func newRegistryCmd(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and edit the activity registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", registry.DefaultPath, "Path to registry file")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the registry file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	}

	var a registry.Activity
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a new activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if os.IsNotExist(err) {
				reg = &registry.ActivityRegistry{Version: "1.0.0"}
			} else if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if a.TaskType == "" {
				a.TaskType = a.ID
			}
			if err := reg.Add(a); err != nil {
				return err
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			if err := reg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added activity: %s\n", a.ID)
			return nil
		},
	}
	add.Flags().StringVar(&a.ID, "id", "", "Activity ID (e.g., funnel.revenue.simulate)")
	add.Flags().StringVar(&a.DisplayName, "display-name", "", "Display name")
	add.Flags().StringVar(&a.Description, "description", "", "Description")
	add.Flags().StringVar(&a.Category, "category", "", "Category (e.g., funnel)")
	add.Flags().StringVar(&a.TaskType, "task-type", "", "Task type (defaults to the id)")
	add.Flags().StringVar(&a.Version, "version", "1.0.0", "Version")
	add.Flags().StringVar(&a.ImplementationStatus, "status", registry.StatusPlanned, "Implementation status (planned, in-progress, completed, verified)")
	_ = add.MarkFlagRequired("id")
	_ = add.MarkFlagRequired("display-name")
	_ = add.MarkFlagRequired("category")

	var id, field, value string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update one field of an activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Update(id, field, value); err != nil {
				return err
			}
			if err := reg.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated activity %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	update.Flags().StringVar(&id, "id", "", "Activity ID to update")
	update.Flags().StringVar(&field, "field", "", "Field to update (status, version, timeout, retries, ...)")
	update.Flags().StringVar(&value, "value", "", "New value for the field")
	_ = update.MarkFlagRequired("id")
	_ = update.MarkFlagRequired("field")
	_ = update.MarkFlagRequired("value")

	cmd.AddCommand(validate, add, update)
	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

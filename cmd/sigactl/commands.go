package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/siga-vet/go-clinic-repository/clinic"
	"github.com/siga-vet/go-clinic-repository/model"
	"github.com/siga-vet/go-clinic-repository/pkg/di"
)

func pingCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Open the configured database and ping it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := f.container(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			start := time.Now()
			if err := c.DB().PingContext(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s %s\n", c.Config().DB.Driver, time.Since(start).Round(time.Microsecond))
			return nil
		},
	}
}

func schemaCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the clinic tables that do not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := f.container(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema ready: %d tables\n", len(clinic.Models()))
			return nil
		},
	}
}

func statsCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print row counts and lab averages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := f.container(ctx, cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			lines, err := collectStats(ctx, c.Repositories())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\n", l.name, l.value)
			}
			return w.Flush()
		},
	}
}

type statLine struct {
	name  string
	value string
}

type stat struct {
	name string
	read func(context.Context) (string, error)
}

func collectStats(ctx context.Context, r di.Repositories) ([]statLine, error) {
	stats := []stat{
		{"species", countOf[model.Species](r.Species)},
		{"breeds", countOf[model.Breed](r.Breeds)},
		{"owners", countOf[model.Owner](r.Owners)},
		{"doctors", countOf[model.Doctor](r.Doctors)},
		{"students", countOf[model.Student](r.Students)},
		{"animals", countOf[model.Animal](r.Animals)},
		{"consultations", countOf[model.Consultation](r.Consultations)},
		{"referrals", countOf[model.Referral](r.Referrals)},
		{"returns", countOf[model.Return](r.Returns)},
		{"hemograms", countOf[model.Hemogram](r.Hemograms)},
		{"clinical_chemistry", countOf[model.ClinicalChemistry](r.Chemistry)},
		{"urinalyses", countOf[model.Urinalysis](r.Urinalyses)},
		{"avg_hematocrit", averageOf(r.Hemograms.AverageHematocrit)},
		{"avg_glucose", averageOf(r.Chemistry.AverageGlucose)},
		{"avg_urine_ph", averageOf(r.Urinalyses.AveragePH)},
	}

	lines := make([]statLine, 0, len(stats))
	for _, s := range stats {
		v, err := s.read(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		lines = append(lines, statLine{name: s.name, value: v})
	}
	return lines, nil
}

type lister[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
}

func countOf[T any](l lister[T]) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		all, err := l.FindAll(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprint(len(all)), nil
	}
}

func averageOf(avg func(context.Context) (float64, error)) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		v, err := avg(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%.2f", v), nil
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"premiumd/internal/dataset"
	"premiumd/internal/model"
	"premiumd/internal/registry"
	"premiumd/internal/service"
	"premiumd/pkg/types"

	"github.com/rs/zerolog"
)

// buildRootCmd constructs the premiumctl command tree.
func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "premiumctl",
		Short:         "Operational utilities for premiumd artifacts and datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// models group
	modelsCmd := &cobra.Command{Use: "models", Short: "Inspect the models directory"}
	var modelsDir string
	modelsList := &cobra.Command{
		Use:     "list",
		Short:   "List forest artifacts in the models directory",
		Example: "  premiumctl models list --dir ./models",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadDir(modelsDir)
			if err != nil {
				return err
			}
			if len(reg) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no artifacts found")
				return nil
			}
			out, err := yaml.Marshal(reg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	modelsList.Flags().StringVar(&modelsDir, "dir", "./models", "Models directory")
	modelsCmd.AddCommand(modelsList)
	root.AddCommand(modelsCmd)

	// artifact group
	artifactCmd := &cobra.Command{Use: "artifact", Short: "Work with forest artifacts"}
	artifactValidate := &cobra.Command{
		Use:     "validate <path>",
		Short:   "Check that an artifact parses and matches the feature columns",
		Example: "  premiumctl artifact validate models/charges.forest.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%s)\n", f.ID(), f.Name())
			return nil
		},
	}
	artifactCmd.AddCommand(artifactValidate)
	root.AddCommand(artifactCmd)

	root.AddCommand(buildPredictCmd())

	// dataset group
	datasetCmd := &cobra.Command{Use: "dataset", Short: "Work with reference datasets"}
	datasetCheck := &cobra.Command{
		Use:     "check <path>",
		Short:   "Parse an insurance CSV and report its shape",
		Example: "  premiumctl dataset check insurance.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := dataset.Load(args[0])
			if err != nil {
				return err
			}
			s := dataset.Summary(recs)
			fmt.Fprintf(cmd.OutOrStdout(), "rows=%d mean_age=%.1f mean_bmi=%.1f mean_charge=%.2f smokers=%d\n",
				s.Rows, s.MeanAge, s.MeanBMI, s.MeanCharge, s.Smokers)
			return nil
		},
	}
	datasetCmd.AddCommand(datasetCheck)
	root.AddCommand(datasetCmd)

	return root
}

// buildPredictCmd scores one record locally, without a running server.
func buildPredictCmd() *cobra.Command {
	var (
		modelsDir string
		modelID   string
		req       types.PredictRequest
	)
	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Score one record against a local artifact",
		Example: "  premiumctl predict --dir ./models --age 35 --bmi 27.5 --children 2 --smoker yes --sex female --region southeast",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadDir(modelsDir)
			if err != nil {
				return err
			}
			svc, err := service.New(service.Config{
				Registry:     reg,
				DefaultModel: modelID,
				Logger:       zerolog.Nop(),
			})
			if err != nil {
				return err
			}
			req.Model = modelID
			resp, err := svc.Predict(context.Background(), req)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&modelsDir, "dir", "./models", "Models directory")
	cmd.Flags().StringVar(&modelID, "model", "", "Model id (defaults to first artifact)")
	cmd.Flags().IntVar(&req.Age, "age", 30, "Age in years")
	cmd.Flags().Float64Var(&req.BMI, "bmi", 25.0, "Body mass index")
	cmd.Flags().IntVar(&req.Children, "children", 0, "Number of children")
	cmd.Flags().StringVar(&req.Smoker, "smoker", "no", "Smoker: yes|no")
	cmd.Flags().StringVar(&req.Sex, "sex", "female", "Sex: male|female")
	cmd.Flags().StringVar(&req.Region, "region", "northwest", "Region: northwest|southeast|southwest|northeast")
	return cmd
}

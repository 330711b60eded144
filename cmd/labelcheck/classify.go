package main

import (
	"github.com/spf13/cobra"

	"github.com/colaops/labelcheck/internal/ingest"
	"github.com/colaops/labelcheck/internal/pipeline"
	"github.com/colaops/labelcheck/internal/svcctx"
)

var (
	classifyBeverageType string
	classifyOCRName      string
	classifyLLMName      string
)

var classifyCmd = &cobra.Command{
	Use:   "classify [files...]",
	Short: "Classify label fields with the LLM (submission quality)",
	Long: `Classify runs OCR over the label images and classifies every applicable
field with the configured LLM. The response is validated against a strict
schema; any contract violation fails the run rather than returning a
partially trusted result.

Examples:
  labelcheck classify front.png back.png
  labelcheck classify --llm openai -t wine sheet.pdf
  labelcheck classify --mock front.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		services, err := buildServices()
		if err != nil {
			return err
		}
		ctx = svcctx.WithServices(ctx, services)

		bt, err := parseBeverageFlag(classifyBeverageType)
		if err != nil {
			return err
		}

		sub, err := ingest.Load(ctx, ingest.Request{Paths: args, Logger: services.Logger})
		if err != nil {
			return err
		}

		ocr, err := services.Registry.GetOCR(defaultOCRName(services, classifyOCRName))
		if err != nil {
			return err
		}
		llm, err := services.Registry.GetLLM(defaultLLMName(services, classifyLLMName))
		if err != nil {
			return err
		}

		o := pipeline.New(ocr, llm, services.Catalog, services.Logger)
		res, err := o.ExtractForSubmission(ctx, sub.Images, bt)
		if err != nil {
			return err
		}

		return printResult(res)
	},
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyBeverageType, "beverage-type", "t", "", "beverage type: wine, malt_beverage, distilled_spirits")
	classifyCmd.Flags().StringVar(&classifyOCRName, "ocr", "", "OCR provider name (default from config)")
	classifyCmd.Flags().StringVar(&classifyLLMName, "llm", "", "LLM client name (default from config)")
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colaops/labelcheck/internal/catalog"
	"github.com/colaops/labelcheck/internal/ingest"
	"github.com/colaops/labelcheck/internal/pipeline"
	"github.com/colaops/labelcheck/internal/svcctx"
)

var (
	extractBeverageType string
	extractOCRName      string
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract label fields locally (rule-based, no LLM)",
	Long: `Extract runs OCR over the label images and classifies every field
applicable to the beverage type using the rule-based classifier. PDFs are
rendered one image per page.

Examples:
  labelcheck extract front.png back.png
  labelcheck extract --beverage-type wine sheet.pdf
  labelcheck extract --ocr vision front.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		services, err := buildServices()
		if err != nil {
			return err
		}
		ctx = svcctx.WithServices(ctx, services)

		bt, err := parseBeverageFlag(extractBeverageType)
		if err != nil {
			return err
		}

		sub, err := ingest.Load(ctx, ingest.Request{Paths: args, Logger: services.Logger})
		if err != nil {
			return err
		}

		ocr, err := services.Registry.GetOCR(defaultOCRName(services, extractOCRName))
		if err != nil {
			return err
		}

		o := pipeline.New(ocr, nil, services.Catalog, services.Logger)
		res, err := o.ExtractLocal(ctx, sub.Images, bt, nil)
		if err != nil {
			return err
		}

		return printResult(res)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractBeverageType, "beverage-type", "t", "", "beverage type: wine, malt_beverage, distilled_spirits")
	extractCmd.Flags().StringVar(&extractOCRName, "ocr", "", "OCR provider name (default from config)")
}

// parseBeverageFlag converts the flag value, accepting empty for unknown.
func parseBeverageFlag(s string) (catalog.BeverageType, error) {
	if s == "" {
		return catalog.BeverageUnknown, nil
	}
	bt := catalog.ParseBeverageType(strings.ToLower(s))
	if bt == catalog.BeverageUnknown {
		return bt, fmt.Errorf("unknown beverage type %q (want wine, malt_beverage, or distilled_spirits)", s)
	}
	return bt, nil
}

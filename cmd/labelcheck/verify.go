package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colaops/labelcheck/internal/compare"
	"github.com/colaops/labelcheck/internal/ingest"
	"github.com/colaops/labelcheck/internal/pipeline"
	"github.com/colaops/labelcheck/internal/svcctx"
)

var (
	verifyBeverageType string
	verifyOCRName      string
	verifyDeclarations []string
	verifyDeclareFile  string
)

// verifyOutput is the combined verification result.
type verifyOutput struct {
	Result *pipeline.Result `json:"result"`
	Report compare.Report   `json:"report"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify [files...]",
	Short: "Verify declared values against the label images",
	Long: `Verify runs OCR over the label images, locates each declared value on
the label, and reports per-field agreement.

Declarations are field=value pairs using catalog field names, or a JSON file
mapping field names to values.

Examples:
  labelcheck verify front.png --declare brand_name="BULLEIT" --declare net_contents="750 mL"
  labelcheck verify -t distilled_spirits sheet.pdf --declare alcohol_content="45% Alc./Vol."
  labelcheck verify front.png back.png --declare-file application.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		services, err := buildServices()
		if err != nil {
			return err
		}
		ctx = svcctx.WithServices(ctx, services)

		bt, err := parseBeverageFlag(verifyBeverageType)
		if err != nil {
			return err
		}

		declared, err := parseDeclarations(verifyDeclarations)
		if err != nil {
			return err
		}
		if verifyDeclareFile != "" {
			if err := loadDeclareFile(verifyDeclareFile, declared); err != nil {
				return err
			}
		}
		if len(declared) == 0 {
			return fmt.Errorf("at least one --declare field=value or --declare-file is required")
		}

		sub, err := ingest.Load(ctx, ingest.Request{Paths: args, Logger: services.Logger})
		if err != nil {
			return err
		}

		ocr, err := services.Registry.GetOCR(defaultOCRName(services, verifyOCRName))
		if err != nil {
			return err
		}

		o := pipeline.New(ocr, nil, services.Catalog, services.Logger)
		res, err := o.ExtractLocal(ctx, sub.Images, bt, declared)
		if err != nil {
			return err
		}

		extracted := make(map[string]*string, len(res.Classification.Fields))
		for _, f := range res.Classification.Fields {
			extracted[f.FieldName] = f.Value
		}

		return printResult(verifyOutput{
			Result: res,
			Report: compare.BuildReport(declared, extracted),
		})
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyBeverageType, "beverage-type", "t", "", "beverage type: wine, malt_beverage, distilled_spirits")
	verifyCmd.Flags().StringVar(&verifyOCRName, "ocr", "", "OCR provider name (default from config)")
	verifyCmd.Flags().StringArrayVarP(&verifyDeclarations, "declare", "d", nil, "declared value as field=value (repeatable)")
	verifyCmd.Flags().StringVar(&verifyDeclareFile, "declare-file", "", "JSON file mapping field names to declared values")
}

// loadDeclareFile merges a JSON object of field=value declarations into
// declared. Explicit --declare flags win over file entries.
func loadDeclareFile(path string, declared map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read declarations: %w", err)
	}
	var fromFile map[string]string
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("invalid declarations file %s: %w", path, err)
	}
	for name, value := range fromFile {
		if _, ok := declared[name]; !ok {
			declared[name] = value
		}
	}
	return nil
}

// parseDeclarations parses field=value pairs.
func parseDeclarations(pairs []string) (map[string]string, error) {
	declared := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid declaration %q (want field=value)", pair)
		}
		declared[name] = value
	}
	return declared, nil
}

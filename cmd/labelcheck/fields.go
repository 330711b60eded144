package main

import (
	"github.com/spf13/cobra"

	"github.com/colaops/labelcheck/internal/catalog"
)

var fieldsBeverageType string

// fieldInfo is one catalog entry in listing output.
type fieldInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AppliesTo   []string `json:"applies_to"`
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the label field catalog",
	Long: `Fields lists every regulated label field, optionally filtered to those
applicable to one beverage type.

Examples:
  labelcheck fields
  labelcheck fields -t wine`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bt, err := parseBeverageFlag(fieldsBeverageType)
		if err != nil {
			return err
		}

		cat := catalog.New()
		var defs []*catalog.FieldDefinition
		if bt == catalog.BeverageUnknown {
			defs = cat.All()
		} else {
			defs = cat.FieldsFor(bt)
		}

		out := make([]fieldInfo, 0, len(defs))
		for _, d := range defs {
			applies := make([]string, 0, len(catalog.BeverageTypes))
			for _, t := range catalog.BeverageTypes {
				if d.AppliesTo[t] {
					applies = append(applies, string(t))
				}
			}
			out = append(out, fieldInfo{
				Name:        d.Name,
				Description: d.Description,
				AppliesTo:   applies,
			})
		}
		return printResult(out)
	},
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsBeverageType, "beverage-type", "t", "", "beverage type: wine, malt_beverage, distilled_spirits")
}

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/serendib-labs/mapleads/internal/model"
)

var phonesCmd = &cobra.Command{
	Use:   "phones",
	Short: "Phone-number utilities",
}

var phonesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Re-validate phone numbers from a prior export",
	Long:  "Reads a CSV or JSON export, runs every phone number back through the numbering plan, and reports the validation rate and mobile/landline split.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := cfg.Phone.Plan()
		if err != nil {
			return err
		}

		numbers, err := readExportedPhones(args[0])
		if err != nil {
			return err
		}
		if len(numbers) == 0 {
			fmt.Fprintln(os.Stdout, "No phone numbers found")
			return nil
		}

		var valid, mobile, landline int
		regions := map[string]int{}
		for _, n := range numbers {
			rec, err := plan.Normalize(n)
			if err != nil {
				continue
			}
			valid++
			if rec.IsMobile {
				mobile++
			} else {
				landline++
				if rec.Region != "" {
					regions[rec.Region]++
				}
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Total\t%d\n", len(numbers))
		fmt.Fprintf(w, "Valid\t%d (%.1f%%)\n", valid, 100*float64(valid)/float64(len(numbers)))
		fmt.Fprintf(w, "Mobile\t%d\n", mobile)
		fmt.Fprintf(w, "Landline\t%d\n", landline)
		for region, n := range regions {
			fmt.Fprintf(w, "  %s\t%d\n", region, n)
		}
		return w.Flush()
	},
}

// readExportedPhones pulls the phone numbers out of a CSV or JSON export.
func readExportedPhones(path string) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readCSVPhones(path)
	case ".json":
		return readJSONPhones(path)
	default:
		return nil, eris.Errorf("phones: unsupported file type %q", ext)
	}
}

func readCSVPhones(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "phones: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "phones: read %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := -1
	for i, name := range rows[0] {
		if name == "phone" {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, eris.Errorf("phones: no phone column in %s", path)
	}

	var numbers []string
	for _, row := range rows[1:] {
		if col < len(row) && row[col] != "" {
			numbers = append(numbers, row[col])
		}
	}
	return numbers, nil
}

func readJSONPhones(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "phones: read %s", path)
	}

	var result model.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrapf(err, "phones: parse %s", path)
	}

	var numbers []string
	for _, b := range result.Businesses {
		for _, p := range b.PhoneNumbers {
			numbers = append(numbers, p.Number)
		}
	}
	return numbers, nil
}

func init() {
	phonesCmd.AddCommand(phonesValidateCmd)
	rootCmd.AddCommand(phonesCmd)
}

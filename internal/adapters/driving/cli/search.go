package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

// criteriaFlags are shared by search and resolve.
type criteriaFlags struct {
	class          string
	fields         []string
	includeDeleted bool
}

func addCriteriaFlags(cmd *cobra.Command, f *criteriaFlags) {
	cmd.Flags().StringVar(&f.class, "class", "", "document class key")
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "equality filter as NAME=VALUE (repeatable)")
	cmd.Flags().BoolVar(&f.includeDeleted, "deleted", false, "include eliminated profiles")
	_ = cmd.MarkFlagRequired("class")
}

func (f *criteriaFlags) criteria() (domain.SearchCriteria, error) {
	c := domain.SearchCriteria{
		ClassKey:       f.class,
		Values:         make(map[string]any, len(f.fields)),
		IncludeDeleted: f.includeDeleted,
	}
	for _, kv := range f.fields {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return c, fmt.Errorf("--field %q is not NAME=VALUE: %w", kv, domain.ErrInvalidInput)
		}
		c.Values[name] = value
	}
	return c, nil
}

var (
	searchFlags criteriaFlags
	searchAll   bool
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search profiles of a document class",
	Long: `Lists the profiles of a class matching every --field filter.
Eliminated profiles are skipped unless --deleted is given.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var (
	resolveFlags criteriaFlags
	resolveFirst bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the document number of the single matching profile",
	Long: `Prints the document number of the profile matching the filters.
Fails when nothing matches, or when several profiles match and --first is not
given. With --first the lowest document number wins.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	addCriteriaFlags(searchCmd, &searchFlags)
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "select every text column of the class")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")

	addCriteriaFlags(resolveCmd, &resolveFlags)
	resolveCmd.Flags().BoolVar(&resolveFirst, "first", false, "pick the lowest document number on ambiguity")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	criteria, err := searchFlags.criteria()
	if err != nil {
		return err
	}
	criteria.SelectAll = searchAll
	if err := connect(cmd); err != nil {
		return err
	}

	rows, err := profileService.Search(commandContext(cmd), criteria)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, rows)
	}
	return outputSearchTable(cmd, rows)
}

func outputSearchJSON(cmd *cobra.Command, rows []domain.Row) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, rows []domain.Row) error {
	if len(rows) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for _, row := range rows {
		// Format: DOCNUMBER  COL=value COL=value
		n, err := row.DocNumber()
		if err != nil {
			return err
		}
		cols := make([]string, 0, len(row.Columns))
		for name := range row.Columns {
			if name != domain.ColumnDocNumber {
				cols = append(cols, name)
			}
		}
		sort.Strings(cols)

		cmd.Printf("%d", n)
		for _, name := range cols {
			cmd.Printf("  %s=%v", name, row.Columns[name])
		}
		cmd.Println()
	}
	cmd.Printf("\n%d result(s)\n", len(rows))
	return nil
}

func runResolve(cmd *cobra.Command, _ []string) error {
	criteria, err := resolveFlags.criteria()
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	docNumber, err := profileService.ResolveDocumentNumber(commandContext(cmd), criteria, resolveFirst)
	if err != nil {
		var ambiguous *domain.AmbiguousError
		if errors.As(err, &ambiguous) {
			return fmt.Errorf("%d profiles match; narrow the filters or pass --first: %w", ambiguous.Count, err)
		}
		return fmt.Errorf("resolve failed: %w", err)
	}
	cmd.Println(docNumber)
	return nil
}

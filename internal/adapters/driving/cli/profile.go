package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create, update and delete document profiles",
	Long: `Manage document profiles on the server.

A profile is described with --class plus --field NAME=VALUE pairs, or with a
JSON file given to --model. Fields named with --key identify an existing
profile of the class.

Examples:
  axrepo profile create --class FATTURE --key NUMERO --field NUMERO=42 --file invoice.pdf
  axrepo profile update --class FATTURE --key NUMERO --field NUMERO=42 --status VALIDA
  axrepo profile delete --class FATTURE --key NUMERO --field NUMERO=42
  axrepo profile get 1042
  axrepo profile attachments 1042 -o ./out`,
}

// Create flags.
var (
	createModel          modelFlags
	createUpdateIfExists bool
	createCheckInOption  int
	createKillWorkflow   bool
)

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile unless one with the same keys exists",
	Args:  cobra.NoArgs,
	RunE:  runProfileCreate,
}

// Update flags.
var (
	updateModel         modelFlags
	updateTask          int
	updateProcDoc       int
	updateCheckInOption int
	updateKillWorkflow  bool
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an existing profile",
	Long: `Writes the described fields over an existing profile.

The profile is located by --doc or by its key fields. When --file is given the
document is replaced through check-out and check-in; --task and --proc-doc run
the replacement inside a workflow task.`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var deleteModel modelFlags

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Mark a profile as eliminated",
	Long: `Sets the profile's status to ELIMINATO. The profile stays on the server
and is excluded from searches. Deleting a missing profile succeeds.`,
	Args: cobra.NoArgs,
	RunE: runProfileDelete,
}

var hardDeleteConfirm bool

var profileHardDeleteCmd = &cobra.Command{
	Use:   "hard-delete <docnumber>",
	Short: "Permanently remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileHardDelete,
}

var profileGetJSON bool

var profileGetCmd = &cobra.Command{
	Use:   "get <docnumber>",
	Short: "Show a profile's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileGet,
}

var (
	downloadDir  string
	downloadView bool
)

var profileDownloadCmd = &cobra.Command{
	Use:   "download <docnumber>",
	Short: "Download a profile's document",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDownload,
}

var (
	attachmentsDir          string
	attachmentsIgnoreErrors bool
)

var profileAttachmentsCmd = &cobra.Command{
	Use:   "attachments <docnumber>",
	Short: "Download a profile's external attachments",
	Long: `Saves every external attachment of the profile into the output directory
under its original name and prints each path.

With --ignore-errors an attachment that cannot be saved is reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileAttachments,
}

func init() {
	addModelFlags(profileCreateCmd, &createModel)
	profileCreateCmd.Flags().BoolVar(&createUpdateIfExists, "update-if-exists", false,
		"update the profile found by key instead of leaving it untouched")
	profileCreateCmd.Flags().IntVar(&createCheckInOption, "checkin-option", 0, "check-in option when replacing a file")
	profileCreateCmd.Flags().BoolVar(&createKillWorkflow, "kill-workflow", false,
		"release the workflow hold before updating")

	addModelFlags(profileUpdateCmd, &updateModel)
	profileUpdateCmd.Flags().IntVar(&updateTask, "task", 0, "workflow task id")
	profileUpdateCmd.Flags().IntVar(&updateProcDoc, "proc-doc", 0, "workflow process document id")
	profileUpdateCmd.Flags().IntVar(&updateCheckInOption, "checkin-option", 0, "check-in option")
	profileUpdateCmd.Flags().BoolVar(&updateKillWorkflow, "kill-workflow", false,
		"release the workflow hold before writing")

	addModelFlags(profileDeleteCmd, &deleteModel)

	profileHardDeleteCmd.Flags().BoolVar(&hardDeleteConfirm, "yes", false, "confirm permanent removal")

	profileGetCmd.Flags().BoolVar(&profileGetJSON, "json", false, "output the profile as JSON")

	profileDownloadCmd.Flags().StringVarP(&downloadDir, "dir", "o", ".", "output directory")
	profileDownloadCmd.Flags().BoolVar(&downloadView, "view", false, "download the viewable rendition")

	profileAttachmentsCmd.Flags().StringVarP(&attachmentsDir, "dir", "o", ".", "output directory")
	profileAttachmentsCmd.Flags().BoolVar(&attachmentsIgnoreErrors, "ignore-errors", false,
		"skip attachments that cannot be saved")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileHardDeleteCmd)
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileDownloadCmd)
	profileCmd.AddCommand(profileAttachmentsCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileCreate(cmd *cobra.Command, _ []string) error {
	record, err := createModel.record(cmd)
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	docNumber, err := profileService.Create(commandContext(cmd), record, domain.CreateOptions{
		UpdateIfExists: createUpdateIfExists,
		CheckInOption:  createCheckInOption,
		KillWorkflow:   createKillWorkflow,
	})
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	cmd.Printf("Profile %d\n", docNumber)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	record, err := updateModel.record(cmd)
	if err != nil {
		return err
	}

	opts := domain.UpdateOptions{
		CheckInOption: updateCheckInOption,
		KillWorkflow:  updateKillWorkflow,
	}
	taskSet, procSet := cmd.Flags().Changed("task"), cmd.Flags().Changed("proc-doc")
	if taskSet != procSet {
		return fmt.Errorf("--task and --proc-doc must be given together: %w", domain.ErrInvalidInput)
	}
	if taskSet {
		opts.TaskID = &updateTask
		opts.ProcDocID = &updateProcDoc
	}

	if err := connect(cmd); err != nil {
		return err
	}

	docNumber, err := profileService.Update(commandContext(cmd), record, opts)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	cmd.Printf("Updated profile %d\n", docNumber)
	return nil
}

func runProfileDelete(cmd *cobra.Command, _ []string) error {
	record, err := deleteModel.record(cmd)
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	if err := profileService.Delete(commandContext(cmd), record); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	cmd.Println("Deleted")
	return nil
}

func runProfileHardDelete(cmd *cobra.Command, args []string) error {
	docNumber, err := parseDocNumber(args[0])
	if err != nil {
		return err
	}
	if !hardDeleteConfirm {
		return fmt.Errorf("hard delete cannot be undone; pass --yes to remove profile %d: %w",
			docNumber, domain.ErrInvalidInput)
	}
	if err := connect(cmd); err != nil {
		return err
	}

	if err := profileService.HardDelete(commandContext(cmd), docNumber); err != nil {
		return fmt.Errorf("hard delete failed: %w", err)
	}
	cmd.Printf("Removed profile %d\n", docNumber)
	return nil
}

func runProfileGet(cmd *cobra.Command, args []string) error {
	docNumber, err := parseDocNumber(args[0])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	schema, err := profileService.Get(commandContext(cmd), docNumber)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("profile %d not found", docNumber)
		}
		return fmt.Errorf("get failed: %w", err)
	}

	if profileGetJSON {
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Profile %d\n", schema.DocNumber)
	if schema.DocumentType != "" {
		cmd.Printf("  Class:  %s\n", schema.DocumentType)
	}
	if schema.State != "" {
		cmd.Printf("  Status: %s\n", schema.State)
	}
	if schema.Workflow != nil && *schema.Workflow {
		cmd.Println("  In workflow")
	}
	fields := append([]domain.SchemaField(nil), schema.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	for _, f := range fields {
		if f.Value == nil {
			continue
		}
		cmd.Printf("  %s: %v\n", f.Name, f.Value)
	}
	return nil
}

func runProfileDownload(cmd *cobra.Command, args []string) error {
	docNumber, err := parseDocNumber(args[0])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	path, err := profileService.Download(commandContext(cmd), docNumber, downloadDir, downloadView)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	cmd.Println(path)
	return nil
}

func runProfileAttachments(cmd *cobra.Command, args []string) error {
	docNumber, err := parseDocNumber(args[0])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	paths, err := profileService.DownloadAttachments(commandContext(cmd), docNumber, attachmentsDir, attachmentsIgnoreErrors)
	if err != nil {
		return fmt.Errorf("download attachments failed: %w", err)
	}
	for _, p := range paths {
		cmd.Println(p)
	}
	return nil
}

func parseDocNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("document number %q must be a positive integer: %w", s, domain.ErrInvalidInput)
	}
	return n, nil
}

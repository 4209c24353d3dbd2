package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with workflow tasks",
	Long: `Reads the documents of a workflow task's process and attaches files to
the task.

Examples:
  axrepo task attach 501 signed.pdf
  axrepo task documents 501 --class FATTURE
  axrepo task attachments 501 --match '^ORDINI'
  axrepo task user 77 501`,
}

var taskAttachName string

var taskAttachCmd = &cobra.Command{
	Use:   "attach <taskwork> <path>",
	Short: "Attach a file to a task work",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskAttach,
}

var taskDocumentsClass string

var taskDocumentsCmd = &cobra.Command{
	Use:   "documents <taskwork>",
	Short: "List the process documents of a class",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDocuments,
}

var (
	taskAttachmentsClass string
	taskAttachmentsMatch string
)

var taskAttachmentsCmd = &cobra.Command{
	Use:   "attachments <taskwork>",
	Short: "List the profiles attached to a task's process",
	Long: `Lists the attached profiles whose class matches --match, a regular
expression compared case-insensitively. Without --match the class must equal
--class. Profiles that cannot be read are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskAttachments,
}

var taskUserCmd = &cobra.Command{
	Use:   "user <process> <taskwork>",
	Short: "Show the user a task work was assigned to",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskUser,
}

func init() {
	taskAttachCmd.Flags().StringVar(&taskAttachName, "name", "", "file name to store (defaults to the local name)")

	taskDocumentsCmd.Flags().StringVar(&taskDocumentsClass, "class", "", "document class key")
	_ = taskDocumentsCmd.MarkFlagRequired("class")

	taskAttachmentsCmd.Flags().StringVar(&taskAttachmentsClass, "class", "", "document class key")
	taskAttachmentsCmd.Flags().StringVar(&taskAttachmentsMatch, "match", "", "class pattern (regular expression)")

	taskCmd.AddCommand(taskAttachCmd)
	taskCmd.AddCommand(taskDocumentsCmd)
	taskCmd.AddCommand(taskAttachmentsCmd)
	taskCmd.AddCommand(taskUserCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskAttach(cmd *cobra.Command, args []string) error {
	taskWorkID, err := parseID("task work", args[0])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	id, err := taskService.AttachFile(commandContext(cmd), taskWorkID, args[1], taskAttachName)
	if err != nil {
		return fmt.Errorf("attach failed: %w", err)
	}
	cmd.Println(id)
	return nil
}

func runTaskDocuments(cmd *cobra.Command, args []string) error {
	taskWorkID, err := parseID("task work", args[0])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	docs, err := taskService.Documents(commandContext(cmd), taskWorkID, taskDocumentsClass)
	if err != nil {
		return fmt.Errorf("list documents failed: %w", err)
	}
	printDocNumbers(cmd, docs)
	return nil
}

func runTaskAttachments(cmd *cobra.Command, args []string) error {
	taskWorkID, err := parseID("task work", args[0])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	docs, err := taskService.Attachments(commandContext(cmd), taskWorkID, taskAttachmentsClass, taskAttachmentsMatch)
	if err != nil {
		return fmt.Errorf("list attachments failed: %w", err)
	}
	printDocNumbers(cmd, docs)
	return nil
}

func runTaskUser(cmd *cobra.Command, args []string) error {
	processID, err := parseID("process", args[0])
	if err != nil {
		return err
	}
	taskWorkID, err := parseID("task work", args[1])
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	user, err := taskService.AssignedUser(commandContext(cmd), processID, taskWorkID)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	cmd.Println(user)
	return nil
}

func printDocNumbers(cmd *cobra.Command, docs []int) {
	for _, d := range docs {
		cmd.Println(d)
	}
}

func parseID(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s id %q must be a positive integer: %w", what, s, domain.ErrInvalidInput)
	}
	return n, nil
}

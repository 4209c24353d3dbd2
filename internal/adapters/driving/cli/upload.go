package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uploadName  string
	uploadCache bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Stage a file on the server and print its buffer id",
	Long: `Uploads a local file to the server's buffer (or cache with --cache).
The printed id can be referenced from a --model file's remoteAttachments.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "file name to store (defaults to the local name)")
	uploadCmd.Flags().BoolVar(&uploadCache, "cache", false, "upload to the cache instead of the buffer")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := connect(cmd); err != nil {
		return err
	}

	ids, err := profileService.Upload(commandContext(cmd), args[0], uploadName, uploadCache)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

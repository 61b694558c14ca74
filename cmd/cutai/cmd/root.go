package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"cutai-stt/cmd/cutai/cmd/export"
	"cutai-stt/cmd/cutai/cmd/serve"
	"cutai-stt/cmd/cutai/cmd/version"
	"cutai-stt/cmd/cutai/cmd/worker"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cutai",
	Short: "Asynchronous media transcription job service",
	Long: `Asynchronous media transcription job service.
- serve exposes the upload/submit/poll/edit/list/delete HTTP API
- worker runs the transcription pipeline on a Temporal task queue
- export dumps completed transcripts to excel`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

// Package export dumps completed transcripts to an excel workbook.
package export

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx"

	"cutai-stt/internal/app"
	"cutai-stt/internal/config"
	"cutai-stt/internal/logging"
	"cutai-stt/internal/service"
)

var (
	configPath     string
	outputFilePath string
)

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "configuration file")
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed transcripts to excel",
	Long: `Export completed transcripts to excel

- Exports every completed task whose media file is still available,
  newest first, one row per task`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		log := logging.MustNewLogger(true)
		defer log.Sync()

		regs := app.NewRegistries(app.NewKV(cfg, log))
		// The dispatcher and prober are only needed by the write path;
		// enumeration works without them.
		svc := service.New(regs.Files, regs.Tasks, regs.Index, nil, nil,
			cfg.Storage.UploadDir, log)

		listed, err := svc.ListValidTasks(context.Background())
		if err != nil {
			return err
		}

		if err := toExcel(listed, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, %d tasks written to %v\n", len(listed), outputFilePath)
		return nil
	},
}

func toExcel(listed []service.ListedTask, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Task ID"
	headerRow.AddCell().Value = "File Name"
	headerRow.AddCell().Value = "Duration"
	headerRow.AddCell().Value = "Completion Time"
	headerRow.AddCell().Value = "Cost Time"
	headerRow.AddCell().Value = "Transcription"

	for _, t := range listed {
		row := sheet.AddRow()
		row.AddCell().Value = t.TaskID
		row.AddCell().Value = t.FileName
		row.AddCell().Value = fmt.Sprintf("%.2f", t.Duration)
		row.AddCell().Value = t.CompletionTime
		row.AddCell().Value = fmt.Sprintf("%.2f", t.CostTime)
		row.AddCell().Value = t.Text
	}

	return file.Save(outputFilePath)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/nn"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the layers and parameter counts of the model",
		Args:  cobra.NoArgs,
		RunE:  summaryHandler,
	}
	addModelFlags(cmd)
	return cmd
}

func summaryHandler(cmd *cobra.Command, _ []string) error {
	cfg, err := modelConfig(cmd)
	if err != nil {
		return err
	}
	model, err := buildModel(cfg, cpu.New())
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"LAYER", "MODULE", "PARAMS"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range model.Summary() {
		table.Append([]string{row.Name, row.Module, strconv.Itoa(row.Parameters)})
	}
	table.SetFooter([]string{"", "TOTAL", strconv.Itoa(nn.NumParameters(model.Parameters()))})
	table.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "encoder: %d parameters, decoder: %d parameters\n",
		nn.NumParameters(model.Encoder().Parameters()),
		nn.NumParameters(model.Decoder().Parameters()))
	return nil
}

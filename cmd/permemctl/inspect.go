package main

import (
	"fmt"
	"os"

	"github.com/leslie-fei/permem"
	"github.com/leslie-fei/permem/backing/mmapfile"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Report health and capacity for a region file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("permemctl: %w", err)
	}

	mem, err := mmapfile.OpenReadOnly(path, uint32(stat.Size()))
	if err != nil {
		return fmt.Errorf("permemctl: opening %s: %w", path, err)
	}
	defer mem.Close()

	if !permem.IsFileAcceptable(mem.Bytes()) {
		return fmt.Errorf("permemctl: %s does not look like a permem region", path)
	}

	r, err := permem.Open(mem, permem.Options{ReadOnly: true, Logger: logger})
	if err != nil {
		return fmt.Errorf("permemctl: attaching %s: %w", path, err)
	}

	info := r.GetMemoryInfo()
	fmt.Printf("file:      %s\n", path)
	fmt.Printf("id:        %d\n", r.ID())
	fmt.Printf("name:      %q\n", r.Name())
	fmt.Printf("total:     %d bytes\n", info.Total)
	fmt.Printf("used:      %d bytes\n", info.Used)
	fmt.Printf("free:      %d bytes\n", info.Free)
	fmt.Printf("full:      %v\n", r.IsFull())
	fmt.Printf("corrupt:   %v\n", r.IsCorrupt())
	fmt.Printf("iterables: %d\n", r.CountIterables())

	return nil
}

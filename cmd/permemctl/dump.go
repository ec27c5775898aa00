package main

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/leslie-fei/permem"
	"github.com/leslie-fei/permem/backing/mmapfile"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "List every published object in a region, with a content fingerprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
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

	it := r.CreateIterator(0)
	var count int
	for {
		ref, typ := r.GetNextIterable(&it)
		if ref == 0 {
			break
		}
		payload := r.PayloadBytes(ref)
		sum := xxhash.Sum64(payload)
		fmt.Printf("ref=%-10d type=%-6d size=%-8d xxhash=%016x\n", ref, typ, len(payload), sum)
		count++
	}

	if r.IsCorrupt() {
		fmt.Fprintf(os.Stderr, "warning: region reported corrupt during traversal, dump may be incomplete\n")
	}
	fmt.Printf("%d object(s)\n", count)

	return nil
}

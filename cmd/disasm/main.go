// Command disasm disassembles a raw 6502 binary image, one instruction
// per line with address and raw-byte columns.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jmchacon/icboard/asm"
	"github.com/spf13/cobra"
)

func main() {
	var org uint16

	root := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a raw 6502 binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			return disasm(cmd.OutOrStdout(), data, org)
		},
	}
	root.Flags().Uint16Var(&org, "org", 0, "Base address the first byte of the image loads at")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// disasm walks data as asm.Disassemble does, printing each decoded
// Opcode alongside the bytes it consumed and the address it starts at.
func disasm(w io.Writer, data []byte, org uint16) error {
	addr := org
	i := 0
	for i < len(data) {
		o := asm.Decode(data[i])
		start := i
		i++
		if n := o.ArgCount(); n >= 1 && i < len(data) {
			o.SetArg1(data[i])
			i++
			if n >= 2 && i < len(data) {
				o.SetArg2(data[i])
				i++
			}
		}
		raw := data[start:i]
		hex := ""
		for _, b := range raw {
			hex += fmt.Sprintf("%02X ", b)
		}
		fmt.Fprintf(w, "%04X  %-9s%s\n", addr, hex, o.String())
		addr += uint16(len(raw))
	}
	return nil
}

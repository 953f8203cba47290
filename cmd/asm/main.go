// Command asm assembles a line-oriented textual opcode listing into a raw
// 6502 binary image. Each line is either a bare mnemonic (CLC), a branch
// (BPL -5), or a mnemonic plus addressing mode and operand (LDA Immediate
// 0x5A) — the same three Opcode shapes asm.Opcode itself distinguishes.
// Comments start with ; and blank lines are ignored.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jmchacon/icboard/asm"
	"github.com/spf13/cobra"
)

var branchMnemonics = map[asm.Mnemonic]bool{
	asm.BCC: true, asm.BCS: true, asm.BEQ: true, asm.BMI: true,
	asm.BNE: true, asm.BPL: true, asm.BVC: true, asm.BVS: true,
}

func main() {
	var out string

	root := &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble a textual 6502 opcode listing into a raw binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			ops, err := parseListing(f)
			if err != nil {
				return err
			}
			bin, err := asm.Assemble(ops)
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}
			if out == "" {
				_, err := os.Stdout.Write(bin)
				return err
			}
			return os.WriteFile(out, bin, 0o644)
		},
	}
	root.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseListing(f *os.File) ([]asm.Opcode, error) {
	var ops []asm.Opcode
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		op, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		ops = append(ops, op)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseLine(line string) (asm.Opcode, error) {
	fields := strings.Fields(line)
	m, ok := asm.ParseMnemonic(strings.ToUpper(fields[0]))
	if !ok {
		return asm.Opcode{}, fmt.Errorf("unknown mnemonic %q", fields[0])
	}

	if branchMnemonics[m] {
		if len(fields) != 2 {
			return asm.Opcode{}, fmt.Errorf("%s: expected a single displacement operand", fields[0])
		}
		disp, err := strconv.ParseInt(fields[1], 0, 8)
		if err != nil {
			return asm.Opcode{}, fmt.Errorf("%s: invalid displacement %q: %w", fields[0], fields[1], err)
		}
		return asm.NewBranch(m, int8(disp)), nil
	}

	if len(fields) == 1 {
		return asm.NewImplicit(m), nil
	}
	if len(fields) != 3 {
		return asm.Opcode{}, fmt.Errorf("%s: expected <mnemonic> <mode> <operand>", fields[0])
	}
	kind, ok := asm.ParseModeKind(fields[1])
	if !ok {
		return asm.Opcode{}, fmt.Errorf("%s: unknown addressing mode %q", fields[0], fields[1])
	}
	operand, err := strconv.ParseUint(fields[2], 0, 16)
	if err != nil {
		return asm.Opcode{}, fmt.Errorf("%s: invalid operand %q: %w", fields[0], fields[2], err)
	}
	return asm.New(m, asm.AddressingMode{Kind: kind, Operand: uint16(operand)}), nil
}

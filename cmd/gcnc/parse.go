package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mastercactapus/grbltok/gcode"
)

func newParseCmd() *cobra.Command {
	var (
		resume    int
		showState bool
		emit      bool
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a G-code program and print each line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			p := gcode.NewParser(in)
			if emit {
				// stops at the first failed line
				_, err = io.Copy(out, gcode.NewBuffer(p))
				return err
			}
			var failed int
			for {
				l, err := p.Read()
				if err == io.EOF {
					break
				}
				var pErr *gcode.ParseError
				if errors.As(err, &pErr) {
					failed++
					log.Warn("parse", zap.Int("line", pErr.Line), zap.String("text", pErr.Text), zap.Error(pErr.Err))
					continue
				}
				if err != nil {
					return err
				}
				if resume >= 0 {
					continue
				}
				if showState {
					fmt.Fprintf(out, "%s\t%s\t%s\n", l.Type, l, l.State)
				} else {
					fmt.Fprintf(out, "%s\t%s\n", l.Type, l)
				}
			}

			if resume >= 0 {
				lines := p.Tokenizer().Lines()
				if resume > lines.Len() {
					return fmt.Errorf("resume: line %d out of range (%d lines)", resume, lines.Len())
				}
				for _, s := range lines.Resume(resume) {
					fmt.Fprintln(out, s)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d lines failed to parse", failed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&resume, "resume", -1, "Print the program needed to resume at this line index instead.")
	cmd.Flags().BoolVar(&emit, "emit", false, "Print the normalized program, stopping at the first error.")
	cmd.Flags().BoolVar(&showState, "state", false, "Print the modal state after each line.")
	return cmd
}

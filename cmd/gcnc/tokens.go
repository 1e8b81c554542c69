package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mastercactapus/grbltok/machine"
	"github.com/mastercactapus/grbltok/machine/grbl"
)

// tokenizeAll pushes every byte of r through a tokenizer, calling fn with the
// tokens of each completed line. Failed lines are logged and skipped over.
func tokenizeAll(r io.Reader, fn func([]grbl.Token)) (failed int, err error) {
	tk := grbl.NewTokenizer(grbl.WithLogger(log))
	br := bufio.NewReader(r)
	for eof := false; !eof; {
		c, err := br.ReadByte()
		if err == io.EOF {
			eof = true
			c = '\n'
		} else if err != nil {
			return failed, err
		}
		complete, err := tk.Push(c)
		if !complete {
			continue
		}
		if err != nil {
			failed++
			log.Warn("tokenize", zap.Error(err))
		}
		fn(tk.Tokens().Tokens())
		tk.Tokens().Reset()
	}
	return failed, nil
}

func newTokensCmd() *cobra.Command {
	var showState bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Tokenize captured controller output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			var state machine.State
			failed, err := tokenizeAll(in, func(tokens []grbl.Token) {
				state = grbl.ApplyAll(state, tokens)
				if showState {
					return
				}
				for _, tok := range tokens {
					fmt.Fprintf(out, "%s\t%+v\n", tok.Kind(), tok)
				}
			})
			if err != nil {
				return err
			}
			if showState {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err = enc.Encode(state); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d lines failed to tokenize", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showState, "state", false, "Print the resulting machine state as JSON instead of tokens.")
	return cmd
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yacobolo/cssmodules/internal/digest"
)

var digestCmd = &cobra.Command{
	Use:   "digest [text]",
	Short: "Hash text the way [hash] tokens do",
	Long: fmt.Sprintf(`Print the digest of [text], or of stdin when no text is given.

Algorithms: %s
Encodings:  %s`, strings.Join(digest.Algorithms(), ", "), strings.Join(digest.Encodings(), ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		if len(args) == 1 {
			data = []byte(args[0])
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			data = b
		}

		algorithm, _ := cmd.Flags().GetString("algorithm")
		encoding, _ := cmd.Flags().GetString("encoding")
		length, _ := cmd.Flags().GetInt("length")

		sum, err := digest.HashDigest(data, algorithm, encoding, length)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	f := digestCmd.Flags()
	f.StringP("algorithm", "a", digest.XXHash64.String(), "Hash algorithm")
	f.StringP("encoding", "e", digest.Hex.String(), "Digest encoding")
	f.IntP("length", "l", digest.Unbounded, "Maximum digest length (-1 = unbounded)")
}

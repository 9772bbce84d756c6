package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phux/phishcheck/app"

	valid "github.com/asaskevich/govalidator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var outputFile string

var checkCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "analyze one URL and print the verdict",
	Long: `analyze one URL and print the verdict and findings.
Without an argument the URL is read from the first line of stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		input := ""
		if len(args) == 1 {
			input = args[0]
		} else {
			input, err = readLine(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("could not read URL from stdin: %w", err)
			}
		}

		if !valid.IsNull(app.NormalizeInput(input)) {
			printView(cmd.ErrOrStderr(), app.View{State: app.StateLoading, Input: input})
		}

		session := app.NewSession(newClient(cfg))
		result, err := session.Submit(cmd.Context(), input)
		view := session.Snapshot()
		if err != nil {
			printView(cmd.ErrOrStderr(), view)

			return errors.New(view.Message)
		}

		if outputFile == "" {
			printView(cmd.OutOrStdout(), view)

			return nil
		}

		content, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		err = os.WriteFile(outputFile, content, 0o644)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Written result to %s\n", outputFile)

		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&outputFile, "output", "", "[optional] output: path to write the result to as JSON (default: \"\" -> writing to stdout)")
	rootCmd.AddCommand(checkCmd)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return line, nil
}

var toneColors = map[app.Tone]*color.Color{
	app.ToneDanger:  color.New(color.FgRed, color.Bold),
	app.ToneWarning: color.New(color.FgYellow, color.Bold),
	app.ToneSafe:    color.New(color.FgGreen, color.Bold),
	app.ToneUnknown: color.New(color.Bold),
}

var errorColor = color.New(color.FgRed)

// printView renders a session snapshot for the terminal.
func printView(w io.Writer, view app.View) {
	switch view.State {
	case app.StateError:
		errorColor.Fprintf(w, "Error: %s\n", view.Message)
	case app.StateLoading:
		fmt.Fprintln(w, "Analyzing...")
	case app.StateResult:
		verdict := view.Result.Verdict
		fmt.Fprint(w, "Verdict: ")
		toneColors[app.VerdictTone(verdict)].Fprintln(w, verdict)
		fmt.Fprintf(w, "URL:     %s\n", view.Result.URL)
		fmt.Fprintln(w, "Findings:")
		for _, item := range view.Items() {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}

package cmd

import (
	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

func printBanner(listen, endpoint string) {
	myFigure := figure.NewColorFigure("phishcheck", "doom", "red", true)
	myFigure.Print()

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Println("════════════════════════════════════════════════")
	_, _ = green.Printf("    listening on %s | analysis service %s\n", listen, endpoint)
	_, _ = cyan.Println("════════════════════════════════════════════════")
}

package report

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintInfoMessage prints an informational message to the user.
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// PrintWarningMessage prints a warning message to the console.
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintTable renders rows as a table whose first row is the header.
func PrintTable(rows [][]string) {
	if rep.logLevel < LogLevelVerbose || len(rows) == 0 {
		return
	}

	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Render()
}

// -----------------------------------------------------------------------------

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	fmt.Print("\n")
	ErrorStyleBG.Print("Internal Compiler Error")
	ErrorColorFG.Println(" " + message)
	InfoColorFG.Println("This error was not supposed to happen: it is likely a bug in the compiler.")
	fmt.Println()
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	ErrorStyleBG.Print("Fatal Error")
	ErrorColorFG.Println(" " + message)
	fmt.Println()
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to put in the banner: eg. "Attribute Error".
func displayCompileMessage(label, reprPath string, span *TextSpan, message string, isError bool) {
	fmt.Print("-- ")
	if isError {
		ErrorStyleBG.Print(label)
	} else {
		WarnStyleBG.Print(label)
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(reprPath) - len(label) - 1
	if dashCount < 1 {
		dashCount = 1
	}

	fmt.Print(" ", strings.Repeat("-", dashCount), " ")
	InfoColorFG.Println(reprPath)

	if span != nil {
		fmt.Printf("%s:%s: %s\n\n", reprPath, span, message)
	} else {
		fmt.Printf("%s: %s\n\n", reprPath, message)
	}
}

// displayStdError displays a standard Go error.
func displayStdError(reprPath string, err error) {
	ErrorStyleBG.Print("Error")
	ErrorColorFG.Printf(" %s: %s\n\n", reprPath, err)
}

// displayCompilationFinished displays a compilation finished message.
func displayCompilationFinished(success bool, errorCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" errors)")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Println(" error)")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Println(" errors)")
	}
}

// ReportCompilationFinished reports the concluding message for compilation.
func ReportCompilationFinished() {
	rep.m.Lock()
	defer rep.m.Unlock()

	if rep.logLevel == LogLevelVerbose {
		displayCompilationFinished(rep.errorCount == 0, rep.errorCount)
	}
}

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/zulfikawr/quickget/cmd/quickget/commands"
	"github.com/zulfikawr/quickget/cmd/quickget/completion"
	"github.com/zulfikawr/quickget/cmd/quickget/ui"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/logging"
)

// filter out global flags that subcommands don't recognize
func filterGlobalFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--no-color" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func main() {
	log.SetFlags(0)
	// Determine color usage from env and global flag
	enableColors := os.Getenv("NO_COLOR") == ""
	for _, a := range os.Args[1:] {
		if a == "--no-color" {
			enableColors = false
			break
		}
	}
	ui.SetColorsEnabled(enableColors)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	defer logging.Sync()

	args := filterGlobalFlags(os.Args[2:])
	var err error
	switch os.Args[1] {
	case "get":
		err = commands.Get(args)
	case "bench":
		err = commands.Bench(args)
	case "config":
		err = commands.Config(args)
	case "completion":
		err = completion.Generate(args)
	case "-h", "--help", "help":
		usage()
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		printError(err)
		logging.Sync()
		os.Exit(1)
	}
}

func printError(err error) {
	var fe *ferrors.FetchError
	var ue *ferrors.UserError
	switch {
	case errors.As(err, &fe):
		fmt.Fprintf(os.Stderr, "%sError [%s]:%s %s\n", ui.C.Red, fe.Kind, ui.C.Reset, fe.Detailed())
	case errors.As(err, &ue):
		fmt.Fprintf(os.Stderr, "%sError:%s %s\n", ui.C.Red, ui.C.Reset, ue.Error())
	default:
		fmt.Fprintf(os.Stderr, "%sError:%s %v\n", ui.C.Red, ui.C.Reset, err)
	}
}

func usage() {
	fmt.Println()
	fmt.Println(ui.C.Bold + "quickget" + ui.C.Reset + ui.C.Dim + "  one GET, as few round trips as the kernel allows" + ui.C.Reset)
	fmt.Println()

	fmt.Println(ui.C.Bold + "Usage:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " [flags] <host[:port][/path]> [path]")
	fmt.Println("  " + ui.C.Green + "quickget bench" + ui.C.Reset + " [flags] <host[:port][/path]> [path]")
	fmt.Println("  " + ui.C.Green + "quickget config" + ui.C.Reset + " [init|show|edit|path]")
	fmt.Println("  " + ui.C.Green + "quickget completion" + ui.C.Reset + " [bash|zsh|fish|powershell]")
	fmt.Println()

	fmt.Println(ui.C.Bold + "Commands:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Magenta + "get" + ui.C.Reset + "  Fetch one resource and print its body")
	fmt.Println("\t" + ui.C.Yellow + "-6" + ui.C.Reset + "                use IPv6")
	fmt.Println("\t" + ui.C.Yellow + "--timeout" + ui.C.Reset + "         connect/receive timeout (e.g., 500ms, 0 = none)")
	fmt.Println("\t" + ui.C.Yellow + "--port" + ui.C.Reset + "            port to connect to")
	fmt.Println("\t" + ui.C.Yellow + "-H, --header" + ui.C.Reset + "      extra header line, repeatable")
	fmt.Println("\t" + ui.C.Yellow + "--no-compress" + ui.C.Reset + "     do not negotiate gzip")
	fmt.Println("\t" + ui.C.Yellow + "--no-fastopen" + ui.C.Reset + "     skip TCP Fast Open")
	fmt.Println("\t" + ui.C.Yellow + "--single-thread" + ui.C.Reset + "   connect on the calling goroutine")
	fmt.Println("\t" + ui.C.Yellow + "-i, --include" + ui.C.Reset + "     print response headers")
	fmt.Println("\t" + ui.C.Yellow + "-o, --output" + ui.C.Reset + "      write body to a file")
	fmt.Println()
	fmt.Println("  " + ui.C.Magenta + "bench" + ui.C.Reset + "  Fetch a resource repeatedly and report latency")
	fmt.Println("\t" + ui.C.Yellow + "-n, --count" + ui.C.Reset + "       number of fetches (default 5)")
	fmt.Println("\t" + ui.C.Yellow + "--rate" + ui.C.Reset + "            fetches per second (default 2)")
	fmt.Println()
	fmt.Println("  " + ui.C.Magenta + "config" + ui.C.Reset + "   Manage configuration file")
	fmt.Println("\t" + ui.C.Yellow + "init" + ui.C.Reset + "              initialize configuration interactively")
	fmt.Println("\t" + ui.C.Yellow + "show" + ui.C.Reset + "              display current configuration")
	fmt.Println("\t" + ui.C.Yellow + "edit" + ui.C.Reset + "              open config file in $EDITOR")
	fmt.Println("\t" + ui.C.Yellow + "path" + ui.C.Reset + "              show config file path")
	fmt.Println()
	fmt.Println("  " + ui.C.Magenta + "completion" + ui.C.Reset + "   Generate shell completion scripts")
	fmt.Println()

	fmt.Println(ui.C.Bold + "Examples:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " ipinfo.io /json " + ui.C.Dim + "         # Fetch a JSON document" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget get" + ui.C.Reset + " -i localhost:8080/ " + ui.C.Dim + "      # Headers and body" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget bench" + ui.C.Reset + " -n 20 example.com " + ui.C.Dim + "     # Measure latency" + ui.C.Reset)
	fmt.Println()
	fmt.Println(ui.C.Dim + "Use \"quickget <command> -h\" for command-specific help. Global: --no-color" + ui.C.Reset)
}

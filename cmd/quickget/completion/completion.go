package completion

import (
	"fmt"
	"io"
	"os"

	"github.com/zulfikawr/quickget/cmd/quickget/ui"
)

// Generate executes the completion command
func Generate(args []string) error {
	if len(args) == 0 {
		Help()
		return nil
	}

	shell := args[0]
	if shell == "-h" || shell == "--help" || shell == "help" {
		Help()
		return nil
	}
	if err := Write(os.Stdout, shell); err != nil {
		fmt.Printf("Unknown shell: %s\n", shell)
		Help()
		return err
	}
	return nil
}

// Write prints the completion script for shell to w
func Write(w io.Writer, shell string) error {
	var script string
	switch shell {
	case "bash":
		script = bashScript
	case "zsh":
		script = zshScript
	case "fish":
		script = fishScript
	case "powershell":
		script = powershellScript
	default:
		return fmt.Errorf("unknown shell: %s", shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// Help displays completion command help
func Help() {
	fmt.Println(ui.C.Bold + ui.C.Green + "quickget completion" + ui.C.Reset + " - Generate shell completion scripts")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Usage:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget completion" + ui.C.Reset + " [bash|zsh|fish|powershell]")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Available Shells:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Yellow + "bash" + ui.C.Reset + "              Bash completion script")
	fmt.Println("  " + ui.C.Yellow + "zsh" + ui.C.Reset + "               Zsh completion script")
	fmt.Println("  " + ui.C.Yellow + "fish" + ui.C.Reset + "              Fish completion script")
	fmt.Println("  " + ui.C.Yellow + "powershell" + ui.C.Reset + "        PowerShell completion script")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Installation:" + ui.C.Reset)
	fmt.Println()
	fmt.Println(ui.C.Bold + "  Bash:" + ui.C.Reset)
	fmt.Println("    $ quickget completion bash > /etc/bash_completion.d/quickget")
	fmt.Println("    $ source /etc/bash_completion.d/quickget")
	fmt.Println()
	fmt.Println(ui.C.Bold + "  Zsh:" + ui.C.Reset)
	fmt.Println("    $ quickget completion zsh > /usr/local/share/zsh/site-functions/_quickget")
	fmt.Println("    $ autoload -U compinit && compinit")
	fmt.Println()
	fmt.Println(ui.C.Bold + "  Fish:" + ui.C.Reset)
	fmt.Println("    $ quickget completion fish > ~/.config/fish/completions/quickget.fish")
	fmt.Println()
	fmt.Println(ui.C.Bold + "  PowerShell:" + ui.C.Reset)
	fmt.Println("    $ quickget completion powershell | Out-String | Invoke-Expression")
	fmt.Println()
}

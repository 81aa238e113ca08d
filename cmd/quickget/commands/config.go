package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/zulfikawr/quickget/cmd/quickget/ui"
	"github.com/zulfikawr/quickget/internal/config"
	"github.com/zulfikawr/quickget/internal/errors"
)

// Config executes the config command
func Config(args []string) error {
	if len(args) == 0 {
		configHelp()
		return nil
	}

	subcmd := args[0]
	switch subcmd {
	case "init":
		return configInit()

	case "show":
		cfg, err := config.LoadConfig()
		if err != nil {
			return errors.ConfigError("Failed to load configuration", err)
		}
		configPath := config.GetConfigPath()
		fmt.Println(ui.C.Bold + "Current Configuration:" + ui.C.Reset)
		fmt.Printf("  Config file: %s\n", configPath)
		fmt.Println()
		fmt.Printf("  %-22s %v\n", "IPv6:", cfg.IPv6)
		fmt.Printf("  %-22s %d ms\n", "Timeout:", cfg.TimeoutMs)
		fmt.Printf("  %-22s %v\n", "Multithreading:", cfg.Multithreading)
		fmt.Printf("  %-22s %v\n", "Compression:", cfg.Compression)
		fmt.Printf("  %-22s %v\n", "TCP Fast Open:", cfg.FastOpen)
		fmt.Printf("  %-22s %s\n", "Decompress Backend:", cfg.DecompressBackend)
		fmt.Printf("  %-22s %d bytes\n", "Receive Buffer Size:", cfg.ReceiveBufferSize)
		fmt.Printf("  %-22s %d\n", "Port:", cfg.Port)
		fmt.Printf("  %-22s %s\n", "Headers:", strings.Join(cfg.Headers, "; "))
		fmt.Printf("  %-22s %.1f/s\n", "Bench Rate:", cfg.BenchRate)
		fmt.Printf("  %-22s %d\n", "Bench Count:", cfg.BenchCount)

	case "edit":
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		configPath := config.GetConfigPath()

		// Create config file if it doesn't exist
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			cfg := config.DefaultConfig()
			if err := config.SaveConfig(cfg); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			fmt.Printf("Created new config file at: %s\n", configPath)
		}

		// Open editor
		cmd := fmt.Sprintf("%s %s", editor, configPath)
		fmt.Printf("Opening %s...\n", configPath)
		if err := syscall.Exec("/bin/sh", []string{"/bin/sh", "-c", cmd}, os.Environ()); err != nil {
			return fmt.Errorf("failed to open editor: %w", err)
		}

	case "path":
		fmt.Println(config.GetConfigPath())

	case "-h", "--help", "help":
		configHelp()

	default:
		fmt.Printf("Unknown config subcommand: %s\n", subcmd)
		configHelp()
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}

	return nil
}

func configInit() error {
	configPath := config.GetConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf(ui.C.Yellow+"Configuration file already exists at: %s\n"+ui.C.Reset, configPath)
		overwrite := promptYesNo("Do you want to overwrite it?", false)
		if !overwrite {
			fmt.Println(ui.C.Dim + "Configuration initialization cancelled." + ui.C.Reset)
			return nil
		}
	}

	fmt.Println(ui.C.Bold + ui.C.Green + "Initialize quickget Configuration" + ui.C.Reset)
	fmt.Println()
	fmt.Println(ui.C.Cyan + "Press Enter to use default values shown in " + ui.C.Dim + "[brackets]" + ui.C.Reset)
	fmt.Println()

	cfg := config.DefaultConfig()
	scanner := bufio.NewScanner(os.Stdin)

	// Address family
	cfg.IPv6 = promptYesNo(ui.C.Cyan+"Use IPv6 by default?"+ui.C.Reset, cfg.IPv6)

	// Timeout
	cfg.TimeoutMs = uint32(promptInt(scanner, ui.C.Cyan+"Timeout "+ui.C.Dim+"(ms, 0 for none)"+ui.C.Reset, int(cfg.TimeoutMs)))

	// Connection paths
	cfg.FastOpen = promptYesNo(ui.C.Cyan+"Try TCP Fast Open first?"+ui.C.Reset, cfg.FastOpen)
	cfg.Multithreading = promptYesNo(ui.C.Cyan+"Connect on a background task?"+ui.C.Reset, cfg.Multithreading)

	// Compression
	cfg.Compression = promptYesNo(ui.C.Cyan+"Negotiate gzip compression?"+ui.C.Reset, cfg.Compression)
	cfg.DecompressBackend = promptString(scanner, ui.C.Cyan+"Decompression backend "+ui.C.Dim+"(klauspost or none)"+ui.C.Reset, cfg.DecompressBackend)

	// Receive buffer
	cfg.ReceiveBufferSize = promptInt(scanner, ui.C.Cyan+"Initial receive buffer (bytes)"+ui.C.Reset, cfg.ReceiveBufferSize)

	// Port
	cfg.Port = promptInt(scanner, ui.C.Cyan+"Default port"+ui.C.Reset, cfg.Port)

	// Bench
	cfg.BenchCount = promptInt(scanner, ui.C.Cyan+"Bench fetch count"+ui.C.Reset, cfg.BenchCount)
	cfg.BenchRate = promptFloat(scanner, ui.C.Cyan+"Bench rate "+ui.C.Dim+"(fetches per second, 0 for unpaced)"+ui.C.Reset, cfg.BenchRate)

	if err := cfg.Validate(); err != nil {
		return errors.ConfigError("Invalid configuration", err)
	}

	// Save configuration
	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Println(ui.C.Green + "✓ Configuration saved to: " + ui.C.Reset + ui.C.Dim + configPath + ui.C.Reset)
	fmt.Println()
	fmt.Println(ui.C.Dim + "You can edit the configuration anytime with:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget config edit" + ui.C.Reset)

	return nil
}

func promptString(scanner *bufio.Scanner, prompt string, defaultValue string) string {
	if defaultValue != "" {
		fmt.Printf("%s "+ui.C.Dim+"[%s]"+ui.C.Reset+": ", prompt, defaultValue)
	} else {
		fmt.Printf("%s: ", prompt)
	}

	scanner.Scan()
	input := strings.TrimSpace(scanner.Text())

	if input == "" {
		return defaultValue
	}
	return input
}

func promptInt(scanner *bufio.Scanner, prompt string, defaultValue int) int {
	fmt.Printf("%s "+ui.C.Dim+"[%d]"+ui.C.Reset+": ", prompt, defaultValue)

	scanner.Scan()
	input := strings.TrimSpace(scanner.Text())

	if input == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(input)
	if err != nil {
		fmt.Printf(ui.C.Red+"Invalid number, using default: %d\n"+ui.C.Reset, defaultValue)
		return defaultValue
	}

	return value
}

func promptFloat(scanner *bufio.Scanner, prompt string, defaultValue float64) float64 {
	fmt.Printf("%s "+ui.C.Dim+"[%.1f]"+ui.C.Reset+": ", prompt, defaultValue)

	scanner.Scan()
	input := strings.TrimSpace(scanner.Text())

	if input == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Printf(ui.C.Red+"Invalid number, using default: %.1f\n"+ui.C.Reset, defaultValue)
		return defaultValue
	}

	return value
}

func promptYesNo(prompt string, defaultValue bool) bool {
	defaultStr := ui.C.Dim + "y/N" + ui.C.Reset
	if defaultValue {
		defaultStr = ui.C.Dim + "Y/n" + ui.C.Reset
	}

	fmt.Printf("%s [%s]: ", prompt, defaultStr)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	input := strings.TrimSpace(strings.ToLower(scanner.Text()))

	if input == "" {
		return defaultValue
	}

	return input == "y" || input == "yes"
}

func configHelp() {
	fmt.Println(ui.C.Bold + ui.C.Green + "quickget config" + ui.C.Reset + " - Manage configuration file")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Usage:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget config init" + ui.C.Reset + "  Initialize configuration interactively")
	fmt.Println("  " + ui.C.Green + "quickget config show" + ui.C.Reset + "  Display current configuration")
	fmt.Println("  " + ui.C.Green + "quickget config edit" + ui.C.Reset + "  Open config file in $EDITOR")
	fmt.Println("  " + ui.C.Green + "quickget config path" + ui.C.Reset + "  Show config file path")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Configuration File:" + ui.C.Reset)
	fmt.Println("  Location: ~/.config/quickget/quickget.yaml")
	fmt.Println("  Format:   YAML")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Available Settings:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Yellow + "ipv6" + ui.C.Reset + "                 Resolve and connect over IPv6")
	fmt.Println("  " + ui.C.Yellow + "timeout_ms" + ui.C.Reset + "           Connect, join and receive timeout (0 = none)")
	fmt.Println("  " + ui.C.Yellow + "multithreading" + ui.C.Reset + "       Run the classic connect on a background task")
	fmt.Println("  " + ui.C.Yellow + "compression" + ui.C.Reset + "          Send Accept-Encoding: gzip")
	fmt.Println("  " + ui.C.Yellow + "fast_open" + ui.C.Reset + "            Try TCP Fast Open before connect")
	fmt.Println("  " + ui.C.Yellow + "decompress_backend" + ui.C.Reset + "   Inflate backend (klauspost, none)")
	fmt.Println("  " + ui.C.Yellow + "receive_buffer_size" + ui.C.Reset + "  Initial receive buffer in bytes")
	fmt.Println("  " + ui.C.Yellow + "port" + ui.C.Reset + "                 Port to connect to")
	fmt.Println("  " + ui.C.Yellow + "headers" + ui.C.Reset + "              Extra header lines sent with every request")
	fmt.Println("  " + ui.C.Yellow + "bench_rate" + ui.C.Reset + "           Bench fetches per second")
	fmt.Println("  " + ui.C.Yellow + "bench_count" + ui.C.Reset + "          Bench fetch count")
	fmt.Println()
	fmt.Println(ui.C.Bold + "Examples:" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget config init" + ui.C.Reset + "              " + ui.C.Dim + "# Create config interactively" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget config show" + ui.C.Reset + "              " + ui.C.Dim + "# View current settings" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget config edit" + ui.C.Reset + "              " + ui.C.Dim + "# Edit configuration" + ui.C.Reset)
	fmt.Println("  " + ui.C.Green + "quickget config path" + ui.C.Reset + "              " + ui.C.Dim + "# Show config location" + ui.C.Reset)
	fmt.Println()
	fmt.Println(ui.C.Dim + "Configuration values can also be set via environment variables:" + ui.C.Reset)
	fmt.Println(ui.C.Dim + "  QUICKGET_TIMEOUT_MS=1000 quickget get example.com" + ui.C.Reset)
}

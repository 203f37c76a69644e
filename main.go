package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/textvault/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		runEncrypt(ctx, os.Args[2:])
	case "decrypt":
		runDecrypt(ctx, os.Args[2:])
	case "init":
		runInit(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "get":
		runGet(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "ls":
		runLs(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseFlags parses args allowing flags after positional arguments.
// Everything after "--" is positional.
func parseFlags(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional
		}
		// fs.Parse consumed a "--" terminator
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...)
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func usageError(usage string) {
	fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
	os.Exit(1)
}

func runEncrypt(_ context.Context, args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	prompt := fs.Bool("p", false, "Prompt for the password even if TEXTVAULT_PASSWORD is set")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Encrypt(fs.Args(), *prompt)
}

func runDecrypt(_ context.Context, args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	prompt := fs.Bool("p", false, "Prompt for the password even if TEXTVAULT_PASSWORD is set")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Decrypt(fs.Args(), *prompt)
}

func runInit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init(ctx)
}

func runAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	var file string
	fs.StringVar(&file, "f", "", "Read text from file")
	fs.StringVar(&file, "file", "", "Read text from file")
	positional := parseFlags(fs, args)

	if len(positional) < 1 {
		usageError("textvault add <name> [text...] [-f file]")
	}
	cmd.Add(ctx, positional[0], positional[1:], file)
}

func runGet(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "", "Write text to file")
	fs.StringVar(&out, "out", "", "Write text to file")
	force := fs.Bool("force", false, "Overwrite an existing output file")
	positional := parseFlags(fs, args)

	if len(positional) != 1 {
		usageError("textvault get <name> [-o file] [--force]")
	}
	cmd.Get(ctx, positional[0], out, *force)
}

func runRm(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	positional := parseFlags(fs, args)

	cmd.Remove(ctx, positional)
}

func runLs(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Ls(ctx)
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status(ctx)
}

func runPasswd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Passwd(ctx)
}

func runDiff(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	positional := parseFlags(fs, args)

	if len(positional) != 2 {
		usageError("textvault diff <name> <file>")
	}
	cmd.Diff(ctx, positional[0], positional[1])
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Compact()
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 1 {
		usageError("textvault keyring <save|delete|status>")
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		usageError("textvault keyring <save|delete|status>")
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		usageError("textvault completion <bash|zsh|fish>")
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("textvault - password-based encryption for short text")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  textvault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Encrypt text into a portable envelope")
	fmt.Println("  decrypt     Decrypt an envelope")
	fmt.Println("  init        Create a new vault")
	fmt.Println("  add         Encrypt and store an item in the vault")
	fmt.Println("  get         Decrypt an item from the vault")
	fmt.Println("  rm          Remove items from the vault")
	fmt.Println("  ls          List item names")
	fmt.Println("  status      Show vault status")
	fmt.Println("  passwd      Change vault password")
	fmt.Println("  diff        Compare a stored item with a local file")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage the vault password in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  textvault encrypt \"meet at noon\"     # Print an envelope")
	fmt.Println("  textvault decrypt <envelope>         # Print the text")
	fmt.Println("  textvault init                       # Create the vault")
	fmt.Println("  textvault add api-key sk-12345       # Store an item")
	fmt.Println("  textvault get api-key                # Print an item")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  TEXTVAULT_PASSWORD    Password to use instead of prompting")
	fmt.Println("  TEXTVAULT_DIR         Vault directory (default: user config dir/textvault)")
	fmt.Println("  TEXTVAULT_DB          Vault file name or absolute path (default: vault.db)")
	fmt.Println("  TEXTVAULT_NO_KEYRING  Set to true to never use the OS keyring")
	fmt.Println("  TEXTVAULT_CONFIG      Config file (default: user config dir/textvault/config.yaml)")
	fmt.Println()
	fmt.Println("Use 'textvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("textvault encrypt [-p] [text...]")
		fmt.Println()
		fmt.Println("Encrypts text with a password and prints the envelope.")
		fmt.Println("Reads the text from stdin when no arguments are given;")
		fmt.Println("a single trailing newline is dropped.")
		fmt.Println("Every run uses a fresh salt and nonce, so the output differs each time.")
		fmt.Println("Does not use the vault.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -p    Prompt for the password even if TEXTVAULT_PASSWORD is set")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  textvault encrypt \"meet at noon\"")
		fmt.Println("  echo \"meet at noon\" | TEXTVAULT_PASSWORD=secret textvault encrypt")
	case "decrypt":
		fmt.Println("textvault decrypt [-p] [<envelope>]")
		fmt.Println()
		fmt.Println("Decrypts an envelope produced by 'textvault encrypt' and prints the text.")
		fmt.Println("Reads the envelope from stdin when no argument is given.")
		fmt.Println("Fails if the password is wrong or the envelope was modified.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -p    Prompt for the password even if TEXTVAULT_PASSWORD is set")
	case "init":
		fmt.Println("textvault init")
		fmt.Println()
		fmt.Println("Creates a new vault. Prompts for a password that will be used for encryption.")
		fmt.Println("The password is not stored anywhere - you must remember it.")
	case "add":
		fmt.Println("textvault add <name> [text...] [-f|--file <file>]")
		fmt.Println()
		fmt.Println("Encrypts text with the vault password and stores it under name,")
		fmt.Println("replacing any previous value. The text is taken from the arguments,")
		fmt.Println("from a file in the current directory, or from stdin.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  textvault add api-key sk-12345")
		fmt.Println("  textvault add prod/env -f .env")
		fmt.Println("  pbpaste | textvault add note")
	case "get":
		fmt.Println("textvault get <name> [-o|--out <file>] [--force]")
		fmt.Println()
		fmt.Println("Decrypts an item and prints it, or writes it to a file in the")
		fmt.Println("current directory with owner-only permissions.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -o, --out    Write to file instead of stdout")
		fmt.Println("  --force      Overwrite the file if it exists")
	case "rm":
		fmt.Println("textvault rm <name> [name...]")
		fmt.Println()
		fmt.Println("Removes items from the vault. Supports glob patterns.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  textvault rm api-key")
		fmt.Println("  textvault rm \"prod/*\"")
	case "ls":
		fmt.Println("textvault ls")
		fmt.Println()
		fmt.Println("Prints item names, one per line. Does not require a password.")
	case "status":
		fmt.Println("textvault status")
		fmt.Println()
		fmt.Println("Shows the vault location, ID, timestamps, keyring state,")
		fmt.Println("stored items with their encrypted sizes and git warnings.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "passwd":
		fmt.Println("textvault passwd")
		fmt.Println()
		fmt.Println("Changes the vault password.")
		fmt.Println("Re-encrypts all items with the new password in a single transaction.")
	case "diff":
		fmt.Println("textvault diff <name> <file>")
		fmt.Println()
		fmt.Println("Shows a unified diff from the stored item to a local file.")
	case "compact":
		fmt.Println("textvault compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm' and 'passwd' commands,")
		fmt.Println("but can be run manually if needed.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "keyring":
		fmt.Println("textvault keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the vault password in the OS keyring.")
		fmt.Println("A saved password is used instead of prompting.")
	case "completion":
		fmt.Println("textvault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(textvault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(textvault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  textvault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}

package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_textvault() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt init add get rm ls status passwd diff compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt|decrypt)
            COMPREPLY=($(compgen -W "-p" -- "$cur"))
            ;;
        add)
            if [[ "$prev" == "-f" || "$prev" == "--file" ]]; then
                _filedir
            elif [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-f --file" -- "$cur"))
            elif [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "$(textvault ls 2>/dev/null)" -- "$cur"))
            fi
            ;;
        get)
            if [[ "$prev" == "-o" || "$prev" == "--out" ]]; then
                _filedir
            elif [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-o --out --force" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "$(textvault ls 2>/dev/null)" -- "$cur"))
            fi
            ;;
        rm)
            COMPREPLY=($(compgen -W "$(textvault ls 2>/dev/null)" -- "$cur"))
            ;;
        diff)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "$(textvault ls 2>/dev/null)" -- "$cur"))
            else
                _filedir
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _textvault textvault
`

const zshCompletion = `#compdef textvault

_textvault() {
    local -a commands
    commands=(
        'encrypt:Encrypt text into an envelope'
        'decrypt:Decrypt an envelope'
        'init:Create a new vault'
        'add:Encrypt and store an item'
        'get:Decrypt a stored item'
        'rm:Remove items from the vault'
        'ls:List item names'
        'status:Show vault status'
        'passwd:Change vault password'
        'diff:Compare a stored item with a local file'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'textvault commands' commands
            ;;
        args)
            case "${words[2]}" in
                encrypt|decrypt)
                    _arguments '-p[Prompt for the password]'
                    ;;
                add)
                    _arguments \
                        '(-f --file)'{-f,--file}'[Read text from file]:file:_files' \
                        '1:item:_textvault_items'
                    ;;
                get)
                    _arguments \
                        '(-o --out)'{-o,--out}'[Write text to file]:file:_files' \
                        '--force[Overwrite an existing file]' \
                        '1:item:_textvault_items'
                    ;;
                rm)
                    _arguments '*:item:_textvault_items'
                    ;;
                diff)
                    _arguments '1:item:_textvault_items' '2:file:_files'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'textvault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_textvault_items() {
    local -a items
    items=(${(f)"$(textvault ls 2>/dev/null)"})
    _describe -t items 'vault items' items
}

_textvault "$@"
`

const fishCompletion = `# textvault fish completions

set -l commands encrypt decrypt init add get rm ls status passwd diff compact keyring help completion

complete -c textvault -f

# Commands
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt text into an envelope'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt an envelope'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new vault'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a add -d 'Encrypt and store an item'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a get -d 'Decrypt a stored item'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove items'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a ls -d 'List item names'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change vault password'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare item with local file'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact vault'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c textvault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# encrypt and decrypt
complete -c textvault -n "__fish_seen_subcommand_from encrypt decrypt" -s p -d 'Prompt for the password'

# item names
complete -c textvault -n "__fish_seen_subcommand_from add get rm diff" -a "(textvault ls 2>/dev/null)"

# add and get flags
complete -c textvault -n "__fish_seen_subcommand_from add" -s f -l file -r -F -d 'Read text from file'
complete -c textvault -n "__fish_seen_subcommand_from get" -s o -l out -r -F -d 'Write text to file'
complete -c textvault -n "__fish_seen_subcommand_from get" -l force -d 'Overwrite an existing file'

# keyring subcommands
complete -c textvault -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c textvault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c textvault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`

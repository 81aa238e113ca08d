package completion

const bashScript = `# bash completion for quickget
_quickget_completion() {
    local cur prev opts fetch_opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    fetch_opts="-6 --timeout --port -H --header --no-compress --no-fastopen --single-thread --metrics -v --verbose -h --help"

    # Main commands
    if [ $COMP_CWORD -eq 1 ]; then
        opts="get bench config completion"
        COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
        return 0
    fi

    # Subcommand completion
    case "${COMP_WORDS[1]}" in
        get)
            if [ "${prev}" = "-o" ] || [ "${prev}" = "--output" ]; then
                COMPREPLY=( $(compgen -f -- ${cur}) )
                return 0
            fi
            opts="${fetch_opts} -i --include -o --output"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            ;;
        bench)
            opts="${fetch_opts} -n --count --rate"
            COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            ;;
        config)
            if [ $COMP_CWORD -eq 2 ]; then
                opts="init show edit path"
                COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            fi
            ;;
        completion)
            if [ $COMP_CWORD -eq 2 ]; then
                opts="bash zsh fish powershell"
                COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
            fi
            ;;
    esac
}

complete -F _quickget_completion quickget
`

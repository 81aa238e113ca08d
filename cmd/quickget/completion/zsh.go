package completion

const zshScript = `#compdef quickget

_quickget() {
    local curcontext="$curcontext" state line
    typeset -A opt_args

    local -a fetch_args
    fetch_args=(
        '-6[Use IPv6]'
        '--timeout[Connect and receive timeout]'
        '--port[Port to connect to]'
        {-H,--header}'[Extra header line]'
        '--no-compress[Do not negotiate gzip]'
        '--no-fastopen[Skip TCP Fast Open]'
        '--single-thread[Connect on the calling thread]'
        '--metrics[Dump metrics to stderr]'
        {-v,--verbose}'[Verbose logging]'
        {-h,--help}'[Show help]'
    )

    _arguments -C \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            local commands=(
                'get:Fetch one resource with a single GET'
                'bench:Fetch a resource repeatedly and report latency'
                'config:Manage configuration file'
                'completion:Generate shell completion scripts'
            )
            _describe 'command' commands
            ;;
        args)
            case $line[1] in
                get)
                    _arguments \
                        $fetch_args \
                        {-i,--include}'[Print response headers]' \
                        {-o,--output}'[Write body to file]:file:_files'
                    ;;
                bench)
                    _arguments \
                        $fetch_args \
                        {-n,--count}'[Number of fetches]' \
                        '--rate[Fetches per second]'
                    ;;
                config)
                    local config_commands=(
                        'init:Initialize configuration interactively'
                        'show:Display current configuration'
                        'edit:Open config file in editor'
                        'path:Show config file path'
                    )
                    _describe 'config command' config_commands
                    ;;
                completion)
                    local shells=(
                        'bash:Bash completion'
                        'zsh:Zsh completion'
                        'fish:Fish completion'
                        'powershell:PowerShell completion'
                    )
                    _describe 'shell' shells
                    ;;
            esac
            ;;
    esac
}

_quickget "$@"
`
